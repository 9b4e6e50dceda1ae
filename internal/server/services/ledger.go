// Package services contains the server-side business logic. Every
// balance-affecting action goes through one validate-apply-audit sequence
// here; the HTTP layer above holds no rules and the repositories below hold
// no policy.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/dbx"
	"github.com/pelicoin/ledger-server/internal/logging"
	"github.com/pelicoin/ledger-server/internal/server/events"
	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// LedgerService gates purchases and bucket-to-bucket transfers. All
// validation happens before any write; the balance write and its audit
// entry are applied in one transaction, so a failed append leaves the
// balance untouched and the caller may retry safely. Balance writes are
// also conditional on the account version, so two concurrent operations
// on one account cannot both apply against the same snapshot.
type LedgerService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	publisher events.Publisher
	logger    logging.Logger
}

func NewLedgerService(
	db *sql.DB,
	rm repomanager.RepositoryManager,
	publisher events.Publisher,
	logger logging.Logger,
) *LedgerService {
	return &LedgerService{
		db:        db,
		rm:        rm,
		publisher: publisher,
		logger:    logger,
	}
}

// Purchase deducts an item's price from the account's Cash bucket and
// appends an approved Purchases audit entry. The catalog has unlimited
// stock, so nothing is decremented there.
func (s *LedgerService) Purchase(ctx context.Context, loginID, itemName, customInput string) (*models.AuditEntry, error) {

	item, err := s.rm.Catalog(s.db).GetItem(ctx, itemName)
	if err != nil {
		return nil, err
	}

	customInput = strings.TrimSpace(customInput)
	if item.RequiresCustomInput && customInput == "" {
		return nil, fmt.Errorf("%w: %q requires a custom input", common.ErrInvalidRequest, item.Name)
	}

	account, err := s.rm.Accounts(s.db).GetByLogin(ctx, loginID)
	if err != nil {
		return nil, err
	}

	newCash := account.Cash.Sub(item.Price)
	if newCash.IsNegative() {
		return nil, common.NewInsufficientFundsError(account.Cash, item.Price)
	}

	account.Cash = newCash
	entry := &models.AuditEntry{
		ID:       uuid.NewString(),
		Category: models.CategoryPurchases,
		Content:  models.PurchaseContent(account.FullName(), item.Name, item.Price, customInput),
		Time:     time.Now(),
		Approved: true,
	}

	err = s.rm.InTransaction(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Accounts(tx).UpdateBuckets(ctx, account); err != nil {
			return err
		}
		return s.rm.Audit(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return entry, nil
}

// RequestTransfer records an intent to move value between two of the
// student's own buckets. It validates the request but never touches
// balances; the movement happens in ApplyApprovedTransfer once an
// administrator signs off.
func (s *LedgerService) RequestTransfer(ctx context.Context, loginID, source, destination string, amount decimal.Decimal) (*models.AuditEntry, error) {

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", common.ErrInvalidRequest)
	}
	src, ok := models.ParseBucket(source)
	if !ok {
		return nil, fmt.Errorf("%w: unknown source bucket %q", common.ErrInvalidRequest, source)
	}
	dst, ok := models.ParseBucket(destination)
	if !ok {
		return nil, fmt.Errorf("%w: unknown destination bucket %q", common.ErrInvalidRequest, destination)
	}
	if src == dst {
		return nil, fmt.Errorf("%w: source and destination cannot be the same", common.ErrInvalidRequest)
	}

	account, err := s.rm.Accounts(s.db).GetByLogin(ctx, loginID)
	if err != nil {
		return nil, err
	}

	entry := &models.AuditEntry{
		ID:       uuid.NewString(),
		Category: models.CategoryTransferRequests,
		Content:  models.TransferRequestContent(account.FullName(), amount, src, dst),
		Time:     time.Now(),
		Approved: false,
	}
	if err := s.rm.Audit(s.db).Append(ctx, entry); err != nil {
		return nil, err
	}

	s.publish(ctx, entry)
	return entry, nil
}

// ApplyApprovedTransfer executes a pending transfer request: it re-validates
// the parsed request, moves the amount between buckets under the same
// non-negative-balance rule as Purchase, and marks the entry approved in the
// same transaction. Approved therefore always means applied.
func (s *LedgerService) ApplyApprovedTransfer(ctx context.Context, requestID string) error {

	entry, err := s.rm.Audit(s.db).Get(ctx, requestID)
	if err != nil {
		return err
	}
	if entry.Category != models.CategoryTransferRequests {
		return fmt.Errorf("%w: entry %s is not a transfer request", common.ErrInvalidRequest, requestID)
	}
	if entry.Approved {
		return fmt.Errorf("%w: transfer %s is already applied", common.ErrInvalidRequest, requestID)
	}

	details, err := models.ParseTransferContent(entry.Content)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidRequest, err)
	}

	account, err := s.accountByContent(ctx, entry.Content)
	if err != nil {
		return err
	}

	sourceBalance := account.Balance(details.Source)
	if sourceBalance.LessThan(details.Amount) {
		return common.NewInsufficientFundsError(sourceBalance, details.Amount)
	}

	account.SetBalance(details.Source, sourceBalance.Sub(details.Amount))
	account.SetBalance(details.Destination, account.Balance(details.Destination).Add(details.Amount))

	err = s.rm.InTransaction(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Accounts(tx).UpdateBuckets(ctx, account); err != nil {
			return err
		}
		return s.rm.Audit(tx).SetApproved(ctx, requestID, true)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "transfer applied",
		"request_id", requestID,
		"login_id", account.LoginID,
		"amount", details.Amount.String(),
		"source", string(details.Source),
		"destination", string(details.Destination),
	)
	return nil
}

// RejectTransfer discards a pending transfer request without touching
// balances. Rejection is terminal; the entry is removed.
func (s *LedgerService) RejectTransfer(ctx context.Context, requestID string) error {

	audit := s.rm.Audit(s.db)

	entry, err := audit.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if entry.Category != models.CategoryTransferRequests {
		return fmt.Errorf("%w: entry %s is not a transfer request", common.ErrInvalidRequest, requestID)
	}
	if entry.Approved {
		return fmt.Errorf("%w: transfer %s is already applied", common.ErrInvalidRequest, requestID)
	}

	return audit.Delete(ctx, requestID)
}

// TransferRow is one transfer request as the student dashboard shows it.
// Details is nil when the stored content predates the current format and
// cannot be parsed.
type TransferRow struct {
	Entry   *models.AuditEntry
	Details *models.TransferDetails
}

// ListTransferRequests returns the account's transfer requests newest first.
func (s *LedgerService) ListTransferRequests(ctx context.Context, loginID string) ([]TransferRow, error) {

	account, err := s.rm.Accounts(s.db).GetByLogin(ctx, loginID)
	if err != nil {
		return nil, err
	}
	fullName := account.FullName()

	entries, err := s.rm.Audit(s.db).ListByCategory(ctx, models.CategoryTransferRequests)
	if err != nil {
		return nil, err
	}

	var rows []TransferRow
	for _, e := range entries {
		if !models.TransferRequesterIs(e.Content, fullName) {
			continue
		}
		row := TransferRow{Entry: e}
		if details, err := models.ParseTransferContent(e.Content); err == nil {
			row.Details = details
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// accountByContent resolves the account the audit content names as the
// requester. Transfer entries carry display names, not login ids, so this
// is a scan over the (small) account list.
func (s *LedgerService) accountByContent(ctx context.Context, content string) (*models.Account, error) {
	all, err := s.rm.Accounts(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if models.TransferRequesterIs(content, a.FullName()) {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (s *LedgerService) publish(ctx context.Context, entry *models.AuditEntry) {
	err := s.publisher.Publish(ctx, events.AuditEvent{
		ID:       entry.ID,
		Category: string(entry.Category),
		Content:  entry.Content,
		Time:     entry.Time,
		Approved: entry.Approved,
	})
	if err != nil {
		s.logger.Warn(ctx, "audit event publish failed", "entry_id", entry.ID, "error", err.Error())
	}
}
