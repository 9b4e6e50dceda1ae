package audit

import (
	"context"

	"github.com/pelicoin/ledger-server/internal/server/models"
)

// The audit log is append-only. Entries never change once written, with two
// exceptions: a TransferRequests entry is marked approved when the transfer
// is applied, and an admin may delete an entry outright (which is how a
// pending transfer is rejected).
type Repository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	Get(ctx context.Context, id string) (*models.AuditEntry, error)

	// List returns entries newest first.
	List(ctx context.Context) ([]*models.AuditEntry, error)
	ListByCategory(ctx context.Context, category models.AuditCategory) ([]*models.AuditEntry, error)

	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}
