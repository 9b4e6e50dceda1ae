package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pelicoin/ledger-server/internal/common"
	"github.com/pelicoin/ledger-server/internal/server/auth"
	"github.com/pelicoin/ledger-server/internal/server/models"
	"github.com/pelicoin/ledger-server/internal/server/services"
)

// providerSecretHeader carries the shared secret the identity provider uses
// when minting sessions. Students never call /api/session directly; the SSO
// callback service does, after verifying the school login.
const providerSecretHeader = "X-Provider-Secret"

type accountResponse struct {
	LoginID  string            `json:"login_id"`
	Student  string            `json:"student"`
	FullName string            `json:"full_name"`
	Balances map[string]string `json:"balances"`
}

func toAccountResponse(a *models.Account) accountResponse {
	balances := make(map[string]string, len(models.Buckets))
	for _, b := range models.Buckets {
		balances[string(b)] = a.Balance(b).String()
	}
	return accountResponse{
		LoginID:  a.LoginID,
		Student:  a.Student,
		FullName: a.FullName(),
		Balances: balances,
	}
}

type meetingResponse struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Date         time.Time `json:"date"`
	Attendees    []string  `json:"attendees"`
	MaxAttendees int       `json:"max_attendees"`
	Full         bool      `json:"full"`
}

func toMeetingResponse(m *models.Meeting) meetingResponse {
	return meetingResponse{
		ID:           m.ID,
		Topic:        m.Topic,
		Date:         m.Date,
		Attendees:    m.Attendees,
		MaxAttendees: m.MaxAttendees,
		Full:         m.Full(),
	}
}

type auditEntryResponse struct {
	ID       string    `json:"id"`
	Category string    `json:"category"`
	Content  string    `json:"content"`
	Time     time.Time `json:"time"`
	Approved bool      `json:"approved"`
}

func toAuditEntryResponse(e *models.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:       e.ID,
		Category: string(e.Category),
		Content:  e.Content,
		Time:     e.Time,
		Approved: e.Approved,
	}
}

type shopItemResponse struct {
	Name                string `json:"name"`
	Price               string `json:"price"`
	RequiresCustomInput bool   `json:"requires_custom_input"`
	Description         string `json:"description,omitempty"`
}

func toShopItemResponse(i *models.ShopItem) shopItemResponse {
	return shopItemResponse{
		Name:                i.Name,
		Price:               i.Price.String(),
		RequiresCustomInput: i.RequiresCustomInput,
		Description:         i.Description,
	}
}

type transferResponse struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Time        time.Time `json:"time"`
	Applied     bool      `json:"applied"`
	Amount      string    `json:"amount,omitempty"`
	Source      string    `json:"source,omitempty"`
	Destination string    `json:"destination,omitempty"`
}

func toTransferResponse(row services.TransferRow) transferResponse {
	r := transferResponse{
		ID:      row.Entry.ID,
		Content: row.Entry.Content,
		Time:    row.Entry.Time,
		Applied: row.Entry.Approved,
	}
	if row.Details != nil {
		r.Amount = row.Details.Amount.String()
		r.Source = string(row.Details.Source)
		r.Destination = string(row.Details.Destination)
	}
	return r
}

func (s *HTTPServer) createSession(c *fiber.Ctx) error {
	if c.Get(providerSecretHeader) != string(s.jwtSecret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	type sessionRequest struct {
		LoginID string `json:"login_id"`
		Email   string `json:"email"`
	}

	var req sessionRequest
	if err := c.BodyParser(&req); err != nil || req.LoginID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	// Admins may not have a ledger account; everyone else must.
	if _, err := s.accounts.Get(c.UserContext(), req.LoginID); err != nil {
		if !errors.Is(err, common.ErrorNotFound) || !s.isAdmin(req.Email) {
			return s.fail(c, err)
		}
	}

	token, err := auth.GenerateToken(req.LoginID, req.Email, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return s.fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  time.Now().Add(s.tokenValidity),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"token": token})
}

func (s *HTTPServer) getOwnAccount(c *fiber.Ctx) error {
	account, err := s.accounts.Get(c.UserContext(), requestClaims(c).LoginID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toAccountResponse(account))
}

func (s *HTTPServer) listCatalog(c *fiber.Ctx) error {
	items, err := s.catalog.List(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]shopItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toShopItemResponse(i))
	}
	return c.JSON(out)
}

func (s *HTTPServer) purchase(c *fiber.Ctx) error {
	type purchaseRequest struct {
		Item        string `json:"item"`
		CustomInput string `json:"custom_input"`
	}

	var req purchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	entry, err := s.ledger.Purchase(c.UserContext(), requestClaims(c).LoginID, req.Item, req.CustomInput)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toAuditEntryResponse(entry))
}

func (s *HTTPServer) requestTransfer(c *fiber.Ctx) error {
	type transferRequest struct {
		Amount      string `json:"amount"`
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}

	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return s.fail(c, fmt.Errorf("%w: bad amount %q", common.ErrInvalidRequest, req.Amount))
	}

	entry, err := s.ledger.RequestTransfer(c.UserContext(), requestClaims(c).LoginID, req.Source, req.Destination, amount)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toAuditEntryResponse(entry))
}

func (s *HTTPServer) listTransfers(c *fiber.Ctx) error {
	rows, err := s.ledger.ListTransferRequests(c.UserContext(), requestClaims(c).LoginID)
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]transferResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTransferResponse(row))
	}
	return c.JSON(out)
}

func (s *HTTPServer) listMeetings(c *fiber.Ctx) error {
	list, err := s.meetings.List(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]meetingResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMeetingResponse(m))
	}
	return c.JSON(out)
}

// meetingKeyRequest identifies a meeting by its (topic, date) pair; the date
// is RFC 3339.
type meetingKeyRequest struct {
	Topic string `json:"topic"`
	Date  string `json:"date"`
}

func (r *meetingKeyRequest) parse() (string, time.Time, error) {
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: bad date %q", common.ErrInvalidRequest, r.Date)
	}
	return r.Topic, date, nil
}

func (s *HTTPServer) joinMeeting(c *fiber.Ctx) error {
	var req meetingKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	topic, date, err := req.parse()
	if err != nil {
		return s.fail(c, err)
	}

	account, err := s.accounts.Get(c.UserContext(), requestClaims(c).LoginID)
	if err != nil {
		return s.fail(c, err)
	}

	meeting, err := s.roster.Join(c.UserContext(), topic, date, account.FullName())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toMeetingResponse(meeting))
}

func (s *HTTPServer) leaveMeeting(c *fiber.Ctx) error {
	var req meetingKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	topic, date, err := req.parse()
	if err != nil {
		return s.fail(c, err)
	}

	account, err := s.accounts.Get(c.UserContext(), requestClaims(c).LoginID)
	if err != nil {
		return s.fail(c, err)
	}

	meeting, err := s.roster.Leave(c.UserContext(), topic, date, account.FullName(), false)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toMeetingResponse(meeting))
}

// admin handlers

func (s *HTTPServer) listAccounts(c *fiber.Ctx) error {
	list, err := s.accounts.List(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]accountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAccountResponse(a))
	}
	return c.JSON(out)
}

func (s *HTTPServer) getAccount(c *fiber.Ctx) error {
	account, err := s.accounts.Get(c.UserContext(), c.Params("login"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toAccountResponse(account))
}

func (s *HTTPServer) listAudit(c *fiber.Ctx) error {
	entries, err := s.accounts.AuditLog(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntryResponse(e))
	}
	return c.JSON(out)
}

func (s *HTTPServer) deleteAuditEntry(c *fiber.Ctx) error {
	if err := s.accounts.DeleteAuditEntry(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Entry deleted"})
}

func (s *HTTPServer) applyTransfer(c *fiber.Ctx) error {
	if err := s.ledger.ApplyApprovedTransfer(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer applied"})
}

func (s *HTTPServer) rejectTransfer(c *fiber.Ctx) error {
	if err := s.ledger.RejectTransfer(c.UserContext(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transfer rejected"})
}

func (s *HTTPServer) createMeeting(c *fiber.Ctx) error {
	var req meetingKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	topic, date, err := req.parse()
	if err != nil {
		return s.fail(c, err)
	}

	meeting, err := s.meetings.Create(c.UserContext(), topic, date)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toMeetingResponse(meeting))
}

func (s *HTTPServer) deleteMeeting(c *fiber.Ctx) error {
	var req meetingKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	topic, date, err := req.parse()
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.meetings.Delete(c.UserContext(), topic, date); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Meeting deleted"})
}

func (s *HTTPServer) removeAttendee(c *fiber.Ctx) error {
	type removeRequest struct {
		meetingKeyRequest
		Attendee string `json:"attendee"`
	}

	var req removeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	topic, date, err := req.parse()
	if err != nil {
		return s.fail(c, err)
	}

	meeting, err := s.roster.Leave(c.UserContext(), topic, date, req.Attendee, true)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toMeetingResponse(meeting))
}

func (s *HTTPServer) addItem(c *fiber.Ctx) error {
	type itemRequest struct {
		Name                string `json:"name"`
		Price               string `json:"price"`
		RequiresCustomInput bool   `json:"requires_custom_input"`
		Description         string `json:"description"`
	}

	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return s.fail(c, fmt.Errorf("%w: bad price %q", common.ErrInvalidRequest, req.Price))
	}

	item, err := s.catalog.AddItem(c.UserContext(), req.Name, price, req.RequiresCustomInput, req.Description)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(toShopItemResponse(item))
}

func (s *HTTPServer) removeItem(c *fiber.Ctx) error {
	type removeRequest struct {
		Name string `json:"name"`
	}

	var req removeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	if err := s.catalog.RemoveItem(c.UserContext(), req.Name); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed"})
}
