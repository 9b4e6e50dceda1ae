// Package http is the fiber transport in front of the services. Handlers
// stay thin: decode, call one service method, map the error, encode.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pelicoin/ledger-server/internal/logging"
	"github.com/pelicoin/ledger-server/internal/server/auth"
	"github.com/pelicoin/ledger-server/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address       string
	ledger        *services.LedgerService
	roster        *services.RosterService
	meetings      *services.MeetingService
	catalog       *services.CatalogService
	accounts      *services.AccountService
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	isAdmin       auth.AdminPolicy
}

func NewHTTPServer(
	address string,
	l logging.Logger,
	ledger *services.LedgerService,
	roster *services.RosterService,
	meetings *services.MeetingService,
	catalog *services.CatalogService,
	accounts *services.AccountService,
	secretKey string,
	tokenValidity time.Duration,
	isAdmin auth.AdminPolicy,
) *HTTPServer {
	return &HTTPServer{
		address:       address,
		logger:        l.With("module", "http_server"),
		ledger:        ledger,
		roster:        roster,
		meetings:      meetings,
		catalog:       catalog,
		accounts:      accounts,
		jwtSecret:     []byte(secretKey),
		tokenValidity: tokenValidity,
		isAdmin:       isAdmin,
	}
}

// buildApp assembles the fiber application with all routes registered.
// Separated from Run so handler tests can drive it with app.Test.
func (s *HTTPServer) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	api := app.Group("/api")

	api.Post("/session", s.createSession)

	// everything below requires a session token
	api.Use(s.accessTokenMiddleware)

	api.Get("/account", s.getOwnAccount)
	api.Get("/catalog", s.listCatalog)
	api.Post("/purchase", s.purchase)
	api.Post("/transfers", s.requestTransfer)
	api.Get("/transfers", s.listTransfers)
	api.Get("/meetings", s.listMeetings)
	api.Post("/meetings/join", s.joinMeeting)
	api.Post("/meetings/leave", s.leaveMeeting)

	admin := api.Group("/admin", s.adminOnly)
	admin.Get("/accounts", s.listAccounts)
	admin.Get("/accounts/:login", s.getAccount)
	admin.Get("/audit", s.listAudit)
	admin.Delete("/audit/:id", s.deleteAuditEntry)
	admin.Post("/transfers/:id/apply", s.applyTransfer)
	admin.Delete("/transfers/:id", s.rejectTransfer)
	admin.Post("/meetings", s.createMeeting)
	admin.Delete("/meetings", s.deleteMeeting)
	admin.Post("/meetings/remove-attendee", s.removeAttendee)
	admin.Post("/catalog", s.addItem)
	admin.Delete("/catalog", s.removeItem)

	return app
}

func (s *HTTPServer) Run(ctx context.Context) error {

	app := s.buildApp()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return app.Listen(s.address)
}
