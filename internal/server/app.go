// Package server initializes and runs the ledger application server.
// It opens the database, runs migrations, wires repositories into services,
// handles graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pelicoin/ledger-server/internal/logging"
	"github.com/pelicoin/ledger-server/internal/server/auth"
	"github.com/pelicoin/ledger-server/internal/server/config"
	"github.com/pelicoin/ledger-server/internal/server/events"
	eventskafka "github.com/pelicoin/ledger-server/internal/server/events/kafka"
	hs "github.com/pelicoin/ledger-server/internal/server/http"
	"github.com/pelicoin/ledger-server/internal/server/repositories/repomanager"
	"github.com/pelicoin/ledger-server/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	ledger   *services.LedgerService
	roster   *services.RosterService
	meetings *services.MeetingService
	catalog  *services.CatalogService
	accounts *services.AccountService
	db       *sql.DB
	closers  []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	app.closers = append(app.closers, db.Close)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(c.KafkaBrokers) > 0 {
		kp := eventskafka.NewPublisher(c.KafkaBrokers, c.KafkaTopic)
		app.closers = append(app.closers, kp.Close)
		publisher = kp
	}

	app.ledger = services.NewLedgerService(db, rm, publisher, logger)
	app.roster = services.NewRosterService(db, rm, publisher, logger)
	app.meetings = services.NewMeetingService(db, rm)
	app.catalog = services.NewCatalogService(db, rm)
	app.accounts = services.NewAccountService(db, rm)

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := hs.NewHTTPServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.ledger,
		app.roster,
		app.meetings,
		app.catalog,
		app.accounts,
		app.config.SecretKey,
		app.config.TokenValidityDuration,
		auth.AllowlistPolicy(app.config.AdminEmails),
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	for _, closeFn := range app.closers {
		if err := closeFn(); err != nil {
			app.logger.Error(ctx, "Close error", "error", err)
		}
	}
}
