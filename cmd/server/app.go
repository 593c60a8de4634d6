package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mnemolabs/mnemo-api/internal/config"
	"github.com/mnemolabs/mnemo-api/internal/domain/sm2"
	"github.com/mnemolabs/mnemo-api/internal/platform/postgres"
	"github.com/mnemolabs/mnemo-api/internal/service/auth"
	"github.com/mnemolabs/mnemo-api/internal/service/study"
	"github.com/mnemolabs/mnemo-api/internal/stats"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore       store.UserStore
	deckStore       store.DeckStore
	cardStore       store.CardStore
	schedulingStore store.SchedulingStore
	eventStore      store.ReviewEventStore
	sessionStore    store.SessionStore
	goalStore       store.GoalStore

	// Services
	jwtService   auth.JWTService
	authService  auth.Service
	studyService study.Service
	aggregator   *stats.Aggregator
}

// newApplication wires stores and services over a database connection.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	app.userStore = postgres.NewUserStore(db, log)
	app.deckStore = postgres.NewDeckStore(db, log)
	app.cardStore = postgres.NewCardStore(db, log)
	app.schedulingStore = postgres.NewSchedulingStore(db, log)
	app.eventStore = postgres.NewReviewEventStore(db, log)
	app.sessionStore = postgres.NewSessionStore(db, log)
	app.goalStore = postgres.NewGoalStore(db, log)

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.authService = auth.NewService(app.userStore, auth.NewBcryptHasher(), app.jwtService, log)

	app.studyService = study.NewService(
		db,
		app.sessionStore,
		app.schedulingStore,
		app.eventStore,
		app.cardStore,
		app.deckStore,
		sm2.NewService(),
		log,
	)

	loc, err := cfg.Study.Location()
	if err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to load study time zone: %w", err)
	}
	app.aggregator = stats.NewAggregator(
		app.eventStore,
		app.schedulingStore,
		app.goalStore,
		log,
		stats.WithLocation(loc),
	)

	return app, nil
}

// migrate applies pending schema migrations.
func (app *application) migrate(ctx context.Context) error {
	start := time.Now()
	if err := postgres.RunMigrations(ctx, app.db); err != nil {
		return err
	}
	app.logger.Info("database migrations applied",
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	closeDatabase(app.db, app.logger)
}

// setupDatabase opens the connection pool and verifies connectivity.
func setupDatabase(cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

func closeDatabase(db *sql.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Error("failed to close database connection", slog.String("error", err.Error()))
	}
}
