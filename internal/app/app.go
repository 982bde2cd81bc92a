package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/db"
	"github.com/gmgoals/goals/internal/metrics"
	"github.com/gmgoals/goals/internal/repository"
	"github.com/gmgoals/goals/internal/service"
	"github.com/gmgoals/goals/internal/storage"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Metrics          *metrics.Metrics
	AuthService      *service.AuthService
	GoalService      *service.GoalService
	MilestoneService *service.MilestoneService
	CheckInService   *service.CheckInService
	EmailService     *service.EmailService
	DigestService    *service.DigestService
	BackupService    *service.BackupService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := NewWithDB(ctx, cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDB wires services around an already migrated database.
func NewWithDB(ctx context.Context, cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	milestoneRepository := repository.NewMilestoneRepository(database)
	checkInRepository := repository.NewCheckInRepository(database)
	goalRepository := repository.NewGoalRepository(database, milestoneRepository, checkInRepository)

	// Storage (optional)
	backupStorage, err := storage.New(ctx, cfg)
	if err != nil && !errors.Is(err, storage.ErrNotConfigured) {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Email (optional)
	mailer, err := service.NewMailer(cfg, &http.Client{Timeout: 30 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Services
	authService, err := service.NewAuthService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}
	goalService := service.NewGoalService(goalRepository, cfg)
	emailService := service.NewEmailService(mailer, cfg.RecipientEmails)
	composer, err := service.NewDigestComposer(cfg.Persons(), cfg.AppURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load digest template: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	return &App{
		Cfg:              cfg,
		DB:               database,
		Metrics:          m,
		AuthService:      authService,
		GoalService:      goalService,
		MilestoneService: service.NewMilestoneService(milestoneRepository),
		CheckInService:   service.NewCheckInService(checkInRepository),
		EmailService:     emailService,
		DigestService:    service.NewDigestService(goalService, composer, emailService),
		BackupService:    service.NewBackupService(database, cfg.DBDriver, backupStorage, cfg.BackupKeep),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
