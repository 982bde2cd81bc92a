package routes

import (
	"io/fs"
	"net/http"

	goals "github.com/gmgoals/goals"
	"github.com/gmgoals/goals/internal/app"
	"github.com/gmgoals/goals/internal/handler"
	"github.com/gmgoals/goals/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	web, err := fs.Sub(goals.WebFS, "web")
	if err != nil {
		panic(err)
	}
	return setupRoutes(app, web)
}

func setupRoutes(app *app.App, web fs.FS) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(web)
	health := handler.NewHealthHandler()
	auth := handler.NewAuthHandler(app.AuthService, app.Metrics)
	cfg := handler.NewConfigHandler(app.Cfg, app.GoalService)
	goal := handler.NewGoalHandler(app.GoalService)
	milestone := handler.NewMilestoneHandler(app.MilestoneService)
	checkIn := handler.NewCheckInHandler(app.CheckInService)
	email := handler.NewEmailHandler(app.DigestService, app.Metrics)
	backup := handler.NewBackupHandler(app.BackupService, app.Metrics)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Frontend bundle
	mux.HandleFunc("GET /{$}", home.Index)
	mux.HandleFunc("GET /static/", home.Static)
	mux.HandleFunc("GET /robots.txt", home.Robots)

	// Probes
	mux.HandleFunc("GET /health", health.Health)
	if app.Metrics != nil {
		mux.Handle("GET /metrics", app.Metrics.Handler())
	}

	// Auth (login is rate limited per IP)
	loginLimiter := middleware.RateLimitLogin(
		middleware.NewRateLimiter(app.Cfg.LoginRateLimit, app.Cfg.LoginRateWindow).WithTrustedProxy(app.Cfg.TrustProxy),
		app.Metrics,
	)
	mux.HandleFunc("POST /api/login", loginLimiter(auth.Login))
	mux.HandleFunc("POST /api/logout", auth.Logout)

	// ============================================================================
	// SCHEDULED JOBS (cron secret)
	// ============================================================================

	cron := middleware.RequireCronSecret(app.AuthService)
	mux.HandleFunc("POST /api/email/monthly-summary", cron(email.MonthlySummary))
	mux.HandleFunc("POST /api/backup", cron(backup.Backup))

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/auth/check", middleware.RequireAuth(auth.Check))
	mux.HandleFunc("GET /api/config", middleware.RequireAuth(cfg.Config))
	mux.HandleFunc("GET /api/years", middleware.RequireAuth(cfg.Years))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Get))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))

	// Milestones
	mux.HandleFunc("POST /api/goals/{id}/milestones", middleware.RequireAuth(milestone.Create))
	mux.HandleFunc("PATCH /api/milestones/{id}", middleware.RequireAuth(milestone.Update))
	mux.HandleFunc("DELETE /api/milestones/{id}", middleware.RequireAuth(milestone.Delete))

	// Check-ins
	mux.HandleFunc("POST /api/goals/{id}/checkins", middleware.RequireAuth(checkIn.Create))
	mux.HandleFunc("DELETE /api/checkins/{id}", middleware.RequireAuth(checkIn.Delete))

	// Email
	mux.HandleFunc("POST /api/email/test", middleware.RequireAuth(email.Test))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.SecurityHeaders(app.Cfg.IsProduction()),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService),
		middleware.Metrics(app.Metrics), // innermost: reads r.Pattern after the mux sets it
	)
}
