package cmd

import (
	"context"
	"os"

	"github.com/gmgoals/goals/internal/app"
	"github.com/gmgoals/goals/internal/config"
	"github.com/gmgoals/goals/internal/logger"
)

// loadConfig reads the same environment as the server. Logs go to stderr so
// stdout stays clean for command output.
func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(logger.Options{
		Dev:    cfg.IsDevelopment(),
		AppEnv: cfg.AppEnv,
		Output: os.Stderr,
	})
	return cfg
}

func openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, loadConfig())
}
