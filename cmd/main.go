package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/repositories"
	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/state"
)

func main() {
	os.Exit(run(context.Background(), os.Args))
}

func run(ctx context.Context, args []string) int {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := cmp.Or(os.Getenv("FITX_CONFIG"), "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		loaded, err := shared.LoadConfig(configPath)
		if err != nil {
			logger.Error("failed to load config", "path", configPath, "error", err)
			return 1
		}
		config = loaded
	}
	if err := shared.ApplyEnv(config, ".env"); err != nil {
		logger.Error("failed to apply environment", "error", err)
		return 1
	}
	if err := config.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Error("failed to open database", "path", config.Database.Path, "error", err)
		return 1
	}
	defer db.Close()

	store := repositories.NewLocalStore(db)
	auth := state.NewAuthState(store, config.API.AuthHeader)
	if err := auth.Init(ctx); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}
	water := state.NewWaterTracker(store, config.Water.Goal)
	if err := water.Load(ctx); err != nil {
		logger.Warn("failed to restore water intake", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		App:    state.NewApp(auth, water),
		Videos: repositories.NewVideoRepository(db),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "fitx",
		Usage:    "Browse FitHub videos, plan workouts and track water from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, args); err != nil {
		return exitCode(runner.logger, err)
	}
	return 0
}

// exitCode reports err and returns the process exit status.
func exitCode(logger *log.Logger, err error) int {
	switch {
	case errors.Is(err, shared.ErrAuthRequired):
		fmt.Fprintln(os.Stderr, "please log in (fitx auth login)")
	default:
		logger.Error("application error", "error", err)
	}
	return 1
}
