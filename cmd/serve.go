package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/server"
)

// Serve runs the development backend until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr
	}
	fixturePath := cmd.String("fixture")
	if fixturePath == "" {
		fixturePath = r.config.Server.Fixture
	}

	fixture := server.DemoFixture()
	if fixturePath != "" {
		f, err := server.LoadFixture(fixturePath)
		if err != nil {
			return err
		}
		fixture = f
	}

	backend, err := server.NewBackend(fixture, r.logger,
		server.WithTokenSecret(r.config.Server.TokenSecret, r.config.Server.TokenTTL()))
	if err != nil {
		return fmt.Errorf("failed to start backend: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("serving development backend",
		"addr", addr, "videos", len(fixture.Videos), "exercises", len(fixture.Exercises), "accounts", len(fixture.Accounts))
	if fixturePath == "" {
		r.logger.Info("demo account", "email", server.DemoEmail, "password", server.DemoPassword)
	}
	return server.Serve(ctx, addr, backend.Handler(), r.logger)
}
