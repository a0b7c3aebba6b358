package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/tasks"
)

// CacheVideos stores the catalog in the local database for `videos list --offline`.
func (r *Runner) CacheVideos(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	if r.videos == nil {
		return fmt.Errorf("%w: no local cache configured", shared.ErrServiceUnavailable)
	}

	if cmd.Bool("clear") {
		if err := r.videos.Clear(ctx); err != nil {
			return err
		}
		return r.writePlain("✓ Video cache cleared\n")
	}

	progress := make(chan tasks.ProgressUpdate, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Info(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	videos, err := r.engine.RefreshVideos(ctx, progress, r.videos)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.app.SetVideos(videos)
	return r.writePlain("✓ Cached %d videos\n", len(videos))
}
