package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/services"
	"github.com/desertthunder/fitx/internal/shared"
)

// SessionSource reports the current session. [state.AuthState] implements it.
type SessionSource interface {
	Session() (models.Session, bool)
}

// VideoCache stores a fetched catalog. [repositories.VideoRepository] implements it.
type VideoCache interface {
	ReplaceAll(ctx context.Context, videos []models.Video) error
}

// Engine runs multi-step operations against the catalog with progress reporting.
type Engine struct {
	catalog services.Catalog
	auth    SessionSource
}

// NewEngine creates an Engine.
func NewEngine(catalog services.Catalog, auth SessionSource) *Engine {
	return &Engine{catalog: catalog, auth: auth}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func requireSession(auth SessionSource) (models.Session, error) {
	if auth == nil {
		return models.Session{}, shared.ErrAuthRequired
	}
	s, ok := auth.Session()
	if !ok {
		return models.Session{}, shared.ErrAuthRequired
	}
	return s, nil
}

// withTimeout bounds ctx by d. A non-positive d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// timeoutErr marks deadline failures with [shared.ErrTimeout].
func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, shared.ErrTimeout) {
		return fmt.Errorf("%w: %w", shared.ErrTimeout, err)
	}
	return err
}

// RefreshVideos fetches the whole catalog and replaces the cached copy with it.
func (e *Engine) RefreshVideos(ctx context.Context, progress chan<- ProgressUpdate, cache VideoCache) ([]models.Video, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}

	sendProgress(progress, fetchVideosUpdate(1, 2))
	videos, err := e.catalog.ListVideos(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch videos: %w", err)
	}

	sendProgress(progress, cacheVideosUpdate(2, 2, len(videos)))
	if err := cache.ReplaceAll(ctx, videos); err != nil {
		return nil, fmt.Errorf("failed to cache videos: %w", err)
	}
	return videos, nil
}
