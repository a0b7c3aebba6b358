package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/services"
	"github.com/desertthunder/fitx/internal/shared"
)

// FavoriteState is the favorite status of one displayed video.
type FavoriteState int

const (
	FavoriteUnknown FavoriteState = iota
	FavoriteChecking
	Favorited
	NotFavorited
	FavoriteAuthRequired
)

func (s FavoriteState) String() string {
	switch s {
	case FavoriteChecking:
		return "checking"
	case Favorited:
		return "favorited"
	case NotFavorited:
		return "not_favorited"
	case FavoriteAuthRequired:
		return "auth_required"
	default:
		return "unknown"
	}
}

// Resolved reports whether the state is [Favorited] or [NotFavorited].
func (s FavoriteState) Resolved() bool {
	return s == Favorited || s == NotFavorited
}

// FavoriteFlow checks and toggles whether one video is a favorite of the current user.
//
// It is safe for concurrent use; overlapping calls fail with [shared.ErrBusy].
type FavoriteFlow struct {
	catalog services.Catalog
	auth    SessionSource
	videoID string
	timeout time.Duration

	mu    sync.Mutex
	state FavoriteState
	busy  bool
}

// NewFavoriteFlow creates a flow for videoID. Each backend call is bounded by timeout when positive.
func NewFavoriteFlow(catalog services.Catalog, auth SessionSource, videoID string, timeout time.Duration) *FavoriteFlow {
	return &FavoriteFlow{catalog: catalog, auth: auth, videoID: videoID, timeout: timeout}
}

func (f *FavoriteFlow) VideoID() string { return f.videoID }

func (f *FavoriteFlow) State() FavoriteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Check resolves the state from the backend.
//
// Without a session the video is reported as not favorited and nothing is sent. On failure the
// previous state is restored and the error returned.
func (f *FavoriteFlow) Check(ctx context.Context) (bool, error) {
	s, ok := f.auth.Session()

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return false, shared.ErrBusy
	}
	if !ok {
		f.state = NotFavorited
		f.mu.Unlock()
		return false, nil
	}
	prev := f.state
	f.state = FavoriteChecking
	f.busy = true
	f.mu.Unlock()

	fav, err := f.fetch(ctx, s)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.state = prev
		return false, err
	}
	f.state = stateFor(fav)
	return fav, nil
}

// Toggle flips the favorite status and returns the new one.
//
// Without a session the state becomes [FavoriteAuthRequired] and [shared.ErrAuthRequired] is
// returned with nothing sent. An unresolved state is checked first. The state changes only after
// the backend accepted the add or remove.
func (f *FavoriteFlow) Toggle(ctx context.Context) (bool, error) {
	s, ok := f.auth.Session()

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return false, shared.ErrBusy
	}
	if !ok {
		f.state = FavoriteAuthRequired
		f.mu.Unlock()
		return false, shared.ErrAuthRequired
	}
	current := f.state
	f.busy = true
	if !current.Resolved() {
		f.state = FavoriteChecking
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if !current.Resolved() {
		fav, err := f.fetch(ctx, s)
		f.mu.Lock()
		if err != nil {
			f.state = current
			f.mu.Unlock()
			return false, err
		}
		current = stateFor(fav)
		f.state = current
		f.mu.Unlock()
	}

	favorited := current == Favorited
	if err := f.write(ctx, s, favorited); err != nil {
		return favorited, err
	}

	f.mu.Lock()
	f.state = stateFor(!favorited)
	f.mu.Unlock()
	return !favorited, nil
}

// IsFavorited reports whether videoID is among the session user's favorites. Without a session
// it returns false and sends nothing.
func (f *FavoriteFlow) IsFavorited(ctx context.Context, videoID string) (bool, error) {
	s, ok := f.auth.Session()
	if !ok {
		return false, nil
	}
	return f.lookup(ctx, s, videoID)
}

func (f *FavoriteFlow) fetch(ctx context.Context, s models.Session) (bool, error) {
	return f.lookup(ctx, s, f.videoID)
}

func (f *FavoriteFlow) lookup(ctx context.Context, s models.Session, videoID string) (bool, error) {
	ctx, cancel := withTimeout(ctx, f.timeout)
	defer cancel()

	set, err := f.catalog.ListFavorites(ctx, s)
	if err != nil {
		return false, timeoutErr(err)
	}
	return set.Has(videoID), nil
}

// write removes the favorite when favorited, adds it otherwise.
func (f *FavoriteFlow) write(ctx context.Context, s models.Session, favorited bool) error {
	ctx, cancel := withTimeout(ctx, f.timeout)
	defer cancel()

	var err error
	if favorited {
		err = f.catalog.RemoveFavorite(ctx, s, f.videoID)
	} else {
		err = f.catalog.AddFavorite(ctx, s, f.videoID)
	}
	return timeoutErr(err)
}

func stateFor(favorited bool) FavoriteState {
	if favorited {
		return Favorited
	}
	return NotFavorited
}
