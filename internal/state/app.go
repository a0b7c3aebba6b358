package state

import (
	"slices"
	"sync"

	"github.com/desertthunder/fitx/internal/models"
)

// App is the single owner of client state: the session, the water counter and
// the catalog currently on screen.
//
// The full catalog is kept as fetched; filtered views are always derived from it.
type App struct {
	Auth  *AuthState
	Water *WaterTracker

	mu       sync.RWMutex
	videos   []models.Video
	criteria models.FilterCriteria
	selected string
}

// NewApp groups auth and water under one state object.
func NewApp(auth *AuthState, water *WaterTracker) *App {
	return &App{Auth: auth, Water: water}
}

// SetVideos replaces the full catalog and clears a selection that no longer exists.
func (a *App) SetVideos(videos []models.Video) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.videos = slices.Clone(videos)
	if a.selected != "" && !slices.ContainsFunc(a.videos, func(v models.Video) bool { return v.ID == a.selected }) {
		a.selected = ""
	}
}

// Videos returns a copy of the full catalog.
func (a *App) Videos() []models.Video {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.videos)
}

// SetCriteria replaces the active filter.
func (a *App) SetCriteria(c models.FilterCriteria) {
	a.mu.Lock()
	a.criteria = c
	a.mu.Unlock()
}

// Criteria returns the active filter.
func (a *App) Criteria() models.FilterCriteria {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.criteria
}

// Select marks videoID as the current video. It returns false when the id is not in the catalog.
func (a *App) Select(videoID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !slices.ContainsFunc(a.videos, func(v models.Video) bool { return v.ID == videoID }) {
		return false
	}
	a.selected = videoID
	return true
}

// Selected returns the current video, if any.
func (a *App) Selected() (models.Video, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	i := slices.IndexFunc(a.videos, func(v models.Video) bool { return v.ID == a.selected })
	if a.selected == "" || i < 0 {
		return models.Video{}, false
	}
	return a.videos[i], true
}
