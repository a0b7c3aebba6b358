package state

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/desertthunder/fitx/internal/repositories"
)

// DefaultWaterGoal is the number of glasses per day.
const DefaultWaterGoal = 8

// WaterTracker counts glasses of water toward a daily goal.
type WaterTracker struct {
	mu    sync.Mutex
	store Store
	goal  int
	count int
}

// NewWaterTracker creates a tracker. Non-positive goals fall back to [DefaultWaterGoal].
func NewWaterTracker(store Store, goal int) *WaterTracker {
	if goal <= 0 {
		goal = DefaultWaterGoal
	}
	return &WaterTracker{store: store, goal: goal}
}

// Load reads the persisted counter. A missing or corrupt value counts as zero.
func (w *WaterTracker) Load(ctx context.Context) error {
	v, ok, err := w.store.Get(ctx, repositories.KeyWaterIntake)
	if err != nil {
		return fmt.Errorf("failed to load water intake: %w", err)
	}

	n := 0
	if ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	w.mu.Lock()
	w.count = n
	w.mu.Unlock()
	return nil
}

// Add changes the counter by delta, clamping at zero, and persists it.
func (w *WaterTracker) Add(ctx context.Context, delta int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := max(w.count+delta, 0)
	if err := w.store.Set(ctx, repositories.KeyWaterIntake, strconv.Itoa(next)); err != nil {
		return w.count, fmt.Errorf("failed to save water intake: %w", err)
	}
	w.count = next
	return next, nil
}

// Reset sets the counter back to zero.
func (w *WaterTracker) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.store.Set(ctx, repositories.KeyWaterIntake, "0"); err != nil {
		return fmt.Errorf("failed to reset water intake: %w", err)
	}
	w.count = 0
	return nil
}

// Count returns the current number of glasses.
func (w *WaterTracker) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Goal returns the daily goal.
func (w *WaterTracker) Goal() int { return w.goal }

// Percentage is progress toward the goal, rounded and capped at 100.
func (w *WaterTracker) Percentage() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	pct := math.Round(float64(w.count) / float64(w.goal) * 100)
	return int(math.Min(pct, 100))
}
