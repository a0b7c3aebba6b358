// Package state holds the client's process-wide state behind explicit entry points.
//
//   - [AuthState] : The current [models.Session], mirrored into a [Store]
//   - [WaterTracker] : The daily water-intake counter
//   - [App] : Groups the above with the in-memory catalog shared by the CLI and TUI
package state

import "context"

// Store is the persistent key/value storage the state is mirrored into.
// [repositories.LocalStore] implements it.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
