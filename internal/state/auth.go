package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/repositories"
	"github.com/desertthunder/fitx/internal/shared"
)

var sessionKeys = []string{
	repositories.KeyAccessToken,
	repositories.KeyUserID,
	repositories.KeyUsername,
	repositories.KeyDisplayName,
}

// AuthState holds the current session.
//
// The TUI reads it from command goroutines, so access is guarded; writes are still expected
// to come from one place at a time.
type AuthState struct {
	mu           sync.RWMutex
	store        Store
	requireToken bool
	session      models.Session
}

// NewAuthState creates an empty [AuthState] persisting into store.
//
// In [shared.AuthHeaderBearer] mode a session also needs a token to count as logged in.
func NewAuthState(store Store, headerMode string) *AuthState {
	return &AuthState{store: store, requireToken: headerMode == shared.AuthHeaderBearer}
}

// Init loads the persisted session fields. Missing keys leave the field empty.
func (a *AuthState) Init(ctx context.Context) error {
	values := make(map[string]string, len(sessionKeys))
	for _, k := range sessionKeys {
		v, _, err := a.store.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		values[k] = v
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = models.Session{
		UserID:      values[repositories.KeyUserID],
		Token:       values[repositories.KeyAccessToken],
		Username:    values[repositories.KeyUsername],
		DisplayName: values[repositories.KeyDisplayName],
	}
	return nil
}

// Login replaces the session and persists every field.
func (a *AuthState) Login(ctx context.Context, s models.Session) error {
	if !s.Valid() {
		return fmt.Errorf("%w: missing user id", shared.ErrInvalidSession)
	}

	fields := map[string]string{
		repositories.KeyAccessToken: s.Token,
		repositories.KeyUserID:      s.UserID,
		repositories.KeyUsername:    s.Username,
		repositories.KeyDisplayName: s.DisplayName,
	}
	for _, k := range sessionKeys {
		if fields[k] == "" {
			if err := a.store.Delete(ctx, k); err != nil {
				return fmt.Errorf("failed to persist session: %w", err)
			}
			continue
		}
		if err := a.store.Set(ctx, k, fields[k]); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
	return nil
}

// Logout clears the session in memory and in the store.
//
// The in-memory session is cleared even when the store fails.
func (a *AuthState) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.session = models.Session{}
	a.mu.Unlock()

	if err := a.store.Delete(ctx, sessionKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether a usable session is present.
func (a *AuthState) IsLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loggedIn()
}

func (a *AuthState) loggedIn() bool {
	if !a.session.Valid() {
		return false
	}
	return !a.requireToken || a.session.Token != ""
}

// UserID returns the current user id, or "" when logged out.
func (a *AuthState) UserID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.UserID
}

// Token returns the current access token, or "".
func (a *AuthState) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session.Token
}

// Session returns a copy of the current session and whether it is usable.
func (a *AuthState) Session() (models.Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session, a.loggedIn()
}

// Require returns the session or [shared.ErrAuthRequired].
func (a *AuthState) Require() (models.Session, error) {
	s, ok := a.Session()
	if !ok {
		return models.Session{}, shared.ErrAuthRequired
	}
	return s, nil
}
