package services

import (
	"testing"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

func TestAuthHeaders(t *testing.T) {
	session := models.Session{UserID: "u-1", Token: "tok"}

	tests := []struct {
		name       string
		mode       string
		session    models.Session
		wantUserID string
		wantAuth   string
	}{
		{name: "user-id mode", mode: shared.AuthHeaderUserID, session: session, wantUserID: "u-1"},
		{name: "bearer mode", mode: shared.AuthHeaderBearer, session: session, wantAuth: "Bearer tok"},
		{name: "both", mode: shared.AuthHeaderBoth, session: session, wantUserID: "u-1", wantAuth: "Bearer tok"},
		{name: "unknown mode falls back to user-id", mode: "cookie", session: session, wantUserID: "u-1"},
		{name: "bearer without token", mode: shared.AuthHeaderBearer, session: models.Session{UserID: "u-1"}},
		{name: "empty session", mode: shared.AuthHeaderBoth, session: models.Session{Token: "tok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AuthHeaders(tt.mode, tt.session)
			if got := h.Get(UserIDHeader); got != tt.wantUserID {
				t.Errorf("X-User-ID = %q, want %q", got, tt.wantUserID)
			}
			if got := h.Get("Authorization"); got != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", got, tt.wantAuth)
			}
		})
	}
}
