package services

import (
	"net/http"

	"golang.org/x/oauth2"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// UserIDHeader carries the raw user id in the user-id deployment variant.
const UserIDHeader = "X-User-ID"

// AuthHeaders builds the identity headers for s under mode.
//
//   - [shared.AuthHeaderUserID] : X-User-ID
//   - [shared.AuthHeaderBearer] : Authorization: Bearer <token>
//   - [shared.AuthHeaderBoth] : both
//
// A session without a user id yields no identity headers. Unknown modes fall back to user-id.
func AuthHeaders(mode string, s models.Session) http.Header {
	h := http.Header{}
	if !s.Valid() {
		return h
	}

	sendUserID := mode != shared.AuthHeaderBearer
	sendBearer := mode == shared.AuthHeaderBearer || mode == shared.AuthHeaderBoth

	if sendUserID {
		h.Set(UserIDHeader, s.UserID)
	}
	if sendBearer && s.Token != "" {
		tok := &oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}
		tok.SetAuthHeader(&http.Request{Header: h})
	}
	return h
}
