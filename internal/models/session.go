package models

// Session is the client-held proof of authentication.
type Session struct {
	UserID      string `json:"user_id"`
	Token       string `json:"access_token,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Valid reports whether the session identifies a user.
func (s Session) Valid() bool { return s.UserID != "" }

// Credentials are submitted to log in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return validationError("email and password are required")
	}
	return nil
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

func (r SignupRequest) Validate() error {
	if r.Email == "" || r.Password == "" || r.Username == "" {
		return validationError("email, password and username are required")
	}
	return nil
}
