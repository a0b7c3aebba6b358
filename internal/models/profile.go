package models

// Profile is a user's public profile.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ProfileUpdate is the writable subset of a profile. Nil fields keep the current value.
type ProfileUpdate struct {
	FullName  *string
	Bio       *string
	AvatarURL *string
}

// Apply returns p with the non-nil fields of u applied.
func (u ProfileUpdate) Apply(p Profile) Profile {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	return p
}

// IsZero reports whether u changes nothing.
func (u ProfileUpdate) IsZero() bool {
	return u.FullName == nil && u.Bio == nil && u.AvatarURL == nil
}

// DisplayName is the full name, falling back to the username.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}
