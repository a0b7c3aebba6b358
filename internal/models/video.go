package models

import "encoding/json"

// Video is a catalog entry. Values are treated as immutable once fetched.
type Video struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	InstructorName  string     `json:"instructor_name"`
	DurationMinutes int        `json:"duration_minutes"`
	Difficulty      Difficulty `json:"difficulty_level"`
	Category        string     `json:"category"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty"`
	VideoURL        string     `json:"video_url,omitempty"`
}

// Validate checks that the video has an id, a title and a positive duration.
func (v Video) Validate() error {
	switch {
	case v.ID == "":
		return validationError("video id is required")
	case v.Title == "":
		return validationError("video %s has no title", v.ID)
	case v.DurationMinutes <= 0:
		return validationError("video %s has non-positive duration %d", v.ID, v.DurationMinutes)
	}
	return nil
}

// Favorite relates a user to a video.
//
// The favorites listing joins each row with its video, so Video is populated when the backend provides it.
type Favorite struct {
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
	Video   Video  `json:"-"`
}

// UnmarshalJSON decodes both the relation fields and the joined video columns of a row.
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var rel struct {
		UserID  string `json:"user_id"`
		VideoID string `json:"video_id"`
	}
	if err := json.Unmarshal(data, &rel); err != nil {
		return err
	}

	var v Video
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if rel.VideoID != "" {
		v.ID = rel.VideoID
	}

	*f = Favorite{UserID: rel.UserID, VideoID: rel.VideoID, Video: v}
	return nil
}

// FavoriteSet holds the ids of a user's favorited videos.
type FavoriteSet map[string]struct{}

// NewFavoriteSet collects the video ids of favs.
func NewFavoriteSet(favs []Favorite) FavoriteSet {
	s := make(FavoriteSet, len(favs))
	for _, f := range favs {
		if f.VideoID != "" {
			s[f.VideoID] = struct{}{}
		}
	}
	return s
}

// Has reports whether videoID is in the set. A nil set has no members.
func (s FavoriteSet) Has(videoID string) bool {
	_, ok := s[videoID]
	return ok
}
