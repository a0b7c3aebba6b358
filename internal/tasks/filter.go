package tasks

import "github.com/desertthunder/fitx/internal/models"

// Apply returns the videos matching c, in their original order.
//
// Zero criteria return videos unchanged. Otherwise the result is a new, non-nil slice that is empty
// when nothing matches.
func Apply(videos []models.Video, c models.FilterCriteria) []models.Video {
	if c.IsZero() {
		if videos == nil {
			return []models.Video{}
		}
		return videos
	}

	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if c.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}
