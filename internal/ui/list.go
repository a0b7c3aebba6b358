package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video     models.Video
	favorited bool
}

func (i videoItem) FilterValue() string { return i.video.Title }

func (i videoItem) Title() string {
	if i.favorited {
		return "★ " + i.video.Title
	}
	return i.video.Title
}

func (i videoItem) Description() string {
	parts := []string{}
	for _, p := range []string{i.video.InstructorName, i.video.Category, i.video.Difficulty.String()} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, shared.FormatMinutes(i.video.DurationMinutes))
	return strings.Join(parts, " • ")
}

// criteriaLabel summarizes c for the list title.
func criteriaLabel(c models.FilterCriteria) string {
	if c.IsZero() {
		return "all"
	}
	parts := []string{}
	if c.Category != "" {
		parts = append(parts, "category="+c.Category)
	}
	if c.Difficulty != "" {
		parts = append(parts, "difficulty="+c.Difficulty.String())
	}
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", c.Search))
	}
	return strings.Join(parts, " ")
}
