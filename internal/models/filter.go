package models

import (
	"net/url"
	"strings"
)

// FilterCriteria narrows a video list. Empty fields are unset and match everything.
type FilterCriteria struct {
	Category   string
	Difficulty Difficulty
	Search     string
}

// IsZero reports whether no predicate is set.
func (c FilterCriteria) IsZero() bool {
	return c.Category == "" && c.Difficulty == "" && c.Search == ""
}

// Matches reports whether v satisfies every set predicate.
//
// Category and difficulty compare exactly. Search is a case-insensitive substring of the
// title, description or instructor name.
func (c FilterCriteria) Matches(v Video) bool {
	if c.Category != "" && v.Category != c.Category {
		return false
	}
	if c.Difficulty != "" && v.Difficulty != c.Difficulty {
		return false
	}
	if c.Search == "" {
		return true
	}

	term := strings.ToLower(c.Search)
	return strings.Contains(strings.ToLower(v.Title), term) ||
		strings.Contains(strings.ToLower(v.Description), term) ||
		strings.Contains(strings.ToLower(v.InstructorName), term)
}

// CriteriaFromQuery reads category, difficulty and search (or q) from URL query values,
// as a shared page link would carry them.
//
// Difficulty is normalized like [ParseDifficulty]; an unknown level is kept lowercased so
// callers that validate still reject it.
func CriteriaFromQuery(q url.Values) FilterCriteria {
	search := q.Get("search")
	if search == "" {
		search = q.Get("q")
	}

	raw := q.Get("difficulty")
	d, err := ParseDifficulty(raw)
	if err != nil {
		d = Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	}
	return FilterCriteria{
		Category:   q.Get("category"),
		Difficulty: d,
		Search:     search,
	}
}
