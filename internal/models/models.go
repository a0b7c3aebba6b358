package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is wrapped by every [Validator] failure.
var ErrValidation = errors.New("validation failed")

// Validator is implemented by entities that can check their own invariants.
type Validator interface {
	Validate() error // Validate reports the first violated invariant, wrapping [ErrValidation]
}

// Difficulty is the backend's difficulty_level enumeration.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists the known levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// ParseDifficulty parses s case-insensitively. An empty string parses to the unset value.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d == "" || d.Valid() {
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrValidation, s)
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

func (d Difficulty) String() string { return string(d) }

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
