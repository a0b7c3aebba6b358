package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/fitx/internal/models"
)

// Account is a login seeded into the backend.
type Account struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	UserID   string `json:"user_id,omitempty"`
}

// Fixture is the initial content of a [Backend].
type Fixture struct {
	Videos    []models.Video    `json:"videos"`
	Exercises []models.Exercise `json:"exercises"`
	Accounts  []Account         `json:"accounts"`
}

// LoadFixture reads a JSON fixture from path.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	for _, v := range f.Videos {
		if err := v.Validate(); err != nil {
			return Fixture{}, fmt.Errorf("fixture %s: %w", path, err)
		}
	}
	return f, nil
}

// Credentials of the account in [DemoFixture].
const (
	DemoEmail    = "demo@fithub.local"
	DemoPassword = "demo-password"
)

// DemoFixture is the built-in catalog used when no fixture file is configured.
func DemoFixture() Fixture {
	return Fixture{
		Videos: []models.Video{
			{ID: "v-yoga-flow", Title: "Yoga Flow", Description: "Gentle morning sequence", InstructorName: "Maya Patel", DurationMinutes: 20, Difficulty: models.DifficultyBeginner, Category: "yoga", VideoURL: "https://videos.fithub.local/v-yoga-flow"},
			{ID: "v-hiit-blast", Title: "HIIT Blast", Description: "Short intervals, big effort", InstructorName: "Jordan Lee", DurationMinutes: 15, Difficulty: models.DifficultyAdvanced, Category: "cardio"},
			{ID: "v-core-basics", Title: "Core Basics", Description: "Build a stable midsection", InstructorName: "Sam Rivera", DurationMinutes: 25, Difficulty: models.DifficultyBeginner, Category: "strength"},
			{ID: "v-power-yoga", Title: "Power Yoga", Description: "Strength through flow", InstructorName: "Maya Patel", DurationMinutes: 45, Difficulty: models.DifficultyIntermediate, Category: "yoga"},
			{ID: "v-dance-cardio", Title: "Dance Cardio", Description: "Move to the beat", InstructorName: "Ari Chen", DurationMinutes: 30, Difficulty: models.DifficultyIntermediate, Category: "cardio"},
			{ID: "v-full-body", Title: "Full Body Strength", Description: "Dumbbells head to toe", InstructorName: "Sam Rivera", DurationMinutes: 40, Difficulty: models.DifficultyAdvanced, Category: "strength"},
			{ID: "v-stretch", Title: "Evening Stretch", Description: "Wind down and recover", InstructorName: "Ari Chen", DurationMinutes: 10, Difficulty: models.DifficultyBeginner, Category: "flexibility"},
		},
		Exercises: []models.Exercise{
			{ID: "e-squat", Name: "Squat", MuscleGroups: []string{"quads", "glutes"}, Equipment: "none"},
			{ID: "e-pushup", Name: "Push-up", MuscleGroups: []string{"chest", "triceps"}, Equipment: "none"},
			{ID: "e-plank", Name: "Plank", MuscleGroups: []string{"core"}, Equipment: "none"},
			{ID: "e-row", Name: "Dumbbell Row", MuscleGroups: []string{"back", "biceps"}, Equipment: "dumbbells"},
			{ID: "e-lunge", Name: "Lunge", MuscleGroups: []string{"quads", "hamstrings"}, Equipment: "none"},
		},
		Accounts: []Account{
			{Email: DemoEmail, Password: DemoPassword, Username: "demo", FullName: "Demo User", UserID: "u-demo"},
		},
	}
}
