package models

// Default values applied by the planner when a field is left unset.
const (
	DefaultWorkoutDuration = 30
	DefaultSets            = 3
	DefaultReps            = 10
	DefaultRestSeconds     = 60
)

// Exercise is an entry of the exercise library.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	MuscleGroups []string `json:"muscle_groups,omitempty"`
	Equipment    string   `json:"equipment,omitempty"`
}

// Workout is a user's training plan.
type Workout struct {
	ID              string            `json:"id,omitempty"`
	UserID          string            `json:"user_id,omitempty"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Difficulty      Difficulty        `json:"difficulty_level"`
	DurationMinutes int               `json:"duration_minutes"`
	Exercises       []WorkoutExercise `json:"exercises,omitempty"`
}

// WithDefaults fills the difficulty and duration the backend would otherwise default.
func (w Workout) WithDefaults() Workout {
	if w.Difficulty == "" {
		w.Difficulty = DifficultyBeginner
	}
	if w.DurationMinutes <= 0 {
		w.DurationMinutes = DefaultWorkoutDuration
	}
	return w
}

func (w Workout) Validate() error {
	switch {
	case w.Name == "":
		return validationError("workout name is required")
	case w.Difficulty != "" && !w.Difficulty.Valid():
		return validationError("unknown difficulty %q", w.Difficulty)
	case w.DurationMinutes < 0:
		return validationError("negative duration %d", w.DurationMinutes)
	}
	return nil
}

// WorkoutExercise places an exercise in a workout. ID identifies the placement, not the exercise.
type WorkoutExercise struct {
	ID          string    `json:"id,omitempty"`
	WorkoutID   string    `json:"workout_id,omitempty"`
	ExerciseID  string    `json:"exercise_id"`
	Sets        int       `json:"sets"`
	Reps        int       `json:"reps"`
	RestSeconds int       `json:"rest_seconds"`
	OrderIndex  int       `json:"order_index"`
	Exercise    *Exercise `json:"exercise,omitempty"`
}

// WithDefaults fills unset sets, reps and rest.
func (we WorkoutExercise) WithDefaults() WorkoutExercise {
	if we.Sets <= 0 {
		we.Sets = DefaultSets
	}
	if we.Reps <= 0 {
		we.Reps = DefaultReps
	}
	if we.RestSeconds <= 0 {
		we.RestSeconds = DefaultRestSeconds
	}
	return we
}

func (we WorkoutExercise) Validate() error {
	if we.ExerciseID == "" {
		return validationError("exercise id is required")
	}
	if we.Sets < 0 || we.Reps < 0 || we.RestSeconds < 0 {
		return validationError("sets, reps and rest must not be negative")
	}
	return nil
}

// Name returns the nested exercise name, or the exercise id when the backend did not join it.
func (we WorkoutExercise) Name() string {
	if we.Exercise != nil && we.Exercise.Name != "" {
		return we.Exercise.Name
	}
	return we.ExerciseID
}
