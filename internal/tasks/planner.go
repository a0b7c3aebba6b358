package tasks

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/services"
	"github.com/desertthunder/fitx/internal/shared"
)

// Planner holds the workout list, the exercise catalog and the selected workout.
//
// Every operation requires a session. Planner is not safe for concurrent use.
type Planner struct {
	catalog services.Catalog
	auth    SessionSource

	workouts  []models.Workout
	exercises []models.Exercise
	current   *models.Workout
}

// NewPlanner creates an empty planner.
func NewPlanner(catalog services.Catalog, auth SessionSource) *Planner {
	return &Planner{catalog: catalog, auth: auth}
}

func (p *Planner) Workouts() []models.Workout { return slices.Clone(p.workouts) }

func (p *Planner) Exercises() []models.Exercise { return slices.Clone(p.exercises) }

// Current returns the selected workout with its exercises.
func (p *Planner) Current() (models.Workout, bool) {
	if p.current == nil {
		return models.Workout{}, false
	}
	w := *p.current
	w.Exercises = slices.Clone(w.Exercises)
	return w, true
}

// Load fetches the exercise catalog and the user's workouts.
func (p *Planner) Load(ctx context.Context) error {
	s, err := requireSession(p.auth)
	if err != nil {
		return err
	}

	exercises, err := p.catalog.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exercises: %w", err)
	}
	workouts, err := p.catalog.ListWorkouts(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to load workouts: %w", err)
	}

	p.exercises = exercises
	p.workouts = workouts
	return nil
}

// Create saves draft with default difficulty and duration, then selects it.
func (p *Planner) Create(ctx context.Context, draft models.Workout) (models.Workout, error) {
	s, err := requireSession(p.auth)
	if err != nil {
		return models.Workout{}, err
	}

	draft = draft.WithDefaults()
	if err := draft.Validate(); err != nil {
		return models.Workout{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	created, err := p.catalog.CreateWorkout(ctx, s, draft)
	if err != nil {
		return models.Workout{}, fmt.Errorf("failed to create workout: %w", err)
	}
	p.workouts = append(p.workouts, created)
	return p.Select(ctx, created.ID)
}

// Select fetches a workout's details and makes it current.
func (p *Planner) Select(ctx context.Context, workoutID string) (models.Workout, error) {
	s, err := requireSession(p.auth)
	if err != nil {
		return models.Workout{}, err
	}

	w, err := p.catalog.GetWorkout(ctx, s, workoutID)
	if err != nil {
		return models.Workout{}, err
	}
	slices.SortStableFunc(w.Exercises, func(a, b models.WorkoutExercise) int { return a.OrderIndex - b.OrderIndex })

	p.current = &w
	current, _ := p.Current()
	return current, nil
}

// Update saves w and replaces its list entry. The current workout keeps its exercises.
func (p *Planner) Update(ctx context.Context, w models.Workout) (models.Workout, error) {
	s, err := requireSession(p.auth)
	if err != nil {
		return models.Workout{}, err
	}
	if err := w.Validate(); err != nil {
		return models.Workout{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	updated, err := p.catalog.UpdateWorkout(ctx, s, w)
	if err != nil {
		return models.Workout{}, err
	}

	if i := p.index(updated.ID); i >= 0 {
		p.workouts[i] = updated
	}
	if p.current != nil && p.current.ID == updated.ID {
		exercises := p.current.Exercises
		p.current = &updated
		p.current.Exercises = exercises
	}
	return updated, nil
}

// Delete removes a workout and clears the selection when it was current.
func (p *Planner) Delete(ctx context.Context, workoutID string) error {
	s, err := requireSession(p.auth)
	if err != nil {
		return err
	}
	if err := p.catalog.DeleteWorkout(ctx, s, workoutID); err != nil {
		return err
	}

	p.workouts = slices.DeleteFunc(p.workouts, func(w models.Workout) bool { return w.ID == workoutID })
	if p.current != nil && p.current.ID == workoutID {
		p.current = nil
	}
	return nil
}

// AddExercise appends we to the current workout with default sets, reps and rest, then reselects it.
func (p *Planner) AddExercise(ctx context.Context, we models.WorkoutExercise) (models.Workout, error) {
	s, err := requireSession(p.auth)
	if err != nil {
		return models.Workout{}, err
	}
	if p.current == nil {
		return models.Workout{}, shared.ErrNoWorkoutSelected
	}

	we = we.WithDefaults()
	we.OrderIndex = len(p.current.Exercises)
	if err := we.Validate(); err != nil {
		return models.Workout{}, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
	}

	if _, err := p.catalog.AddWorkoutExercise(ctx, s, p.current.ID, we); err != nil {
		return models.Workout{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return p.Select(ctx, p.current.ID)
}

// RemoveExercise removes a placement from the current workout, then reselects it.
func (p *Planner) RemoveExercise(ctx context.Context, workoutExerciseID string) (models.Workout, error) {
	s, err := requireSession(p.auth)
	if err != nil {
		return models.Workout{}, err
	}
	if p.current == nil {
		return models.Workout{}, shared.ErrNoWorkoutSelected
	}

	if err := p.catalog.RemoveWorkoutExercise(ctx, s, p.current.ID, workoutExerciseID); err != nil {
		return models.Workout{}, fmt.Errorf("failed to remove exercise: %w", err)
	}
	return p.Select(ctx, p.current.ID)
}

func (p *Planner) index(id string) int {
	return slices.IndexFunc(p.workouts, func(w models.Workout) bool { return w.ID == id })
}
