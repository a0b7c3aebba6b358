package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/formatter"
	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/tasks"
)

// plannerContext bounds one planner command. Commands issue a few sequential calls, so the
// budget is a multiple of the per-request timeout.
func (r *Runner) plannerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 3*r.config.API.Timeout())
}

// WorkoutsList prints the session user's workouts.
func (r *Runner) WorkoutsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	if err := r.planner.Load(ctx); err != nil {
		return err
	}
	workouts := r.planner.Workouts()

	if cmd.Bool("json") {
		return r.writeJSON(workouts, true)
	}
	if len(workouts) == 0 {
		return r.writePlain("No workouts yet. Create one with: fitx workouts create --name <name>\n")
	}

	r.writePlainHeader(fmt.Sprintf("Workouts (%d)", len(workouts)))
	for _, w := range workouts {
		r.writePlain("%s  %s (%s, %s)\n", w.ID, w.Name, w.Difficulty, shared.FormatMinutes(w.DurationMinutes))
	}
	return nil
}

func (r *Runner) selectWorkout(ctx context.Context, id string) (models.Workout, error) {
	if id == "" {
		return models.Workout{}, fmt.Errorf("%w: workout id", shared.ErrMissingArgument)
	}
	return r.planner.Select(ctx, id)
}

// WorkoutsShow prints a workout with its exercises in order.
func (r *Runner) WorkoutsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	w, err := r.selectWorkout(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	return r.renderWorkout(w, format)
}

func (r *Runner) renderWorkout(w models.Workout, format string) error {
	switch format {
	case formatter.FormatCSV:
		data, err := formatter.WorkoutToCSV(w)
		if err != nil {
			return err
		}
		return r.writeBytes(data)
	case formatter.FormatMarkdown:
		return r.writeBytes(formatter.WorkoutToMarkdown(w))
	case formatter.FormatText:
		return r.writeBytes(formatter.WorkoutToText(w))
	default:
		return r.writeJSON(w, true)
	}
}

// workoutDraft reads the workout flags that were set.
func workoutDraft(cmd *cli.Command, w models.Workout) (models.Workout, error) {
	if cmd.IsSet("name") {
		w.Name = strings.TrimSpace(cmd.String("name"))
	}
	if cmd.IsSet("description") {
		w.Description = cmd.String("description")
	}
	if cmd.IsSet("difficulty") {
		d, err := models.ParseDifficulty(cmd.String("difficulty"))
		if err != nil {
			return w, fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
		}
		w.Difficulty = d
	}
	if cmd.IsSet("duration") {
		w.DurationMinutes = int(cmd.Int("duration"))
	}
	return w, nil
}

// WorkoutsCreate creates a workout with default difficulty and duration when omitted.
func (r *Runner) WorkoutsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	draft, err := workoutDraft(cmd, models.Workout{})
	if err != nil {
		return err
	}

	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	w, err := r.planner.Create(ctx, draft)
	if err != nil {
		return err
	}
	r.logger.Info("workout created", "id", w.ID)
	return r.writePlain("✓ Created workout %s (%s)\n", w.Name, w.ID)
}

// WorkoutsUpdate changes the fields given as flags and keeps the rest.
func (r *Runner) WorkoutsUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	current, err := r.selectWorkout(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}
	w, err := workoutDraft(cmd, current)
	if err != nil {
		return err
	}

	updated, err := r.planner.Update(ctx, w)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Updated workout %s (%s)\n", updated.Name, updated.ID)
}

// WorkoutsDelete deletes a workout.
func (r *Runner) WorkoutsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: workout id", shared.ErrMissingArgument)
	}

	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	if err := r.planner.Delete(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted workout %s\n", id)
}

// WorkoutsAddExercise appends an exercise to a workout.
func (r *Runner) WorkoutsAddExercise(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	if _, err := r.selectWorkout(ctx, cmd.StringArg("workout-id")); err != nil {
		return err
	}

	w, err := r.planner.AddExercise(ctx, models.WorkoutExercise{
		ExerciseID:  cmd.String("exercise"),
		Sets:        int(cmd.Int("sets")),
		Reps:        int(cmd.Int("reps")),
		RestSeconds: int(cmd.Int("rest")),
	})
	if err != nil {
		return err
	}
	r.writePlain("✓ Added %s to %s\n", cmd.String("exercise"), w.Name)
	return r.renderWorkout(w, formatter.FormatText)
}

// WorkoutsRemoveExercise removes an exercise placement from a workout.
func (r *Runner) WorkoutsRemoveExercise(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	placement := cmd.StringArg("workout-exercise-id")
	if placement == "" {
		return fmt.Errorf("%w: workout exercise id", shared.ErrMissingArgument)
	}

	ctx, cancel := r.plannerContext(ctx)
	defer cancel()

	if _, err := r.selectWorkout(ctx, cmd.StringArg("workout-id")); err != nil {
		return err
	}
	w, err := r.planner.RemoveExercise(ctx, placement)
	if err != nil {
		return err
	}
	r.writePlain("✓ Removed %s from %s\n", placement, w.Name)
	return r.renderWorkout(w, formatter.FormatText)
}

// WorkoutsExport exports workouts concurrently and writes a manifest.
func (r *Runner) WorkoutsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Info(u.Message, "phase", u.Phase, "step", u.Step, "total", u.Total)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, cmd.Args().Slice(), tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d/%d workouts to %s\n", result.Successful, result.Total, result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  ✗ %s (%s): %v\n", res.Name, res.ID, res.Err)
		}
	}
	return nil
}
