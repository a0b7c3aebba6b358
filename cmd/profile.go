package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// ProfileShow prints a profile, the session user's when no id is given.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	userID := cmd.StringArg("user-id")
	if userID == "" {
		s, err := r.app.Auth.Require()
		if err != nil {
			return err
		}
		userID = s.UserID
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	p, err := r.catalog.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, true)
	}
	r.writePlainHeader(p.DisplayName())
	r.writePlain("Username: %s\n", p.Username)
	if p.FullName != "" {
		r.writePlain("Name: %s\n", p.FullName)
	}
	if p.Bio != "" {
		r.writePlain("Bio: %s\n", p.Bio)
	}
	if p.AvatarURL != "" {
		r.writePlain("Avatar: %s\n", p.AvatarURL)
	}
	return nil
}

// ProfileUpdate edits the session user's own profile. Only flags that are set change.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireApp(); err != nil {
		return err
	}
	s, err := r.app.Auth.Require()
	if err != nil {
		return err
	}

	var u models.ProfileUpdate
	for name, field := range map[string]**string{
		"full-name":  &u.FullName,
		"bio":        &u.Bio,
		"avatar-url": &u.AvatarURL,
	} {
		if cmd.IsSet(name) {
			v := strings.TrimSpace(cmd.String(name))
			*field = &v
		}
	}
	if u.IsZero() {
		return fmt.Errorf("%w: set at least one of --full-name, --bio, --avatar-url", shared.ErrMissingArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*r.config.API.Timeout())
	defer cancel()

	current, err := r.catalog.GetProfile(ctx, s.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	updated, err := r.catalog.UpdateProfile(ctx, s, u.Apply(current))
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if name := updated.DisplayName(); name != "" && name != s.DisplayName {
		s.DisplayName = name
		if err := r.app.Auth.Login(ctx, s); err != nil {
			r.logger.Warn("failed to store display name", "error", err)
		}
	}
	return r.writePlain("✓ Profile updated\n")
}

// ExercisesList prints the exercise library.
func (r *Runner) ExercisesList(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(ctx, r.config.API.Timeout())
	defer cancel()

	exercises, err := r.catalog.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exercises: %w", err)
	}
	if cmd.Bool("json") {
		return r.writeJSON(exercises, true)
	}
	if len(exercises) == 0 {
		return r.writePlain("No exercises found.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Exercises (%d)", len(exercises)))
	for _, e := range exercises {
		line := fmt.Sprintf("%s  %s", e.ID, e.Name)
		if len(e.MuscleGroups) > 0 {
			line += " [" + strings.Join(e.MuscleGroups, ", ") + "]"
		}
		if e.Equipment != "" {
			line += " - " + e.Equipment
		}
		r.writePlain("%s\n", line)
	}
	return nil
}
