package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/server"
	"github.com/desertthunder/fitx/internal/shared"
)

func newBackendClient(t *testing.T, mode string) *CatalogClient {
	t.Helper()
	b, err := server.NewBackend(server.DemoFixture(), log.New(io.Discard),
		server.WithBcryptCost(bcrypt.MinCost), server.WithTokenSecret("test", time.Hour))
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return NewCatalogClient(NewAPIService(srv.URL+"/api", srv.Client()), mode)
}

func TestCatalogClientVideos(t *testing.T) {
	ctx := context.Background()
	c := newBackendClient(t, shared.AuthHeaderUserID)

	t.Run("list", func(t *testing.T) {
		videos, err := c.ListVideos(ctx, 0)
		if err != nil {
			t.Fatalf("ListVideos() error = %v", err)
		}
		if len(videos) != len(server.DemoFixture().Videos) {
			t.Errorf("got %d videos", len(videos))
		}
		if videos[0].InstructorName == "" || videos[0].Difficulty == "" {
			t.Errorf("video fields not decoded: %+v", videos[0])
		}
	})

	t.Run("limit", func(t *testing.T) {
		videos, err := c.ListVideos(ctx, 3)
		if err != nil || len(videos) != 3 {
			t.Errorf("ListVideos(3) = %d videos, %v", len(videos), err)
		}
	})

	t.Run("get missing video", func(t *testing.T) {
		_, err := c.GetVideo(ctx, "missing")
		if !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("error = %v, want ErrVideoNotFound", err)
		}
		if shared.RemoteStatus(err) != http.StatusNotFound {
			t.Errorf("status = %d, want 404", shared.RemoteStatus(err))
		}
	})

	t.Run("exercises", func(t *testing.T) {
		exercises, err := c.ListExercises(ctx)
		if err != nil || len(exercises) == 0 {
			t.Errorf("ListExercises() = %d, %v", len(exercises), err)
		}
	})
}

func TestCatalogClientAuth(t *testing.T) {
	ctx := context.Background()

	for _, mode := range []string{shared.AuthHeaderUserID, shared.AuthHeaderBearer, shared.AuthHeaderBoth} {
		t.Run(mode, func(t *testing.T) {
			c := newBackendClient(t, mode)

			s, err := c.Login(ctx, models.Credentials{Email: "demo@fithub.local", Password: "demo-password"})
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if s.UserID != "u-demo" || s.Token == "" || s.Username != "demo" || s.DisplayName != "Demo User" {
				t.Errorf("session = %+v", s)
			}

			if err := c.AddFavorite(ctx, s, "v-yoga-flow"); err != nil {
				t.Fatalf("AddFavorite() error = %v", err)
			}
			set, err := c.ListFavorites(ctx, s)
			if err != nil {
				t.Fatalf("ListFavorites() error = %v", err)
			}
			if !set.Has("v-yoga-flow") {
				t.Error("expected v-yoga-flow favorited")
			}
		})
	}

	c := newBackendClient(t, shared.AuthHeaderUserID)

	t.Run("bad credentials", func(t *testing.T) {
		_, err := c.Login(ctx, models.Credentials{Email: "demo@fithub.local", Password: "wrong"})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("error = %v, want ErrAuthFailed", err)
		}
		var re *shared.RemoteError
		if !errors.As(err, &re) || re.Message != "Invalid credentials" {
			t.Errorf("remote error = %+v", re)
		}
	})

	t.Run("incomplete credentials never reach the server", func(t *testing.T) {
		_, err := c.Login(ctx, models.Credentials{Email: "demo@fithub.local"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("signup", func(t *testing.T) {
		id, err := c.Signup(ctx, models.SignupRequest{Email: "a@b.c", Password: "secret12", Username: "ab"})
		if err != nil || id == "" {
			t.Fatalf("Signup() = %q, %v", id, err)
		}
		_, err = c.Signup(ctx, models.SignupRequest{Email: "a@b.c", Password: "secret12", Username: "ab"})
		if shared.RemoteStatus(err) != http.StatusConflict {
			t.Errorf("duplicate signup error = %v", err)
		}
	})
}

func TestCatalogClientRequiresSession(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewCatalogClient(NewAPIService(srv.URL, srv.Client()), shared.AuthHeaderUserID)
	ctx := context.Background()
	empty := models.Session{}

	calls := map[string]func() error{
		"ListFavorites":  func() error { _, err := c.ListFavorites(ctx, empty); return err },
		"AddFavorite":    func() error { return c.AddFavorite(ctx, empty, "v") },
		"RemoveFavorite": func() error { return c.RemoveFavorite(ctx, empty, "v") },
		"ListWorkouts":   func() error { _, err := c.ListWorkouts(ctx, empty); return err },
		"CreateWorkout":  func() error { _, err := c.CreateWorkout(ctx, empty, models.Workout{Name: "x"}); return err },
		"DeleteWorkout":  func() error { return c.DeleteWorkout(ctx, empty, "w") },
		"UpdateProfile":  func() error { _, err := c.UpdateProfile(ctx, empty, models.Profile{ID: "u"}); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, shared.ErrAuthRequired) {
				t.Errorf("error = %v, want ErrAuthRequired", err)
			}
		})
	}

	if n := hits.Load(); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestCatalogClientWorkouts(t *testing.T) {
	ctx := context.Background()
	c := newBackendClient(t, shared.AuthHeaderUserID)
	s := models.Session{UserID: "u-demo"}

	created, err := c.CreateWorkout(ctx, s, models.Workout{Name: "Morning", Difficulty: models.DifficultyBeginner})
	if err != nil {
		t.Fatalf("CreateWorkout() error = %v", err)
	}
	if created.ID == "" || created.DurationMinutes != models.DefaultWorkoutDuration {
		t.Errorf("created = %+v", created)
	}

	we, err := c.AddWorkoutExercise(ctx, s, created.ID, models.WorkoutExercise{ExerciseID: "e-squat"}.WithDefaults())
	if err != nil {
		t.Fatalf("AddWorkoutExercise() error = %v", err)
	}

	detail, err := c.GetWorkout(ctx, s, created.ID)
	if err != nil {
		t.Fatalf("GetWorkout() error = %v", err)
	}
	if len(detail.Exercises) != 1 || detail.Exercises[0].Name() != "Squat" {
		t.Errorf("exercises = %+v", detail.Exercises)
	}

	created.Name = "Evening"
	updated, err := c.UpdateWorkout(ctx, s, created)
	if err != nil || updated.Name != "Evening" {
		t.Errorf("UpdateWorkout() = %+v, %v", updated, err)
	}

	t.Run("other user is forbidden", func(t *testing.T) {
		err := c.DeleteWorkout(ctx, models.Session{UserID: "intruder"}, created.ID)
		if shared.RemoteStatus(err) != http.StatusForbidden {
			t.Errorf("error = %v, want 403", err)
		}
	})

	if err := c.RemoveWorkoutExercise(ctx, s, created.ID, we.ID); err != nil {
		t.Errorf("RemoveWorkoutExercise() error = %v", err)
	}
	if err := c.DeleteWorkout(ctx, s, created.ID); err != nil {
		t.Fatalf("DeleteWorkout() error = %v", err)
	}

	_, err = c.GetWorkout(ctx, s, created.ID)
	if !errors.Is(err, shared.ErrWorkoutNotFound) {
		t.Errorf("error = %v, want ErrWorkoutNotFound", err)
	}

	t.Run("update without id", func(t *testing.T) {
		_, err := c.UpdateWorkout(ctx, s, models.Workout{Name: "x"})
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("error = %v, want ErrMissingArgument", err)
		}
	})
}

func TestCatalogClientProfiles(t *testing.T) {
	ctx := context.Background()
	c := newBackendClient(t, shared.AuthHeaderUserID)

	p, err := c.GetProfile(ctx, "u-demo")
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}

	t.Run("own profile", func(t *testing.T) {
		p.Bio = "runner"
		got, err := c.UpdateProfile(ctx, models.Session{UserID: "u-demo"}, p)
		if err != nil || got.Bio != "runner" {
			t.Errorf("UpdateProfile() = %+v, %v", got, err)
		}
	})

	t.Run("another profile is rejected locally", func(t *testing.T) {
		_, err := c.UpdateProfile(ctx, models.Session{UserID: "someone"}, p)
		if !errors.Is(err, shared.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
		if shared.RemoteStatus(err) != 0 {
			t.Error("expected no request to be made")
		}
	})
}

func TestCatalogClientRemoteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer srv.Close()

	c := NewCatalogClient(NewAPIService(srv.URL, srv.Client()), shared.AuthHeaderUserID)
	_, err := c.ListVideos(context.Background(), 0)
	if !errors.Is(err, shared.ErrRemote) {
		t.Fatalf("error = %v, want ErrRemote", err)
	}
	if shared.RemoteStatus(err) != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", shared.RemoteStatus(err))
	}
}
