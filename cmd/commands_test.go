package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/repositories"
	"github.com/desertthunder/fitx/internal/server"
	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/state"
	tu "github.com/desertthunder/fitx/internal/testing"
)

// harness runs the command tree against the development backend.
type harness struct {
	runner *Runner
	out    *bytes.Buffer
	srv    *httptest.Server
	app    *state.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.New(io.Discard)

	backend, err := server.NewBackend(server.DemoFixture(), logger, server.WithBcryptCost(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewBackend failed: %v", err)
	}
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	config := shared.DefaultConfig()
	config.API.BaseURL = srv.URL + "/api"
	config.API.RequestsPerSecond = 0

	store := repositories.NewLocalStore(db)
	app := state.NewApp(state.NewAuthState(store, config.API.AuthHeader), state.NewWaterTracker(store, config.Water.Goal))

	out := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		App:        app,
		Videos:     repositories.NewVideoRepository(db),
		HTTPClient: srv.Client(),
		Logger:     logger,
		Output:     out,
	})
	runner.readPassword = func() (string, error) { return server.DemoPassword, nil }

	return &harness{runner: runner, out: out, srv: srv, app: app}
}

func (h *harness) run(args ...string) error {
	h.out.Reset()
	root := &cli.Command{
		Name:      "fitx",
		Commands:  h.runner.register(),
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
	return root.Run(context.Background(), append([]string{"fitx"}, args...))
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	if err := h.run(args...); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return h.out.String()
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	h.mustRun(t, "auth", "login", "--email", server.DemoEmail, "--password", server.DemoPassword)
}

func TestVideosCommands(t *testing.T) {
	t.Run("lists the whole catalog", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "list")

		if !strings.Contains(out, "Videos: 7") || !strings.Contains(out, "Yoga Flow") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("filters by flags", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "list", "--category", "yoga", "--format", "json")

		var videos []models.Video
		if err := json.Unmarshal([]byte(out), &videos); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if len(videos) != 2 || videos[0].ID != "v-yoga-flow" || videos[1].ID != "v-power-yoga" {
			t.Errorf("unexpected videos %+v", videos)
		}
	})

	t.Run("filters by query string", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "list", "--query", "category=yoga&difficulty=beginner", "--format", "csv")

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 2 || !strings.HasPrefix(lines[1], "v-yoga-flow,") {
			t.Errorf("unexpected CSV:\n%s", out)
		}
	})

	t.Run("search flag overrides the query", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "list", "--query", "q=yoga", "--search", "stretch")

		if !strings.Contains(out, "Videos: 1") || !strings.Contains(out, "Evening Stretch") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("reports an empty result", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "list", "--search", "pilates")

		if !strings.Contains(out, "No videos found.") {
			t.Errorf("expected empty state, got:\n%s", out)
		}
		if len(h.app.Videos()) != 7 {
			t.Errorf("expected full catalog kept, got %d", len(h.app.Videos()))
		}
	})

	t.Run("rejects unknown difficulty", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("videos", "list", "--difficulty", "expert"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("featured shows six videos", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "featured")

		if !strings.Contains(out, "Videos: 6") || strings.Contains(out, "Evening Stretch") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("show without session", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "show", "v-hiit-blast")

		if !strings.Contains(out, "HIIT Blast") || !strings.Contains(out, "log in to use favorites") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("show reports a failed favorite check", func(t *testing.T) {
		app := newTestApp()
		if err := app.Auth.Login(context.Background(), models.Session{UserID: "u-1"}); err != nil {
			t.Fatal(err)
		}
		catalog := &tu.MockCatalog{
			Videos: []models.Video{{ID: "v1", Title: "Yoga Flow", Difficulty: models.DifficultyBeginner}},
			Errs:   map[string]error{"ListFavorites": shared.ErrServiceUnavailable},
		}
		out := &bytes.Buffer{}
		h := &harness{
			runner: NewRunner(RunnerOpts{Catalog: catalog, App: app, Logger: log.New(io.Discard), Output: out}),
			out:    out,
			app:    app,
		}

		got := h.mustRun(t, "videos", "show", "v1")
		if !strings.Contains(got, "Favorite: unknown (service unavailable") {
			t.Errorf("expected the check error in the output, got:\n%s", got)
		}
	})

	t.Run("show unknown video", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("videos", "show", "v-missing"); !errors.Is(err, shared.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("open uses the playback url", func(t *testing.T) {
		h := newHarness(t)
		var opened string
		h.runner.openURL = func(u string) error {
			opened = u
			return nil
		}

		h.mustRun(t, "videos", "open", "v-yoga-flow")
		if opened != "https://videos.fithub.local/v-yoga-flow" {
			t.Errorf("unexpected url %q", opened)
		}

		if err := h.run("videos", "open", "v-stretch"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("export writes the filtered catalog", func(t *testing.T) {
		h := newHarness(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "yoga.csv")

		h.mustRun(t, "videos", "export", "--category", "yoga", "--format", "csv", "--output", path)
		content := tu.MustReadFile(t, path)
		if strings.Count(content, "\n") != 3 || !strings.Contains(content, "Power Yoga") {
			t.Errorf("unexpected export:\n%s", content)
		}

		mdDir := filepath.Join(dir, "md")
		h.mustRun(t, "videos", "export", "--output", mdDir)
		if !strings.Contains(tu.MustReadFile(t, filepath.Join(mdDir, "README.md")), "**Videos**: 7") {
			t.Error("expected markdown export of the whole catalog")
		}
	})
}

func TestFavoriteCommands(t *testing.T) {
	t.Run("require a session", func(t *testing.T) {
		h := newHarness(t)

		if err := h.run("videos", "favorite", "v-yoga-flow"); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
		if err := h.run("videos", "favorites"); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("check without session reports not favorited", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "videos", "favorite", "--check", "v-yoga-flow")

		if !strings.Contains(out, "is not a favorite") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("toggle adds and removes", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if out := h.mustRun(t, "videos", "favorite", "v-yoga-flow"); !strings.Contains(out, "Added v-yoga-flow") {
			t.Errorf("unexpected output %q", out)
		}
		if out := h.mustRun(t, "videos", "favorite", "--check", "v-yoga-flow"); !strings.Contains(out, "is a favorite") {
			t.Errorf("unexpected output %q", out)
		}
		if out := h.mustRun(t, "videos", "favorites"); !strings.Contains(out, "Yoga Flow") || !strings.Contains(out, "Videos: 1") {
			t.Errorf("unexpected favorites:\n%s", out)
		}
		if out := h.mustRun(t, "videos", "show", "v-yoga-flow"); !strings.Contains(out, "Favorite: ★ yes") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if out := h.mustRun(t, "videos", "favorite", "v-yoga-flow"); !strings.Contains(out, "Removed v-yoga-flow") {
			t.Errorf("unexpected output %q", out)
		}
		if out := h.mustRun(t, "videos", "favorites"); !strings.Contains(out, "No videos found.") {
			t.Errorf("expected no favorites, got:\n%s", out)
		}
	})

	t.Run("unknown video is rejected by the backend", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		err := h.run("videos", "favorite", "v-missing")
		if shared.RemoteStatus(err) != 404 {
			t.Errorf("expected 404, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("status when logged out", func(t *testing.T) {
		h := newHarness(t)
		if out := h.mustRun(t, "auth", "status"); !strings.Contains(out, "Not logged in") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("login, status and logout", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun(t, "auth", "login", "--email", server.DemoEmail)
		if !strings.Contains(out, "Logged in as Demo User") {
			t.Errorf("unexpected output %q", out)
		}

		out = h.mustRun(t, "auth", "status", "--json")
		var status authStatus
		if err := json.Unmarshal([]byte(out), &status); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !status.LoggedIn || status.UserID != "u-demo" || !status.HasToken {
			t.Errorf("unexpected status %+v", status)
		}
		if status.ExpiresAt == nil || status.Expired {
			t.Errorf("expected an unexpired token, got %+v", status)
		}

		if out := h.mustRun(t, "auth", "status"); !strings.Contains(out, "valid until") {
			t.Errorf("unexpected output:\n%s", out)
		}

		h.mustRun(t, "auth", "logout")
		if h.app.Auth.IsLoggedIn() {
			t.Error("expected logged out")
		}
		if out := h.mustRun(t, "auth", "logout"); !strings.Contains(out, "Not logged in") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := newHarness(t)
		err := h.run("auth", "login", "--email", server.DemoEmail, "--password", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if h.app.Auth.IsLoggedIn() {
			t.Error("expected no session")
		}
	})

	t.Run("signup then login", func(t *testing.T) {
		h := newHarness(t)

		out := h.mustRun(t, "auth", "signup", "--email", "new@fithub.local", "--username", "newbie", "--password", "pw-123456")
		if !strings.Contains(out, "Account created") {
			t.Errorf("unexpected output %q", out)
		}
		if h.app.Auth.IsLoggedIn() {
			t.Error("signup must not log in")
		}

		if err := h.run("auth", "signup", "--email", "new@fithub.local", "--username", "other", "--password", "x"); shared.RemoteStatus(err) != 409 {
			t.Errorf("expected 409 for duplicate email, got %v", err)
		}

		h.mustRun(t, "auth", "login", "--email", "new@fithub.local", "--password", "pw-123456")
		if s, _ := h.app.Auth.Session(); s.Username != "newbie" {
			t.Errorf("unexpected session %+v", s)
		}
	})
}

func TestWorkoutCommands(t *testing.T) {
	t.Run("require a session", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("workouts", "list"); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
	})

	t.Run("plan a workout", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if out := h.mustRun(t, "workouts", "list"); !strings.Contains(out, "No workouts yet") {
			t.Errorf("unexpected output %q", out)
		}

		h.mustRun(t, "workouts", "create", "--name", "Leg Day")

		var workouts []models.Workout
		if err := json.Unmarshal([]byte(h.mustRun(t, "workouts", "list", "--json")), &workouts); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(workouts) != 1 {
			t.Fatalf("expected 1 workout, got %d", len(workouts))
		}
		w := workouts[0]
		if w.Difficulty != models.DifficultyBeginner || w.DurationMinutes != models.DefaultWorkoutDuration {
			t.Errorf("expected defaults, got %+v", w)
		}

		out := h.mustRun(t, "workouts", "add-exercise", "--exercise", "e-squat", w.ID)
		if !strings.Contains(out, "Squat") {
			t.Errorf("unexpected output:\n%s", out)
		}
		h.mustRun(t, "workouts", "add-exercise", "--exercise", "e-plank", "--sets", "4", w.ID)

		var shown models.Workout
		if err := json.Unmarshal([]byte(h.mustRun(t, "workouts", "show", "--format", "json", w.ID)), &shown); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(shown.Exercises) != 2 {
			t.Fatalf("expected 2 exercises, got %+v", shown.Exercises)
		}
		first, second := shown.Exercises[0], shown.Exercises[1]
		if first.ExerciseID != "e-squat" || first.Sets != 3 || first.Reps != 10 || first.RestSeconds != 60 || first.OrderIndex != 0 {
			t.Errorf("unexpected first exercise %+v", first)
		}
		if second.ExerciseID != "e-plank" || second.Sets != 4 || second.OrderIndex != 1 {
			t.Errorf("unexpected second exercise %+v", second)
		}

		h.mustRun(t, "workouts", "remove-exercise", w.ID, first.ID)
		if out := h.mustRun(t, "workouts", "show", "--format", "csv", w.ID); strings.Contains(out, "Squat") || !strings.Contains(out, "Plank") {
			t.Errorf("unexpected CSV:\n%s", out)
		}

		h.mustRun(t, "workouts", "update", "--name", "Core Day", "--difficulty", "advanced", w.ID)
		out = h.mustRun(t, "workouts", "show", "--format", "text", w.ID)
		if !strings.Contains(out, "Core Day") || !strings.Contains(out, "advanced") {
			t.Errorf("unexpected text:\n%s", out)
		}

		h.mustRun(t, "workouts", "delete", w.ID)
		if out := h.mustRun(t, "workouts", "list"); !strings.Contains(out, "No workouts yet") {
			t.Errorf("expected empty list, got %q", out)
		}
	})

	t.Run("create validates input", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("workouts", "create"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if err := h.run("workouts", "create", "--name", "x", "--difficulty", "expert"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("export writes files and a manifest", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)
		h.mustRun(t, "workouts", "create", "--name", "A")
		h.mustRun(t, "workouts", "create", "--name", "B")

		dir := t.TempDir()
		out := h.mustRun(t, "workouts", "export", "--format", "markdown", "--output", dir, "--rate", "100")
		if !strings.Contains(out, "Exported 2/2 workouts") {
			t.Errorf("unexpected output:\n%s", out)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
	})

	t.Run("exercises list", func(t *testing.T) {
		h := newHarness(t)
		out := h.mustRun(t, "exercises", "list")
		if !strings.Contains(out, "Exercises (5)") || !strings.Contains(out, "e-row  Dumbbell Row [back, biceps] - dumbbells") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})
}

func TestProfileCommands(t *testing.T) {
	t.Run("show requires a user", func(t *testing.T) {
		h := newHarness(t)
		if err := h.run("profile", "show"); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
		if out := h.mustRun(t, "profile", "show", "u-demo"); !strings.Contains(out, "Username: demo") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("update own profile", func(t *testing.T) {
		h := newHarness(t)
		h.login(t)

		if err := h.run("profile", "update"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}

		h.mustRun(t, "profile", "update", "--bio", "Morning runner", "--full-name", "Dee Mo")
		out := h.mustRun(t, "profile", "show")
		if !strings.Contains(out, "Bio: Morning runner") || !strings.Contains(out, "Dee Mo") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if s, _ := h.app.Auth.Session(); s.DisplayName != "Dee Mo" {
			t.Errorf("expected display name updated, got %q", s.DisplayName)
		}
	})
}

func TestWaterCommands(t *testing.T) {
	h := newHarness(t)

	if out := h.mustRun(t, "water", "show"); !strings.Contains(out, "0/8 glasses") {
		t.Errorf("unexpected output %q", out)
	}
	if out := h.mustRun(t, "water", "add", "-n", "3"); !strings.Contains(out, "3/8 glasses") || !strings.Contains(out, "38%") {
		t.Errorf("unexpected output %q", out)
	}
	if out := h.mustRun(t, "water", "add"); !strings.Contains(out, "4/8 glasses") {
		t.Errorf("unexpected output %q", out)
	}
	if out := h.mustRun(t, "water", "add", "--glasses=-10"); !strings.Contains(out, "0/8 glasses") {
		t.Errorf("expected clamp at zero, got %q", out)
	}
	h.mustRun(t, "water", "add", "-n", "12")
	if out := h.mustRun(t, "water", "show"); !strings.Contains(out, "100%") {
		t.Errorf("expected cap at 100%%, got %q", out)
	}
	if out := h.mustRun(t, "water", "reset"); !strings.Contains(out, "0/8 glasses") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCacheCommands(t *testing.T) {
	h := newHarness(t)

	if out := h.mustRun(t, "videos", "list", "--offline"); !strings.Contains(out, "No videos found.") {
		t.Errorf("expected empty cache, got:\n%s", out)
	}

	if out := h.mustRun(t, "cache", "videos"); !strings.Contains(out, "Cached 7 videos") {
		t.Errorf("unexpected output %q", out)
	}

	h.srv.Close()
	out := h.mustRun(t, "videos", "list", "--offline", "--difficulty", "advanced")
	if !strings.Contains(out, "Videos: 2") || !strings.Contains(out, "1. HIIT Blast") {
		t.Errorf("unexpected offline output:\n%s", out)
	}

	if err := h.run("videos", "list"); !errors.Is(err, shared.ErrTransport) {
		t.Errorf("expected ErrTransport with the backend down, got %v", err)
	}

	h.mustRun(t, "cache", "videos", "--clear")
	if out := h.mustRun(t, "videos", "list", "--offline"); !strings.Contains(out, "No videos found.") {
		t.Errorf("expected cleared cache, got:\n%s", out)
	}
}

func TestAPICommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "api", "get", "/videos/v-stretch")
	if !strings.Contains(out, `"title": "Evening Stretch"`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	if err := h.run("api", "get", "/favorites"); shared.RemoteStatus(err) != 401 {
		t.Errorf("expected 401 without identity, got %v", err)
	}

	h.login(t)
	if out := h.mustRun(t, "api", "get", "--auth", "/favorites"); strings.TrimSpace(out) != "[]" {
		t.Errorf("unexpected output %q", out)
	}

	curl := filepath.Join(t.TempDir(), "favorites.sh")
	if err := os.WriteFile(curl, []byte("curl 'http://localhost:5000/api/favorites' \\\n  -H 'X-User-ID: u-demo'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	h.mustRun(t, "api", "post", "--curl", curl, "--data", `{"video_id":"v-core-basics"}`, "/favorites")
	if out := h.mustRun(t, "api", "get", "--curl", curl, "/favorites"); !strings.Contains(out, "Core Basics") {
		t.Errorf("expected favorite listed with curl headers, got:\n%s", out)
	}

	if err := h.run("api", "post", "--data", "{nope", "/favorites"); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	h.mustRun(t, "api", "post", "--auth", "--data", `{"video_id":"v-stretch"}`, "/favorites")
	if out := h.mustRun(t, "videos", "favorite", "--check", "v-stretch"); !strings.Contains(out, "is a favorite") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSetupDatabase(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	t.Cleanup(func() { tu.MustChdir(t, wd) })

	h := newHarness(t)
	out := h.mustRun(t, "setup", "database", "--config", filepath.Join(dir, "config.toml"))

	if !strings.Contains(out, "Database ready") {
		t.Errorf("unexpected output %q", out)
	}
	tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
	tu.AssertFileExists(t, filepath.Join(dir, "fitx.db"))
}
