package formatter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
	th "github.com/desertthunder/fitx/internal/testing"
)

func sampleVideos() []models.Video {
	return []models.Video{
		{ID: "v1", Title: "Yoga Flow", Description: "Gentle, slow", InstructorName: "Maya", DurationMinutes: 20, Difficulty: models.DifficultyBeginner, Category: "yoga"},
		{ID: "v2", Title: "HIIT Blast", InstructorName: "Jordan", DurationMinutes: 75, Difficulty: models.DifficultyAdvanced, Category: "cardio"},
	}
}

func sampleWorkout() models.Workout {
	return models.Workout{
		ID:              "w1",
		Name:            "Leg Day",
		Description:     "Quads and glutes",
		Difficulty:      models.DifficultyIntermediate,
		DurationMinutes: 45,
		Exercises: []models.WorkoutExercise{
			{ID: "we1", ExerciseID: "e-squat", Sets: 4, Reps: 8, RestSeconds: 90, OrderIndex: 0, Exercise: &models.Exercise{ID: "e-squat", Name: "Squat"}},
			{ID: "we2", ExerciseID: "e-lunge", Sets: 3, Reps: 12, RestSeconds: 60, OrderIndex: 1},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "csv", want: FormatCSV},
		{in: "md", want: FormatMarkdown},
		{in: "markdown", want: FormatMarkdown},
		{in: "text", want: FormatText},
		{in: "txt", want: FormatText},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidArgument", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestVideoExporters(t *testing.T) {
	t.Run("CSV", func(t *testing.T) {
		data, err := VideosToCSV(sampleVideos())
		if err != nil {
			t.Fatalf("VideosToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Instructor,Category,Difficulty,Minutes\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "v1,Yoga Flow,Maya,yoga,beginner,20") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		output := string(VideosToMarkdown("Favorites", sampleVideos(), map[string]string{"v1": "thumbnails/v1.jpg"}))
		for _, want := range []string{
			"# Favorites",
			"**Videos**: 2",
			"## 1. Yoga Flow",
			"![Yoga Flow](thumbnails/v1.jpg)",
			"- **Duration**: 1h 15m",
			"Gentle, slow",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}
		if strings.Contains(output, "![HIIT Blast]") {
			t.Error("video without thumbnail should have no image")
		}
	})

	t.Run("Markdown empty", func(t *testing.T) {
		output := string(VideosToMarkdown("Videos", nil, nil))
		if !strings.Contains(output, "No videos found.") {
			t.Errorf("expected empty state, got %s", output)
		}
	})

	t.Run("Text", func(t *testing.T) {
		output := string(VideosToText(sampleVideos()))
		if !strings.Contains(output, "1. Yoga Flow - Maya (yoga, beginner, 20 min)") {
			t.Errorf("unexpected text output: %s", output)
		}
		if !strings.Contains(string(VideosToText(nil)), "No videos found.") {
			t.Error("expected empty state")
		}
	})

	t.Run("RenderVideos JSON", func(t *testing.T) {
		data, err := RenderVideos(sampleVideos(), FormatJSON)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"instructor_name": "Maya"`) {
			t.Errorf("JSON uses backend field names, got %s", data)
		}
	})
}

func TestWorkoutExporters(t *testing.T) {
	w := sampleWorkout()

	t.Run("CSV", func(t *testing.T) {
		data, err := WorkoutToCSV(w)
		if err != nil {
			t.Fatalf("WorkoutToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "Order,Exercise,Sets,Reps,Rest") {
			t.Errorf("CSV missing headers")
		}
		if !strings.Contains(output, "0,Squat,4,8,90") {
			t.Errorf("CSV missing joined exercise name, got %s", output)
		}
		if !strings.Contains(output, "1,e-lunge,3,12,60") {
			t.Errorf("CSV should fall back to exercise id, got %s", output)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		output := string(WorkoutToMarkdown(w))
		for _, want := range []string{"# Leg Day", "**Description**: Quads and glutes", "**Exercises**: 2", "1. Squat: 4 x 8, rest 90s"} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q", want)
			}
		}

		empty := string(WorkoutToMarkdown(models.Workout{Name: "Empty"}))
		if !strings.Contains(empty, "No exercises added yet.") {
			t.Error("expected empty state for workout without exercises")
		}
	})

	t.Run("Text", func(t *testing.T) {
		output := string(WorkoutToText(w))
		if !strings.Contains(output, "Workout: Leg Day") || !strings.Contains(output, "2. e-lunge 3x12 (rest 60s)") {
			t.Errorf("unexpected text output: %s", output)
		}
	})

	t.Run("Metadata excludes exercises", func(t *testing.T) {
		data, err := ToMetadataJSON(w)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(data), "exercises") {
			t.Errorf("metadata should not include exercises: %s", data)
		}
	})
}

func TestWriters(t *testing.T) {
	w := sampleWorkout()

	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		res, err := WriteCSVExport(w, filepath.Join(dir, "leg"))
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		th.AssertFileExists(t, res.ExercisesFile)
		th.AssertFileExists(t, res.MetadataFile)
		if !strings.HasSuffix(res.ExercisesFile, "leg_exercises.csv") {
			t.Errorf("exercises file = %s", res.ExercisesFile)
		}
	})

	t.Run("WriteCSVExport defaults to workout id", func(t *testing.T) {
		original := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, original)

		res, err := WriteCSVExport(w, "")
		if err != nil {
			t.Fatal(err)
		}
		if res.ExercisesFile != "w1_exercises.csv" {
			t.Errorf("exercises file = %s", res.ExercisesFile)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "leg-day")
		res, err := WriteMarkdownExport(w, dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		th.AssertDirExists(t, dir)
		if len(res.Files) != 1 {
			t.Fatalf("files = %v", res.Files)
		}
		if content := th.MustReadFile(t, res.Files[0]); !strings.Contains(content, "# Leg Day") {
			t.Errorf("README content = %s", content)
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "leg.txt")
		got, err := WriteTextExport(w, path)
		if err != nil || got != path {
			t.Fatalf("WriteTextExport = %q, %v", got, err)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("WriteTextExport into missing directory", func(t *testing.T) {
		if _, err := WriteTextExport(w, filepath.Join(t.TempDir(), "missing", "x.txt")); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "w.json")
		if _, err := WriteJSONExport(w, path); err != nil {
			t.Fatal(err)
		}
		if content := th.MustReadFile(t, path); !strings.Contains(content, `"name": "Leg Day"`) {
			t.Errorf("JSON content = %s", content)
		}
	})
}

func TestWriteVideoMarkdownExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("jpegdata"))
	}))
	defer srv.Close()

	videos := sampleVideos()
	videos[0].ThumbnailURL = srv.URL + "/v1.jpg"
	videos[1].ThumbnailURL = srv.URL + "/missing.jpg"

	t.Run("downloads thumbnails", func(t *testing.T) {
		dir := t.TempDir()
		var warned []string
		res, err := WriteVideoMarkdownExport(context.Background(), srv.Client(), videos, dir, func(id string, err error) {
			warned = append(warned, id)
		})
		if err != nil {
			t.Fatalf("WriteVideoMarkdownExport failed: %v", err)
		}

		th.AssertFileExists(t, filepath.Join(dir, "thumbnails", "v1.jpg"))
		if len(res.Files) != 2 {
			t.Errorf("files = %v, want thumbnail and README", res.Files)
		}
		if len(warned) != 1 || warned[0] != "v2" {
			t.Errorf("warned = %v, want [v2]", warned)
		}

		readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
		if !strings.Contains(readme, "![Yoga Flow](thumbnails/v1.jpg)") {
			t.Errorf("README missing thumbnail link: %s", readme)
		}
	})

	t.Run("nil client skips thumbnails", func(t *testing.T) {
		dir := t.TempDir()
		res, err := WriteVideoMarkdownExport(context.Background(), nil, videos, dir, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Files) != 1 {
			t.Errorf("files = %v", res.Files)
		}
		if _, err := os.Stat(filepath.Join(dir, "thumbnails")); !os.IsNotExist(err) {
			t.Error("thumbnails directory should not exist")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("empty URL", func(t *testing.T) {
		if _, err := DownloadImage(context.Background(), http.DefaultClient, ""); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("read failure", func(t *testing.T) {
		client := &http.Client{Transport: th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       &th.FCloser{},
		}, nil)}
		if _, err := DownloadImage(context.Background(), client, "http://example.test/x.jpg"); err == nil {
			t.Error("expected read error")
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		client := &http.Client{Transport: th.NewMockRoundTripper(nil, errors.New("boom"))}
		if _, err := DownloadImage(context.Background(), client, "http://example.test/x.jpg"); err == nil {
			t.Error("expected transport error")
		}
	})
}

func TestWriteBulkExportManifest(t *testing.T) {
	t.Run("mixed results", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export_manifest.json")
		result := &BulkExportResult{
			Total:      2,
			Successful: 1,
			Failed:     1,
			Results: []ExportResult{
				{ID: "w2", Name: "Broken", Err: errors.New("authentication failed")},
				{ID: "w1", Name: "Leg Day", Success: true, Files: []string{"w1.json"}},
			},
		}

		if err := WriteBulkExportManifest(result, FormatCSV, path); err != nil {
			t.Fatalf("WriteBulkExportManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{
			`"format": "csv"`,
			`"total_workouts": 2`,
			`"successful_exports": 1`,
			`"failed_exports": 1`,
			`"status": "success"`,
			`"status": "failed"`,
			`"error": "authentication failed"`,
		} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s", want)
			}
		}
		if strings.Index(content, `"w1"`) > strings.Index(content, `"w2"`) {
			t.Error("manifest entries should be sorted by id")
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := WriteBulkExportManifest(&BulkExportResult{}, FormatJSON, filepath.Join(t.TempDir(), "no", "such", "m.json"))
		if err == nil {
			t.Error("expected error")
		}
	})
}
