// package formatter renders videos and workouts as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// Export formats accepted by the writers.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat normalizes name to one of [Formats]. "md" and "text" are accepted aliases.
func ParseFormat(name string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(name)); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatText, "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, name, strings.Join(Formats, ", "))
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}
	return buf.Bytes(), nil
}

// VideosToCSV renders videos with columns ID, Title, Instructor, Category, Difficulty, Minutes.
func VideosToCSV(videos []models.Video) ([]byte, error) {
	rows := make([][]string, 0, len(videos))
	for _, v := range videos {
		rows = append(rows, []string{
			v.ID,
			v.Title,
			v.InstructorName,
			v.Category,
			v.Difficulty.String(),
			strconv.Itoa(v.DurationMinutes),
		})
	}
	return writeCSV([]string{"ID", "Title", "Instructor", "Category", "Difficulty", "Minutes"}, rows)
}

// VideosToMarkdown renders videos as a Markdown list under title.
//
// thumbnails maps video ids to image paths relative to the document; missing entries are skipped.
func VideosToMarkdown(title string, videos []models.Video, thumbnails map[string]string) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Videos**: %d\n\n", len(videos))
	if len(videos) == 0 {
		buf.WriteString("No videos found.\n")
		return buf.Bytes()
	}

	for i, v := range videos {
		fmt.Fprintf(&buf, "## %d. %s\n\n", i+1, v.Title)
		if img, ok := thumbnails[v.ID]; ok {
			fmt.Fprintf(&buf, "![%s](%s)\n\n", v.Title, img)
		}
		fmt.Fprintf(&buf, "- **Instructor**: %s\n", v.InstructorName)
		fmt.Fprintf(&buf, "- **Category**: %s\n", v.Category)
		fmt.Fprintf(&buf, "- **Difficulty**: %s\n", v.Difficulty)
		fmt.Fprintf(&buf, "- **Duration**: %s\n", shared.FormatMinutes(v.DurationMinutes))
		if v.Description != "" {
			fmt.Fprintf(&buf, "\n%s\n", v.Description)
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// VideosToText renders one line per video.
func VideosToText(videos []models.Video) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Videos: %d\n\n", len(videos))
	if len(videos) == 0 {
		buf.WriteString("No videos found.\n")
	}
	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. %s - %s (%s, %s, %s)\n",
			i+1, v.Title, v.InstructorName, v.Category, v.Difficulty, shared.FormatMinutes(v.DurationMinutes))
	}
	return buf.Bytes()
}

// RenderVideos renders videos in format. Markdown output has no thumbnails.
func RenderVideos(videos []models.Video, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return VideosToCSV(videos)
	case FormatMarkdown:
		return VideosToMarkdown("Videos", videos, nil), nil
	case FormatText:
		return VideosToText(videos), nil
	default:
		return shared.MarshalJSON(videos, true)
	}
}

// WorkoutToCSV renders the exercises of w with columns Order, Exercise, Sets, Reps, Rest.
func WorkoutToCSV(w models.Workout) ([]byte, error) {
	rows := make([][]string, 0, len(w.Exercises))
	for _, we := range w.Exercises {
		rows = append(rows, []string{
			strconv.Itoa(we.OrderIndex),
			we.Name(),
			strconv.Itoa(we.Sets),
			strconv.Itoa(we.Reps),
			strconv.Itoa(we.RestSeconds),
		})
	}
	return writeCSV([]string{"Order", "Exercise", "Sets", "Reps", "Rest"}, rows)
}

// WorkoutToMarkdown renders w with a numbered exercise list.
func WorkoutToMarkdown(w models.Workout) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", w.Name)
	if w.Description != "" {
		fmt.Fprintf(&buf, "**Description**: %s\n\n", w.Description)
	}
	fmt.Fprintf(&buf, "**Difficulty**: %s\n", w.Difficulty)
	fmt.Fprintf(&buf, "**Duration**: %s\n", shared.FormatMinutes(w.DurationMinutes))
	fmt.Fprintf(&buf, "**Exercises**: %d\n\n", len(w.Exercises))

	buf.WriteString("## Exercises\n\n")
	if len(w.Exercises) == 0 {
		buf.WriteString("No exercises added yet.\n")
	}
	for i, we := range w.Exercises {
		fmt.Fprintf(&buf, "%d. %s: %d x %d, rest %ds\n", i+1, we.Name(), we.Sets, we.Reps, we.RestSeconds)
	}
	return buf.Bytes()
}

// WorkoutToText renders w as plain text.
func WorkoutToText(w models.Workout) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Workout: %s\n", w.Name)
	if w.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", w.Description)
	}
	fmt.Fprintf(&buf, "Difficulty: %s, %s\n", w.Difficulty, shared.FormatMinutes(w.DurationMinutes))
	fmt.Fprintf(&buf, "Exercises: %d\n\n", len(w.Exercises))

	for i, we := range w.Exercises {
		fmt.Fprintf(&buf, "%d. %s %dx%d (rest %ds)\n", i+1, we.Name(), we.Sets, we.Reps, we.RestSeconds)
	}
	return buf.Bytes()
}

// ToMetadataJSON renders w without its exercises.
func ToMetadataJSON(w models.Workout) ([]byte, error) {
	w.Exercises = nil
	return shared.MarshalJSON(w, true)
}

// DownloadImage fetches url with client and returns the raw bytes.
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL provided", shared.ErrInvalidArgument)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}

// CSVExportResult contains the paths of files created by [WriteCSVExport].
type CSVExportResult struct {
	ExercisesFile string
	MetadataFile  string
}

// WriteCSVExport writes {base}_exercises.csv and {base}_metadata.json. base defaults to the workout id.
func WriteCSVExport(w models.Workout, base string) (*CSVExportResult, error) {
	if base == "" {
		base = w.ID
	}

	csvData, err := WorkoutToCSV(w)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	exercisesFile := base + "_exercises.csv"
	if err := os.WriteFile(exercisesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadata, err := ToMetadataJSON(w)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := base + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadata, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{ExercisesFile: exercisesFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains the files created by a Markdown export.
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport writes {dir}/README.md for w. dir defaults to the workout id.
func WriteMarkdownExport(w models.Workout, dir string) (*MarkdownExportResult, error) {
	if dir == "" {
		dir = w.ID
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, WorkoutToMarkdown(w), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return &MarkdownExportResult{Directory: dir, Files: []string{mdFile}}, nil
}

// WriteVideoMarkdownExport writes {dir}/README.md for videos.
//
// With a non-nil client each thumbnail is saved as {dir}/thumbnails/{id}.jpg and linked from the
// document. Failed downloads are reported through warn and left out.
func WriteVideoMarkdownExport(ctx context.Context, client *http.Client, videos []models.Video, dir string, warn func(id string, err error)) (*MarkdownExportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: dir, Files: []string{}}
	thumbnails := map[string]string{}

	if client != nil {
		thumbDir := filepath.Join(dir, "thumbnails")
		for _, v := range videos {
			if v.ThumbnailURL == "" {
				continue
			}
			data, err := DownloadImage(ctx, client, v.ThumbnailURL)
			if err == nil {
				err = os.MkdirAll(thumbDir, 0755)
			}
			name := v.ID + ".jpg"
			if err == nil {
				err = os.WriteFile(filepath.Join(thumbDir, name), data, 0644)
			}
			if err != nil {
				if warn != nil {
					warn(v.ID, err)
				}
				continue
			}
			thumbnails[v.ID] = "thumbnails/" + name
			result.Files = append(result.Files, filepath.Join(thumbDir, name))
		}
	}

	mdFile := filepath.Join(dir, "README.md")
	if err := os.WriteFile(mdFile, VideosToMarkdown("Videos", videos, thumbnails), 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteTextExport writes w as plain text. path defaults to {id}_workout.txt.
func WriteTextExport(w models.Workout, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_workout.txt", w.ID)
	}
	if err := os.WriteFile(path, WorkoutToText(w), 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteJSONExport writes v as indented JSON to path.
func WriteJSONExport(v any, path string) (string, error) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}
