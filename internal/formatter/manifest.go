package formatter

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/fitx/internal/shared"
)

// ExportResult is the outcome of exporting one workout.
type ExportResult struct {
	ID      string
	Name    string
	Success bool
	Files   []string
	Err     error
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	Total           int
	Successful      int
	Failed          int
	OutputDirectory string
	ManifestPath    string
	Results         []ExportResult
}

type manifestEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type manifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	OutputDirectory   string          `json:"output_directory"`
	TotalWorkouts     int             `json:"total_workouts"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Workouts          []manifestEntry `json:"workouts"`
}

// WriteBulkExportManifest writes a JSON summary of result to path, entries sorted by workout id.
func WriteBulkExportManifest(result *BulkExportResult, format, path string) error {
	m := manifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		OutputDirectory:   result.OutputDirectory,
		TotalWorkouts:     result.Total,
		SuccessfulExports: result.Successful,
		FailedExports:     result.Failed,
		Workouts:          make([]manifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := manifestEntry{ID: r.ID, Name: r.Name, Status: "success", Files: r.Files}
		if !r.Success {
			entry.Status = "failed"
			if r.Err != nil {
				entry.Error = r.Err.Error()
			}
		}
		m.Workouts = append(m.Workouts, entry)
	}
	slices.SortFunc(m.Workouts, func(a, b manifestEntry) int { return strings.Compare(a.ID, b.ID) })

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
