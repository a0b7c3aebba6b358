package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/fitx/internal/formatter"
	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/shared"
)

// BulkExportOpts contains configuration for bulk workout exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: workouts_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max 10)
	RateLimit  float64 // Requests per second (default: 5)
}

type workoutExportJob struct {
	workout models.Workout
}

// BulkExport exports workouts concurrently with rate limiting and progress tracking.
//
// An empty ids exports every workout of the session user. Details are fetched one at a time under
// the rate limit; formatting runs on a worker pool. Failed workouts are recorded in the result and
// the manifest, not returned as an error.
func (e *Engine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, ids []string, opts BulkExportOpts) (*formatter.BulkExportResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog client not initialized", shared.ErrServiceUnavailable)
	}
	s, err := requireSession(e.auth)
	if err != nil {
		return nil, err
	}

	format, err := formatter.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = format

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("workouts_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if len(ids) == 0 {
		sendProgress(prog, fetchWorkoutsUpdate(1, 1))
		workouts, err := e.catalog.ListWorkouts(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("failed to list workouts: %w", err)
		}
		for _, w := range workouts {
			ids = append(ids, w.ID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &formatter.BulkExportResult{
		Total:           len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.ExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan workoutExportJob, len(ids))
	results := make(chan formatter.ExportResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	// The producer is counted in wg so results is only closed once it stops sending.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			w, err := e.catalog.GetWorkout(ctx, s, id)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				results <- formatter.ExportResult{
					ID:   id,
					Name: fmt.Sprintf("Unknown (%s)", id),
					Err:  fmt.Errorf("failed to fetch workout: %w", err),
				}
				continue
			}

			select {
			case jobs <- workoutExportJob{workout: w}:
			case <-ctx.Done():
				return
			}
			sendProgress(prog, exportingWorkoutUpdate(i+1, len(ids), w))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.Name, len(res.Files)))
		} else {
			result.Failed++
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.Name, res.Err))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted after %d of %d workouts: %w", completed, len(ids), err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan workoutExportJob, results chan<- formatter.ExportResult, opts BulkExportOpts) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- exportWorkout(job.workout, opts)
	}
}

// exportWorkout writes one workout in opts.Format under opts.OutputDir.
func exportWorkout(w models.Workout, opts BulkExportOpts) formatter.ExportResult {
	result := formatter.ExportResult{ID: w.ID, Name: w.Name, Files: []string{}}

	switch opts.Format {
	case formatter.FormatCSV:
		res, err := formatter.WriteCSVExport(w, filepath.Join(opts.OutputDir, w.ID))
		if err != nil {
			result.Err = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{res.ExercisesFile, res.MetadataFile}

	case formatter.FormatMarkdown:
		res, err := formatter.WriteMarkdownExport(w, filepath.Join(opts.OutputDir, w.ID))
		if err != nil {
			result.Err = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = res.Files

	case formatter.FormatText:
		path, err := formatter.WriteTextExport(w, filepath.Join(opts.OutputDir, w.ID+"_workout.txt"))
		if err != nil {
			result.Err = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(w, filepath.Join(opts.OutputDir, w.ID+".json"))
		if err != nil {
			result.Err = err
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}
