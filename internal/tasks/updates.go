package tasks

import (
	"fmt"

	"github.com/desertthunder/fitx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchVideos Phase = iota
	CacheVideos
	FetchWorkouts
	ExportWorkout
)

func (p Phase) String() string {
	switch p {
	case FetchVideos:
		return "fetch_videos"
	case CacheVideos:
		return "cache_videos"
	case FetchWorkouts:
		return "fetch_workouts"
	case ExportWorkout:
		return "export_workout"
	default:
		return ""
	}
}

func fetchVideosUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchVideos,
		Step:    step,
		Total:   total,
		Message: "Fetching videos...",
	}
}

func cacheVideosUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Caching %d videos...", count),
	}
}

func fetchWorkoutsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchWorkouts,
		Step:    step,
		Total:   total,
		Message: "Fetching workouts...",
	}
}

func exportingWorkoutUpdate(step, total int, w models.Workout) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportWorkout,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, w.Name),
		Data:    w,
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportWorkout,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportWorkout,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
