// Package tasks holds the client-side flows that sit between the catalog client and the views.
//
// # Filtering
//
// [Apply] derives the visible subset of the catalog from a [models.FilterCriteria]. It is pure and
// order preserving; the full catalog is always kept by the caller and the subset recomputed.
//
// # Favorites
//
// A [FavoriteFlow] tracks the favorite state of one displayed video:
//
//	Unknown ──Check──▶ Checking ──▶ Favorited | NotFavorited
//	any ──Toggle without session──▶ AuthRequired
//
// Toggling never updates optimistically. The state flips only after the backend accepted the change.
// Calls made while another is in flight fail with [shared.ErrBusy].
//
// # Workouts
//
// [Planner] replaces the planner page's globals with an explicit object holding the workout list, the
// exercise catalog and the currently selected workout.
//
// # Batch operations
//
// [Engine] runs the longer operations with non-blocking progress reporting over a channel:
//   - [Engine.BulkExport] : rate-limited worker pool writing workouts through [formatter]
//   - [Engine.RefreshVideos] : fetch the catalog and store it in the local cache
package tasks
