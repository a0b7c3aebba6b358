// Package models defines the entities exchanged with the FitHub backend and the
// client-side values derived from them.
//
// Catalog entities, decoded from backend JSON:
//   - [Video] : A catalog entry with category, [Difficulty] and instructor
//   - [Exercise] : A movement that can be added to a workout
//   - [Workout] / [WorkoutExercise] : A user's plan and its ordered exercises
//   - [Favorite] : A user/video association, usually joined with the video
//   - [Profile] : Public profile fields
//
// Client-side values:
//   - [Session] : The authenticated identity attached to requests
//   - [FilterCriteria] : Optional predicates narrowing a video list
//   - [FavoriteSet] : The set of video ids a user has favorited
//
// Types with invariants implement [Validator].
package models
