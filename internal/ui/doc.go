// Package ui implements an interactive video browser using bubbletea's Elm architecture.
//
// Views:
//  1. [VideoListView] : the filtered catalog, with category/difficulty cycling and search
//  2. [VideoDetailView] : one video with its favorite status
//  3. [SearchView] : free-text search input
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Network calls run as commands; favorite changes go through one [tasks.FavoriteFlow] per video, so a
// second toggle while one is in flight is rejected instead of queued.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
