package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/fitx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgVideosFetched MsgKind = iota
	MsgFavoriteChecked
	MsgFavoriteToggled
	MsgBrowserOpened
)

type videosResult struct {
	videos []models.Video
	err    error
}

type favoriteResult struct {
	videoID   string
	favorited bool
	err       error
}

// videosFetchedMsg is the constructor for [MsgVideosFetched]
func videosFetchedMsg(videos []models.Video, err error) Msg {
	return Msg{kind: MsgVideosFetched, data: videosResult{videos, err}}
}

// favoriteCheckedMsg is the constructor for [MsgFavoriteChecked]
func favoriteCheckedMsg(videoID string, favorited bool, err error) Msg {
	return Msg{kind: MsgFavoriteChecked, data: favoriteResult{videoID, favorited, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(videoID string, favorited bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteResult{videoID, favorited, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
