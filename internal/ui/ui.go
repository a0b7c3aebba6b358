package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/fitx/internal/models"
	"github.com/desertthunder/fitx/internal/services"
	"github.com/desertthunder/fitx/internal/shared"
	"github.com/desertthunder/fitx/internal/state"
	"github.com/desertthunder/fitx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	VideoListView ViewState = iota
	VideoDetailView
	SearchView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	catalog services.Catalog
	app     *state.App
	timeout time.Duration
	width   int
	height  int

	flows      map[string]*tasks.FavoriteFlow
	favorites  map[string]bool
	categories []string

	list   list.Model
	input  textinput.Model
	status string
	err    error
	help   help.Model
	keys   keyMap

	openURL func(string) error
}

// NewModel creates a new TUI model. Each backend call is bounded by timeout when positive.
func NewModel(ctx context.Context, catalog services.Catalog, app *state.App, timeout time.Duration) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Title = "Videos"

	in := textinput.New()
	in.Placeholder = "title or description"
	in.CharLimit = 64

	return &Model{
		ctx:       ctx,
		view:      VideoListView,
		catalog:   catalog,
		app:       app,
		timeout:   timeout,
		flows:     map[string]*tasks.FavoriteFlow{},
		favorites: map[string]bool{},
		list:      l,
		input:     in,
		help:      help.New(),
		keys:      newKeyMap(),
		openURL:   shared.OpenBrowser,
	}
}

// Init fetches the catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchVideos()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case tea.KeyMsg:
		switch m.view {
		case VideoListView:
			return m.handleListKeys(msg)
		case VideoDetailView:
			return m.handleDetailKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}
	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgVideosFetched:
		res := msg.data.(videosResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.app.SetVideos(res.videos)
		m.categories = categoriesOf(res.videos)
		m.status = fmt.Sprintf("Loaded %d videos", len(res.videos))
		return m, m.refreshList()
	case MsgFavoriteChecked:
		res := msg.data.(favoriteResult)
		if res.err != nil {
			m.status = favoriteStatus(res.err)
			return m, nil
		}
		m.favorites[res.videoID] = res.favorited
		return m, m.refreshList()
	case MsgFavoriteToggled:
		res := msg.data.(favoriteResult)
		if res.err != nil {
			m.status = favoriteStatus(res.err)
			return m, nil
		}
		m.favorites[res.videoID] = res.favorited
		if res.favorited {
			m.status = "Added to favorites"
		} else {
			m.status = "Removed from favorites"
		}
		return m, m.refreshList()
	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.status = fmt.Sprintf("could not open browser: %v", err)
		}
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}

	switch m.view {
	case VideoListView:
		return m.renderList()
	case VideoDetailView:
		return m.renderDetail()
	case SearchView:
		return m.renderSearch()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		m.err = nil
		m.status = "Refreshing..."
		return m, m.fetchVideos()
	case m.err != nil:
		return m, nil
	case key.Matches(msg, m.keys.enter):
		item, ok := m.list.SelectedItem().(videoItem)
		if !ok || !m.app.Select(item.video.ID) {
			return m, nil
		}
		m.view = VideoDetailView
		m.status = ""
		return m, m.checkFavorite(item.video.ID)
	case key.Matches(msg, m.keys.category):
		c := m.app.Criteria()
		c.Category = next(m.categories, c.Category)
		m.app.SetCriteria(c)
		return m, m.refreshList()
	case key.Matches(msg, m.keys.difficulty):
		c := m.app.Criteria()
		c.Difficulty = next(models.Difficulties, c.Difficulty)
		m.app.SetCriteria(c)
		return m, m.refreshList()
	case key.Matches(msg, m.keys.clear):
		m.app.SetCriteria(models.FilterCriteria{})
		return m, m.refreshList()
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.input.SetValue(m.app.Criteria().Search)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.list.SelectedItem().(videoItem); ok {
			return m, m.toggleFavorite(item.video.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if item, ok := m.list.SelectedItem().(videoItem); ok {
			return m, m.open(item.video)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v, ok := m.app.Selected()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back) || !ok:
		m.view = VideoListView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		return m, m.toggleFavorite(v.ID)
	case key.Matches(msg, m.keys.open):
		return m, m.open(v)
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.view = VideoListView
		return m, nil
	case tea.KeyEnter:
		c := m.app.Criteria()
		c.Search = strings.TrimSpace(m.input.Value())
		m.app.SetCriteria(c)
		m.input.Blur()
		m.view = VideoListView
		return m, m.refreshList()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// visible is the catalog narrowed by the active criteria.
func (m *Model) visible() []models.Video {
	return tasks.Apply(m.app.Videos(), m.app.Criteria())
}

func (m *Model) refreshList() tea.Cmd {
	videos := m.visible()
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v, favorited: m.favorites[v.ID]}
	}
	m.list.Title = fmt.Sprintf("Videos (%s) %d/%d", criteriaLabel(m.app.Criteria()), len(videos), len(m.app.Videos()))
	return m.list.SetItems(items)
}

func (m *Model) flow(videoID string) *tasks.FavoriteFlow {
	f, ok := m.flows[videoID]
	if !ok {
		f = tasks.NewFavoriteFlow(m.catalog, m.app.Auth, videoID, m.timeout)
		m.flows[videoID] = f
	}
	return f
}

func (m *Model) fetchVideos() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()

		videos, err := m.catalog.ListVideos(ctx, 0)
		return videosFetchedMsg(videos, err)
	}
}

func (m *Model) checkFavorite(videoID string) tea.Cmd {
	f := m.flow(videoID)
	return func() tea.Msg {
		fav, err := f.Check(m.ctx)
		return favoriteCheckedMsg(videoID, fav, err)
	}
}

func (m *Model) toggleFavorite(videoID string) tea.Cmd {
	f := m.flow(videoID)
	m.status = "Updating favorite..."
	return func() tea.Msg {
		fav, err := f.Toggle(m.ctx)
		return favoriteToggledMsg(videoID, fav, err)
	}
}

func (m *Model) open(v models.Video) tea.Cmd {
	if v.VideoURL == "" {
		m.status = "This video has no playback URL"
		return nil
	}
	open := m.openURL
	return func() tea.Msg {
		return browserOpenedMsg(open(v.VideoURL))
	}
}

func (m *Model) callContext() (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(m.ctx)
	}
	return context.WithTimeout(m.ctx, m.timeout)
}

func (m *Model) favoriteLabel(videoID string) string {
	f, ok := m.flows[videoID]
	if !ok {
		return "unknown"
	}
	switch f.State() {
	case tasks.Favorited:
		return styles.ok.Render("★ favorited")
	case tasks.NotFavorited:
		return "☆ not favorited"
	case tasks.FavoriteChecking:
		return "checking..."
	case tasks.FavoriteAuthRequired:
		return styles.warn.Render("log in to use favorites")
	default:
		return "unknown"
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.category, m.keys.difficulty, m.keys.search, m.keys.clear, m.keys.favorite, m.keys.quit}
	out := m.list.View()
	if len(m.list.Items()) == 0 && len(m.app.Videos()) > 0 {
		out += "\n" + styles.warn.Render("No videos match the current filters. Press x to clear.")
	}
	return fmt.Sprintf("%s\n%s\n\n%s", out, m.renderStatus(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	v, ok := m.app.Selected()
	if !ok {
		return styles.warn.Render("Video no longer available. Press esc to go back.")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(v.Title))
	b.WriteString("\n")
	rows := [][2]string{
		{"Instructor", v.InstructorName},
		{"Category", v.Category},
		{"Difficulty", styles.Difficulty(v.Difficulty)},
		{"Duration", shared.FormatMinutes(v.DurationMinutes)},
		{"Favorite", m.favoriteLabel(v.ID)},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(r[0]+":"), r[1])
	}
	if v.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", v.Description)
	}

	helpKeys := []key.Binding{m.keys.favorite, m.keys.open, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s", b.String(), m.renderStatus(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search videos")
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), styles.help.Render("enter to apply • esc to cancel"))
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return styles.help.Render(m.status)
}

func favoriteStatus(err error) string {
	switch {
	case errors.Is(err, shared.ErrAuthRequired):
		return styles.warn.Render("Log in with `fitx auth login` to save favorites")
	case errors.Is(err, shared.ErrBusy):
		return styles.warn.Render("Favorite update already in progress")
	case errors.Is(err, shared.ErrTimeout):
		return styles.err.Render("Favorite request timed out")
	default:
		return styles.err.Render(fmt.Sprintf("Favorite update failed: %v", err))
	}
}

// categoriesOf returns the distinct categories in videos, sorted.
func categoriesOf(videos []models.Video) []string {
	var out []string
	for _, v := range videos {
		if v.Category != "" && !slices.Contains(out, v.Category) {
			out = append(out, v.Category)
		}
	}
	slices.Sort(out)
	return out
}

// next cycles through options with the zero value standing for "any". Unknown values restart the cycle.
func next[T comparable](options []T, current T) T {
	var zero T
	i := slices.Index(options, current)
	if i+1 >= len(options) {
		return zero
	}
	return options[i+1]
}
