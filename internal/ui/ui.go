package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/comments"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/playlists"
	"github.com/desertthunder/vidx/internal/reactions"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	VideoListView ViewState = iota
	WatchView
	CommentsView
	PlaylistsView
)

// Deps are the collaborators the TUI drives.
type Deps struct {
	Client        *services.Client
	Reactions     *reactions.Engine
	Subscriptions *reactions.Subscriptions
	Tracker       *playlists.Tracker
	Logger        *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	client        *services.Client
	reactions     *reactions.Engine
	subscriptions *reactions.Subscriptions
	tracker       *playlists.Tracker
	logger        *log.Logger

	width     int
	height    int
	videoList list.Model
	video     *models.Video

	comments      *comments.Store
	commentCursor int
	composer      textinput.Model
	composing     bool
	replyTo       *models.ID

	playlists      []models.Playlist
	playlistCursor int

	loading bool
	spinner spinner.Model
	status  string
	err     error
	help    help.Model
	keys    keyMap
	now     func() time.Time
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	composer := textinput.New()
	composer.Placeholder = "Add a comment..."
	composer.CharLimit = comments.MaxContentLength

	videoList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	videoList.Title = "Latest Videos"

	return &Model{
		ctx:           ctx,
		view:          VideoListView,
		client:        deps.Client,
		reactions:     deps.Reactions,
		subscriptions: deps.Subscriptions,
		tracker:       deps.Tracker,
		logger:        shared.WithLogger(deps.Logger, "component", "ui"),
		videoList:     videoList,
		composer:      composer,
		spinner:       s,
		help:          help.New(),
		keys:          newKeyMap(),
		now:           time.Now,
	}
}

// Init initializes the TUI by fetching the home listing.
func (m *Model) Init() tea.Cmd {
	return m.load(m.fetchVideos())
}

func (m *Model) load(cmd tea.Cmd) tea.Cmd {
	m.loading = true
	return tea.Batch(cmd, m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.videoList.SetSize(msg.Width-4, msg.Height-8)
		m.composer.Width = max(msg.Width-8, 20)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case VideoListView:
			return m.handleVideoListKeys(msg)
		case WatchView:
			return m.handleWatchKeys(msg)
		case CommentsView:
			return m.handleCommentsKeys(msg)
		case PlaylistsView:
			return m.handlePlaylistsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == VideoListView {
		var cmd tea.Cmd
		m.videoList, cmd = m.videoList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	m.loading = false

	switch msg.kind {
	case MsgVideosFetched:
		data := msg.data.(videosFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		return m, m.videoList.SetItems(videoItems(data.videos))

	case MsgVideoFetched:
		data := msg.data.(videoFetched)
		if data.err != nil {
			m.status = describe(data.err)
			return m, nil
		}
		m.video = data.video
		return m, nil

	case MsgReactionSettled:
		data := msg.data.(reactionSettled)
		switch {
		case data.err == nil:
			m.status = ""
		case data.replaced:
			m.status = fmt.Sprintf("Could not save %s, restored current counts", data.ticket.Action)
			m.logger.Warn("reaction rolled back", "video", data.ticket.ID, "error", data.err)
		default:
			m.logger.Debug("stale reaction failure", "video", data.ticket.ID, "error", data.err)
		}
		return m, nil

	case MsgSubscriptionSettled:
		data := msg.data.(subscriptionSettled)
		if data.err != nil {
			m.status = describe(data.err)
		} else if data.subscribed {
			m.status = "Subscribed"
		} else {
			m.status = "Unsubscribed"
		}
		return m, nil

	case MsgCommentsFetched:
		if err, _ := msg.data.(error); err != nil {
			m.status = describe(err)
		}
		m.commentCursor = min(m.commentCursor, max(m.comments.Count()-1, 0))
		return m, nil

	case MsgCommentPosted:
		data := msg.data.(commentPosted)
		if data.err != nil {
			m.status = describe(data.err)
			return m, nil
		}
		m.closeComposer()
		if data.reply {
			m.status = "Reply posted"
		} else {
			m.commentCursor = 0
			m.status = "Comment posted"
		}
		return m, nil

	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.status = describe(data.err)
			return m, nil
		}
		m.playlists = data.playlists
		m.playlistCursor = min(m.playlistCursor, max(len(m.playlists)-1, 0))
		return m, nil

	case MsgMembershipToggled:
		data := msg.data.(membershipToggled)
		name := m.playlistName(data.playlistID)
		switch {
		case data.err != nil:
			m.status = describe(data.err)
		case data.member:
			m.status = fmt.Sprintf("Added to %s", name)
		default:
			m.status = fmt.Sprintf("Removed from %s", name)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.videoList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.videoList, cmd = m.videoList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.refresh):
		return m, m.load(m.fetchVideos())
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.videoList.SelectedItem().(videoItem); ok {
			video := item.video
			m.video = &video
			m.view = WatchView
			m.status = ""
			return m, m.load(m.fetchVideo(video.ID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) handleWatchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = VideoListView
		m.status = ""
		return m, nil
	case m.video == nil:
		return m, nil
	case key.Matches(msg, m.keys.like):
		return m.react(reactions.ToggleLike)
	case key.Matches(msg, m.keys.dislike):
		return m.react(reactions.ToggleDislike)
	case key.Matches(msg, m.keys.subscribe):
		return m.subscribe()
	case key.Matches(msg, m.keys.refresh):
		return m, m.load(m.fetchVideo(m.video.ID))
	case key.Matches(msg, m.keys.comments):
		if m.comments == nil || m.comments.VideoID() != m.video.ID {
			m.comments = comments.NewStore(m.video.ID, m.client, m.client.Session(), m.logger)
			m.commentCursor = 0
		}
		m.view = CommentsView
		m.status = ""
		return m, m.load(m.fetchComments())
	case key.Matches(msg, m.keys.playlists):
		if err := m.client.Session().Require(); err != nil {
			m.status = describe(err)
			return m, nil
		}
		m.view = PlaylistsView
		m.status = ""
		return m, m.load(m.fetchPlaylists(m.video.ID))
	}
	return m, nil
}

// react applies the toggle locally before the network call is made.
func (m *Model) react(action reactions.Action) (tea.Model, tea.Cmd) {
	t, _, err := m.reactions.Begin(m.video.ID, action)
	if err != nil {
		m.status = describe(err)
		return m, nil
	}
	m.status = ""
	return m, m.settleReaction(t)
}

func (m *Model) subscribe() (tea.Model, tea.Cmd) {
	channel := m.video.Uploader
	switch {
	case channel.ID == 0:
		m.status = "Channel unavailable"
		return m, nil
	case m.client.Session().Authenticated() && m.client.Session().User().ID == channel.ID:
		m.status = "This is your channel"
		return m, nil
	}
	t, err := m.subscriptions.Begin(channel.ID)
	if err != nil {
		m.status = describe(err)
		return m, nil
	}
	m.status = ""
	return m, m.settleSubscription(t)
}

func (m *Model) handleCommentsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.composing {
		switch msg.Type {
		case tea.KeyEsc:
			m.closeComposer()
			return m, nil
		case tea.KeyEnter:
			return m, m.postComment(m.composer.Value(), m.replyTo)
		}
		var cmd tea.Cmd
		m.composer, cmd = m.composer.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = WatchView
		m.status = ""
	case key.Matches(msg, m.keys.up):
		if m.commentCursor > 0 {
			m.commentCursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.commentCursor < m.comments.Count()-1 {
			m.commentCursor++
		}
	case key.Matches(msg, m.keys.refresh):
		return m, m.load(m.fetchComments())
	case key.Matches(msg, m.keys.compose):
		return m.openComposer(nil)
	case key.Matches(msg, m.keys.reply):
		roots := m.comments.Roots()
		if len(roots) == 0 {
			return m, nil
		}
		id := roots[m.commentCursor].ID
		return m.openComposer(&id)
	}
	return m, nil
}

func (m *Model) openComposer(parent *models.ID) (tea.Model, tea.Cmd) {
	if err := m.client.Session().Require(); err != nil {
		m.status = describe(err)
		return m, nil
	}
	m.composing = true
	m.replyTo = parent
	m.status = ""
	if parent != nil {
		m.composer.Placeholder = "Add a reply..."
	} else {
		m.composer.Placeholder = "Add a comment..."
	}
	return m, m.composer.Focus()
}

func (m *Model) closeComposer() {
	m.composing = false
	m.replyTo = nil
	m.composer.Reset()
	m.composer.Blur()
}

func (m *Model) handlePlaylistsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = WatchView
		m.status = ""
	case key.Matches(msg, m.keys.up):
		if m.playlistCursor > 0 {
			m.playlistCursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.playlistCursor < len(m.playlists)-1 {
			m.playlistCursor++
		}
	case key.Matches(msg, m.keys.enter):
		if len(m.playlists) == 0 || m.video == nil {
			return m, nil
		}
		playlistID := m.playlists[m.playlistCursor].ID
		if change, ok := m.tracker.Begin(playlistID, m.video.ID); ok {
			return m, m.sendMembership(change)
		}
		return m, m.load(m.toggleMembership(playlistID, m.video.ID))
	}
	return m, nil
}

func (m *Model) playlistName(id models.ID) string {
	for _, p := range m.playlists {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("playlist %d", id)
}

// describe turns an operation error into a status line.
func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Sign in with `vidx auth login` first"
	case errors.Is(err, shared.ErrUnauthorized):
		return "Session expired, sign in again"
	case errors.Is(err, shared.ErrEmptyContent):
		return "Comment cannot be empty"
	case errors.Is(err, shared.ErrContentTooLong):
		return fmt.Sprintf("Comment exceeds %d characters", comments.MaxContentLength)
	default:
		return strings.TrimSpace(err.Error())
	}
}
