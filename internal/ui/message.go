package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/reactions"
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
	MsgVideoFetched
	MsgReactionSettled
	MsgSubscriptionSettled
	MsgCommentsFetched
	MsgCommentPosted
	MsgPlaylistsFetched
	MsgMembershipToggled
)

type videosFetched struct {
	videos []models.Video
	err    error
}

type videoFetched struct {
	video      *models.Video
	subscribed bool
	err        error
}

type reactionSettled struct {
	ticket   reactions.Ticket
	replaced bool
	err      error
}

type subscriptionSettled struct {
	channelID  models.ID
	subscribed bool
	err        error
}

type commentPosted struct {
	comment models.Comment
	reply   bool
	err     error
}

type playlistsFetched struct {
	playlists []models.Playlist
	err       error
}

type membershipToggled struct {
	playlistID models.ID
	member     bool
	err        error
}

// videosFetchedMsg is the constructor for [MsgVideosFetched]
func videosFetchedMsg(videos []models.Video, err error) Msg {
	return Msg{kind: MsgVideosFetched, data: videosFetched{videos, err}}
}

// videoFetchedMsg is the constructor for [MsgVideoFetched]
func videoFetchedMsg(video *models.Video, subscribed bool, err error) Msg {
	return Msg{kind: MsgVideoFetched, data: videoFetched{video, subscribed, err}}
}

// reactionSettledMsg is the constructor for [MsgReactionSettled]
func reactionSettledMsg(t reactions.Ticket, replaced bool, err error) Msg {
	return Msg{kind: MsgReactionSettled, data: reactionSettled{t, replaced, err}}
}

// subscriptionSettledMsg is the constructor for [MsgSubscriptionSettled]
func subscriptionSettledMsg(channelID models.ID, subscribed bool, err error) Msg {
	return Msg{kind: MsgSubscriptionSettled, data: subscriptionSettled{channelID, subscribed, err}}
}

// commentsFetchedMsg is the constructor for [MsgCommentsFetched]
func commentsFetchedMsg(err error) Msg {
	return Msg{kind: MsgCommentsFetched, data: err}
}

// commentPostedMsg is the constructor for [MsgCommentPosted]
func commentPostedMsg(c models.Comment, reply bool, err error) Msg {
	return Msg{kind: MsgCommentPosted, data: commentPosted{c, reply, err}}
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// membershipToggledMsg is the constructor for [MsgMembershipToggled]
func membershipToggledMsg(playlistID models.ID, member bool, err error) Msg {
	return Msg{kind: MsgMembershipToggled, data: membershipToggled{playlistID, member, err}}
}
