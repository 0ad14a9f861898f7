package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/playlists"
	"github.com/desertthunder/vidx/internal/reactions"
	"github.com/desertthunder/vidx/internal/services"
)

func (m *Model) fetchVideos() tea.Cmd {
	return func() tea.Msg {
		videos, err := m.client.Videos(m.ctx, services.VideoQuery{Ordering: "-created_at"})
		return videosFetchedMsg(videos, err)
	}
}

// fetchVideo loads the canonical video, seeds the engines and records a view when signed in.
func (m *Model) fetchVideo(id models.ID) tea.Cmd {
	return func() tea.Msg {
		video, err := m.client.Video(m.ctx, id)
		if err != nil {
			return videoFetchedMsg(nil, false, err)
		}
		m.reactions.Seed(video.ID, video.Reactable)

		if m.client.Session().Authenticated() {
			if err := m.client.AddView(m.ctx, video.ID); err != nil {
				m.logger.Warn("failed to record view", "video", video.ID, "error", err)
			}
		}

		subscribed := false
		if video.Uploader.ID != 0 && m.client.Session().Authenticated() {
			subscribed = m.subscriptions.Load(m.ctx, video.Uploader.ID)
		}
		return videoFetchedMsg(video, subscribed, nil)
	}
}

// settleReaction sends the ticket's call and confirms or rolls back once it answers.
func (m *Model) settleReaction(t reactions.Ticket) tea.Cmd {
	return func() tea.Msg {
		sendErr := m.reactions.Send(m.ctx, t)
		if sendErr == nil {
			m.reactions.Confirm(t)
			return reactionSettledMsg(t, false, nil)
		}
		_, replaced, rbErr := m.reactions.Rollback(m.ctx, t)
		return reactionSettledMsg(t, replaced, errors.Join(sendErr, rbErr))
	}
}

// settleSubscription sends the call for a flag already flipped in Update.
func (m *Model) settleSubscription(t reactions.SubscriptionTicket) tea.Cmd {
	return func() tea.Msg {
		subscribed, err := m.subscriptions.Settle(m.ctx, t)
		return subscriptionSettledMsg(t.Channel, subscribed, err)
	}
}

func (m *Model) fetchComments() tea.Cmd {
	store := m.comments
	return func() tea.Msg {
		return commentsFetchedMsg(store.Refresh(m.ctx))
	}
}

func (m *Model) postComment(content string, parent *models.ID) tea.Cmd {
	store := m.comments
	return func() tea.Msg {
		if parent != nil {
			c, err := store.AddReply(m.ctx, *parent, content)
			return commentPostedMsg(c, true, err)
		}
		c, err := store.AddRoot(m.ctx, content)
		return commentPostedMsg(c, false, err)
	}
}

// fetchPlaylists loads the viewer's playlists and checks membership of the current video in each.
func (m *Model) fetchPlaylists(videoID models.ID) tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.client.Playlists(m.ctx)
		if err != nil {
			return playlistsFetchedMsg(nil, err)
		}
		m.tracker.Check(m.ctx, videoID, playlists)
		return playlistsFetchedMsg(playlists, nil)
	}
}

// sendMembership sends a change already applied to the tracker's cache.
func (m *Model) sendMembership(c playlists.Change) tea.Cmd {
	return func() tea.Msg {
		member, err := m.tracker.Send(m.ctx, c)
		return membershipToggledMsg(c.Playlist, member, err)
	}
}

// toggleMembership checks unknown membership before flipping it.
func (m *Model) toggleMembership(playlistID, videoID models.ID) tea.Cmd {
	return func() tea.Msg {
		member, err := m.tracker.Toggle(m.ctx, playlistID, videoID)
		return membershipToggledMsg(playlistID, member, err)
	}
}
