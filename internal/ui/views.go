package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/reactions"
	"github.com/desertthunder/vidx/internal/shared"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+r to retry, q to quit", m.err))
	}

	var body string
	switch m.view {
	case VideoListView:
		body = m.renderVideoList()
	case WatchView:
		body = m.renderWatch()
	case CommentsView:
		body = m.renderComments()
	case PlaylistsView:
		body = m.renderPlaylists()
	}

	if m.loading {
		body = fmt.Sprintf("%s Loading...\n\n%s", m.spinner.View(), body)
	}
	return body
}

func (m *Model) footer(bindings ...key.Binding) string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString(styles.warn.Render(m.status))
		b.WriteString("\n\n")
	}
	b.WriteString(m.help.ShortHelpView(bindings))
	return b.String()
}

func (m *Model) renderVideoList() string {
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), m.footer(m.keys.enter, m.keys.refresh, m.keys.quit))
}

func (m *Model) renderWatch() string {
	if m.video == nil {
		return m.footer(m.keys.back, m.keys.quit)
	}
	v := m.video

	state := v.Reactable
	if current, ok := m.reactions.State(v.ID); ok {
		state = current
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(v.Title))
	b.WriteString("\n")

	uploader := v.Uploader.Username
	if uploader == "" {
		uploader = "Unknown"
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", styles.focus.Render(uploader), m.subscriptionBadge(v.Uploader.ID)))

	meta := []string{fmt.Sprintf("%d views", v.Views)}
	if v.Duration > 0 {
		meta = append(meta, shared.FormatDuration(int(v.Duration)))
	}
	if !v.CreatedAt.IsZero() {
		meta = append(meta, formatter.FormatRelative(v.CreatedAt, m.now()))
	}
	b.WriteString(styles.muted.Render(strings.Join(meta, " • ")))
	b.WriteString("\n\n")

	b.WriteString(renderReactions(state))
	b.WriteString("\n\n")

	if description := formatter.PlainText(v.Description); description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}

	b.WriteString(m.footer(m.keys.like, m.keys.dislike, m.keys.subscribe, m.keys.comments, m.keys.playlists, m.keys.back, m.keys.quit))
	return b.String()
}

func renderReactions(r reactions.Reactable) string {
	like := fmt.Sprintf("▲ %d", r.TotalLikes)
	dislike := fmt.Sprintf("▼ %d", r.TotalDislikes)

	switch reactions.StateOf(r) {
	case reactions.Liked:
		like = styles.ok.Render(like)
		dislike = styles.muted.Render(dislike)
	case reactions.Disliked:
		like = styles.muted.Render(like)
		dislike = styles.err.Render(dislike)
	default:
		like = styles.muted.Render(like)
		dislike = styles.muted.Render(dislike)
	}
	return like + "  " + dislike
}

func (m *Model) subscriptionBadge(channelID models.ID) string {
	if channelID == 0 || m.subscriptions == nil {
		return ""
	}
	subscribed, known := m.subscriptions.State(channelID)
	switch {
	case !known:
		return styles.muted.Render("[Subscribe]")
	case subscribed:
		return styles.ok.Render("[Subscribed]")
	default:
		return styles.help.Render("[Subscribe]")
	}
}

func (m *Model) renderComments() string {
	var b strings.Builder

	count := 0
	var roots []models.Comment
	if m.comments != nil {
		roots = m.comments.Roots()
		count = len(roots)
	}

	b.WriteString(styles.title.Render(fmt.Sprintf("Comments (%d)", count)))
	b.WriteString("\n")

	if count == 0 {
		b.WriteString(styles.muted.Render("No comments yet. Be the first to comment!"))
		b.WriteString("\n")
	}

	for i, root := range roots {
		cursor := "  "
		if i == m.commentCursor {
			cursor = styles.focus.Render("> ")
		}
		b.WriteString(cursor + m.renderComment(root))
		b.WriteString("\n")
		for _, reply := range root.Replies {
			b.WriteString("    ↳ " + m.renderComment(reply))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if m.composing {
		if m.replyTo != nil {
			if parent, ok := m.comments.Root(*m.replyTo); ok {
				b.WriteString(styles.help.Render(fmt.Sprintf("Replying to %s", parent.Author())))
				b.WriteString("\n")
			}
		}
		b.WriteString(m.composer.View())
		b.WriteString("\n\n")
		submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "post"))
		cancel := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel"))
		b.WriteString(m.footer(submit, cancel))
		return b.String()
	}

	b.WriteString(m.footer(m.keys.up, m.keys.down, m.keys.compose, m.keys.reply, m.keys.back, m.keys.quit))
	return b.String()
}

func (m *Model) renderComment(c models.Comment) string {
	header := styles.focus.Render(c.Author())
	if !c.CreatedAt.IsZero() {
		header += " " + styles.muted.Render(formatter.FormatRelative(c.CreatedAt, m.now()))
	}
	return header + "  " + formatter.PlainText(c.Content)
}

func (m *Model) renderPlaylists() string {
	var b strings.Builder

	title := "Save to playlist"
	if m.video != nil {
		title = fmt.Sprintf("Save '%s' to playlist", m.video.Title)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if len(m.playlists) == 0 && !m.loading {
		b.WriteString(styles.muted.Render("No playlists yet. Create one with `vidx playlist create`."))
		b.WriteString("\n")
	}

	for i, p := range m.playlists {
		cursor := "  "
		if i == m.playlistCursor {
			cursor = styles.focus.Render("> ")
		}

		mark := "[?]"
		if m.video != nil {
			if member, known := m.tracker.Cached(p.ID, m.video.ID); known {
				mark = "[ ]"
				if member {
					mark = styles.ok.Render("[x]")
				}
			}
		}

		b.WriteString(fmt.Sprintf("%s%s %s %s\n", cursor, mark, p.Name,
			styles.muted.Render(fmt.Sprintf("(%d videos, %s)", p.Count(), shared.VisibilityString(p.IsPublic)))))
	}
	b.WriteString("\n")

	toggle := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle"))
	b.WriteString(m.footer(m.keys.up, m.keys.down, toggle, m.keys.back, m.keys.quit))
	return b.String()
}
