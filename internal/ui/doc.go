// Package ui implements the interactive watch page using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow:
//  1. [VideoListView] : Browse the newest videos
//  2. [WatchView] : Video details with like, dislike and subscribe toggles
//  3. [CommentsView] : Comment thread with an inline composer for comments and replies
//  4. [PlaylistsView] : Add or remove the current video from the viewer's playlists
//
// Reactions are optimistic: the keypress applies [reactions.Engine.Begin] inside Update so the next frame already
// shows the new counters, and the network call runs as a [tea.Cmd] whose result settles or rolls back the state.
// Views always render from the engines, so late results never overwrite newer local state.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
