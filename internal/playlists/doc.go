// Package playlists tracks whether a video belongs to each of the viewer's playlists.
//
// Membership is read from the playlist videos endpoint. When that endpoint is unavailable the
// [Tracker] falls back to the playlist list and its flat embedded videos field. A failed check
// counts as "not a member", so adding is offered. It is logged, never surfaced.
//
// Toggling flips the cached flag before the call resolves and does not roll back on failure. The error
// is returned and the flag stays stale until the next explicit check.
package playlists
