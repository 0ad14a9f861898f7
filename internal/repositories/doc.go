// Package repositories implements SQLite persistence for the client's local state.
//
// Platform data (videos, comments, playlists) is never stored locally. The only persisted entity is the
// authenticated [models.Session], so a login survives between CLI invocations.
//
// Key Implementations:
//   - [SessionRepository] : Bearer token persistence keyed by API base URL
//
// Records are soft deleted via deleted_at timestamps and excluded from queries by default.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables,
// which order sessions independently of their UUIDs and creation timestamps.
package repositories
