// Package models defines domain entities and persistence interfaces for the vidx video platform client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from the remote REST API
//   - [Video] : Video metadata with reaction flags and counters
//   - [Comment] : Root comment or reply, capped at two levels
//   - [Playlist] : Playlist metadata with its flat embedded videos field
//   - [PlaylistExport] : Playlist with its complete video listing
//   - [Subscription], [Category], [User] : Supporting entities
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Session] : Authenticated bearer token for one API base URL
//
// Identifiers arrive from the API as numbers or numeric strings. [ID] and [VideoRef] decode both so that
// identity comparison is numeric equality after coercion.
package models
