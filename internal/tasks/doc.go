// Package tasks runs the long-lived batch operations of the CLI with real-time progress reporting.
//
// # Core Operations
//
//  1. [Engine.Dump] : Snapshot of the platform API
//     - Fetches videos, categories, playlists and subscriptions through the raw client
//     - Classifies each list envelope and records its item count
//     - Collects per-endpoint failures instead of aborting
//
//  2. [Engine.BulkExport] : Export many playlists at once
//     - A rate-limited producer fetches each playlist with its videos
//     - A bounded worker pool writes json, csv, markdown or txt exports
//     - A manifest summarizing every playlist is written last
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default so a slow consumer never stalls an operation.
package tasks
