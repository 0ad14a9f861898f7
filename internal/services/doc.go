// Package services implements the HTTP client for the video platform's REST API.
//
// # Client
//
// [Client] wraps every endpoint the CLI and TUI consume: videos, reactions, comments, playlists,
// subscriptions, categories, auth, and multipart upload. List endpoints pass through a
// [normalize.Normalizer], so any of the API's envelope shapes decode into the same slice.
// Requests are throttled with a [rate.Limiter] and tagged with an X-Request-ID.
//
// # Session
//
// [Session] is the explicit auth context threaded into the client. It implements [oauth2.TokenSource], so
// bearer tokens are attached by [oauth2.Transport] rather than read from ambient state.
// Any 401 response invalidates the session. The request is not retried.
//
// # Error Handling
//
// Non-2xx responses become [*StatusError], which unwraps to a sentinel from the shared package:
//   - [shared.ErrUnauthorized] : 401, session invalidated
//   - [shared.ErrNotFound] : 404
//   - [shared.ErrNetworkFailure] : any other rejection
//
// Transport failures (refused connections, timeouts) wrap [shared.ErrNetworkFailure] as well.
package services
