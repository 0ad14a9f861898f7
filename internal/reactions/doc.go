// Package reactions applies optimistic like/dislike and subscribe toggles with rollback.
//
// [Apply] is the pure transition function over [Reactable]: the view is updated with its result before
// the network call resolves.
//
// [Engine] owns the local reaction state per video. Each toggle issues a [Ticket] carrying a monotonic
// per-video sequence number. A completion (confirmation or rollback) only touches local state when its
// ticket is still the latest one for that video, so a slow response can never overwrite a newer
// optimistic state. A failed toggle triggers exactly one re-fetch of the canonical video. There is no retry.
//
// [Subscriptions] is the one-flag variant for channel subscriptions. On failure it reverts with a local
// inverse flip instead of a re-fetch, since there is no single-subscription read that is always available.
package reactions
