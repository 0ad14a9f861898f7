// Package comments holds a video's two-level comment tree.
//
// Roots are kept most-recent-first; each root owns its replies in chronological order. Replies never carry
// replies of their own, so the tree depth is capped at two. New comments are added locally only after the
// remote accepts them; a failed submission leaves the tree untouched.
//
// Adding a reply is a keyed lookup-and-replace of the one affected root. Every other root, and its replies,
// is left exactly as it was.
package comments
