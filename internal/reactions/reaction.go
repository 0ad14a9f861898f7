package reactions

import (
	"github.com/desertthunder/vidx/internal/models"
)

// Reactable is the like/dislike state of an entity.
type Reactable = models.Reactable

// State is the viewer's reaction to an entity.
type State int

const (
	Neutral State = iota
	Liked
	Disliked
)

func (s State) String() string {
	switch s {
	case Liked:
		return "liked"
	case Disliked:
		return "disliked"
	default:
		return "neutral"
	}
}

// Action is a reaction toggle.
type Action int

const (
	ToggleLike Action = iota
	ToggleDislike
)

func (a Action) String() string {
	if a == ToggleDislike {
		return "dislike"
	}
	return "like"
}

// StateOf reports the reaction state of r. A like wins over a dislike when both flags are set.
func StateOf(r Reactable) State {
	switch {
	case r.IsLiked:
		return Liked
	case r.IsDisliked:
		return Disliked
	default:
		return Neutral
	}
}

// Valid reports whether at most one flag is set and both counters are non-negative.
func Valid(r Reactable) bool {
	return !(r.IsLiked && r.IsDisliked) && r.TotalLikes >= 0 && r.TotalDislikes >= 0
}

// Apply computes the state after action without side effects.
//
// Toggling like:
//
//	Neutral  -> Liked    likes+1
//	Liked    -> Neutral  likes-1
//	Disliked -> Liked    likes+1, dislikes-1
//
// Toggling dislike is the mirror image. Counters never drop below zero.
// A state with both flags set is first read as Liked, with the dislike removed from its counter.
func Apply(r Reactable, action Action) Reactable {
	if r.IsLiked && r.IsDisliked {
		r.IsDisliked = false
		r.TotalDislikes = dec(r.TotalDislikes)
	}
	state := StateOf(r)
	out := Reactable{TotalLikes: r.TotalLikes, TotalDislikes: r.TotalDislikes}

	switch action {
	case ToggleLike:
		switch state {
		case Liked:
			out.TotalLikes = dec(out.TotalLikes)
		case Disliked:
			out.IsLiked = true
			out.TotalLikes++
			out.TotalDislikes = dec(out.TotalDislikes)
		default:
			out.IsLiked = true
			out.TotalLikes++
		}
	case ToggleDislike:
		switch state {
		case Disliked:
			out.TotalDislikes = dec(out.TotalDislikes)
		case Liked:
			out.IsDisliked = true
			out.TotalDislikes++
			out.TotalLikes = dec(out.TotalLikes)
		default:
			out.IsDisliked = true
			out.TotalDislikes++
		}
	default:
		return r
	}

	out.TotalLikes = max(out.TotalLikes, 0)
	out.TotalDislikes = max(out.TotalDislikes, 0)
	return out
}

func dec(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
