package reactions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Remote is the network side of the engine.
type Remote interface {
	Like(ctx context.Context, id models.ID) error
	Dislike(ctx context.Context, id models.ID) error
	Video(ctx context.Context, id models.ID) (*models.Video, error)
}

// Guard rejects toggles from an unauthenticated viewer before any local change.
type Guard interface {
	Require() error
}

// Ticket identifies one optimistic toggle.
type Ticket struct {
	ID     models.ID
	Seq    uint64
	Action Action
	Prev   Reactable
	Next   Reactable
}

type entry struct {
	state Reactable
	seq   uint64
}

// Engine holds local reaction state per video and reconciles it with the remote.
type Engine struct {
	mu      sync.Mutex
	remote  Remote
	guard   Guard
	logger  *log.Logger
	entries map[models.ID]*entry
}

// NewEngine creates an [Engine]. guard may be nil to allow anonymous toggles.
func NewEngine(remote Remote, guard Guard, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		remote:  remote,
		guard:   guard,
		logger:  shared.WithLogger(logger, "component", "reactions"),
		entries: make(map[models.ID]*entry),
	}
}

// Seed replaces the local state of a video with a canonical read, e.g. after loading the watch view.
//
// Seeding bumps the sequence so completions of earlier toggles are discarded.
func (e *Engine) Seed(id models.ID, r Reactable) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ent, ok := e.entries[id]; ok {
		ent.state = r
		ent.seq++
		return
	}
	e.entries[id] = &entry{state: r}
}

// State returns the local state of a video.
func (e *Engine) State(id models.ID) (Reactable, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entries[id]
	if !ok {
		return Reactable{}, false
	}
	return ent.state, true
}

// Begin applies action to the local state and returns the ticket for the network call.
func (e *Engine) Begin(id models.ID, action Action) (Ticket, Reactable, error) {
	if e.guard != nil {
		if err := e.guard.Require(); err != nil {
			return Ticket{}, Reactable{}, fmt.Errorf("%w: %w", shared.ErrValidation, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entries[id]
	if !ok {
		return Ticket{}, Reactable{}, fmt.Errorf("%w: video %d has no local state", shared.ErrNotFound, id)
	}

	ent.seq++
	t := Ticket{ID: id, Seq: ent.seq, Action: action, Prev: ent.state, Next: Apply(ent.state, action)}
	ent.state = t.Next

	e.logger.Debug("optimistic toggle", "video", id, "action", action, "seq", t.Seq, "state", StateOf(t.Next))
	return t, t.Next, nil
}

// Send issues the network call for a ticket.
func (e *Engine) Send(ctx context.Context, t Ticket) error {
	if t.Action == ToggleDislike {
		return e.remote.Dislike(ctx, t.ID)
	}
	return e.remote.Like(ctx, t.ID)
}

// Latest reports whether t is the most recent ticket for its video.
func (e *Engine) Latest(t Ticket) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.entries[t.ID]
	return ok && ent.seq == t.Seq
}

// Confirm acknowledges a successful call. It reports whether the ticket was still the latest.
func (e *Engine) Confirm(t Ticket) bool {
	latest := e.Latest(t)
	if !latest {
		e.logger.Debug("discarding stale confirmation", "video", t.ID, "seq", t.Seq)
	}
	return latest
}

// Rollback restores canonical state after a failed call by re-fetching the video once.
//
// Stale tickets are discarded without a fetch. A fetch result is discarded too if a newer ticket was issued
// while it was in flight. If the fetch itself fails the local state reverts to the ticket's previous state.
// The returned bool reports whether local state was replaced.
func (e *Engine) Rollback(ctx context.Context, t Ticket) (Reactable, bool, error) {
	if !e.Latest(t) {
		e.logger.Debug("discarding stale rollback", "video", t.ID, "seq", t.Seq)
		current, _ := e.State(t.ID)
		return current, false, nil
	}

	video, fetchErr := e.remote.Video(ctx, t.ID)

	e.mu.Lock()
	defer e.mu.Unlock()

	ent := e.entries[t.ID]
	if ent == nil || ent.seq != t.Seq {
		e.logger.Debug("discarding rollback overtaken by newer toggle", "video", t.ID, "seq", t.Seq)
		if ent == nil {
			return Reactable{}, false, fetchErr
		}
		return ent.state, false, fetchErr
	}

	if fetchErr != nil {
		e.logger.Warn("rollback fetch failed, reverting locally", "video", t.ID, "error", fetchErr)
		ent.state = t.Prev
		return ent.state, true, fmt.Errorf("rollback fetch: %w", fetchErr)
	}

	e.logger.Info("rolled back toggle", "video", t.ID, "action", t.Action, "state", StateOf(video.Reactable))
	ent.state = video.Reactable
	return ent.state, true, nil
}

// Toggle runs Begin, Send and then Confirm or Rollback.
//
// It returns the resulting local state and the send error, if any.
func (e *Engine) Toggle(ctx context.Context, id models.ID, action Action) (Reactable, error) {
	t, next, err := e.Begin(id, action)
	if err != nil {
		return Reactable{}, err
	}

	sendErr := e.Send(ctx, t)
	if sendErr == nil {
		e.Confirm(t)
		return next, nil
	}

	e.logger.Warn("toggle failed", "video", id, "action", action, "error", sendErr)
	state, _, rbErr := e.Rollback(ctx, t)
	return state, errors.Join(sendErr, rbErr)
}
