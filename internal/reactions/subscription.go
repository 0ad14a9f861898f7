package reactions

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// SubscriptionRemote subscribes the viewer to a channel.
type SubscriptionRemote interface {
	Subscribe(ctx context.Context, channelID models.ID) error
}

// Unsubscriber is implemented by remotes that can unsubscribe. Without it unsubscribing is local-only.
type Unsubscriber interface {
	Unsubscribe(ctx context.Context, channelID models.ID) error
}

// SubscriptionChecker reads the canonical subscription flag.
type SubscriptionChecker interface {
	IsSubscribed(ctx context.Context, channelID models.ID) bool
}

type subEntry struct {
	subscribed bool
	seq        uint64
}

// Subscriptions holds the local subscribed flag per channel.
type Subscriptions struct {
	mu      sync.Mutex
	remote  SubscriptionRemote
	guard   Guard
	logger  *log.Logger
	entries map[models.ID]*subEntry
}

// NewSubscriptions creates a [Subscriptions] tracker. guard may be nil.
func NewSubscriptions(remote SubscriptionRemote, guard Guard, logger *log.Logger) *Subscriptions {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Subscriptions{
		remote:  remote,
		guard:   guard,
		logger:  shared.WithLogger(logger, "component", "subscriptions"),
		entries: make(map[models.ID]*subEntry),
	}
}

// Seed sets the local flag from a canonical read.
func (s *Subscriptions) Seed(channelID models.ID, subscribed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[channelID]; ok {
		ent.subscribed = subscribed
		ent.seq++
		return
	}
	s.entries[channelID] = &subEntry{subscribed: subscribed}
}

// Load seeds the flag from the remote when it can check subscriptions, else from false.
func (s *Subscriptions) Load(ctx context.Context, channelID models.ID) bool {
	subscribed := false
	if checker, ok := s.remote.(SubscriptionChecker); ok {
		subscribed = checker.IsSubscribed(ctx, channelID)
	}
	s.Seed(channelID, subscribed)
	return subscribed
}

// State returns the local flag for a channel.
func (s *Subscriptions) State(channelID models.ID) (subscribed, known bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entries[channelID]
	if !ok {
		return false, false
	}
	return ent.subscribed, true
}

// SubscriptionTicket identifies one subscription toggle. Target is the flag it set locally.
type SubscriptionTicket struct {
	Channel models.ID
	Seq     uint64
	Target  bool
}

// Begin flips the local flag without any I/O, so the caller can render it before the call is made.
func (s *Subscriptions) Begin(channelID models.ID) (SubscriptionTicket, error) {
	if s.guard != nil {
		if err := s.guard.Require(); err != nil {
			return SubscriptionTicket{}, fmt.Errorf("%w: %w", shared.ErrValidation, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entries[channelID]
	if !ok {
		ent = &subEntry{}
		s.entries[channelID] = ent
	}
	ent.seq++
	ent.subscribed = !ent.subscribed
	return SubscriptionTicket{Channel: channelID, Seq: ent.seq, Target: ent.subscribed}, nil
}

// Settle issues the call matching a ticket from [Subscriptions.Begin] and returns the resulting local flag.
//
// On failure the flag is flipped back locally if no newer toggle happened meanwhile; nothing is re-fetched.
func (s *Subscriptions) Settle(ctx context.Context, t SubscriptionTicket) (bool, error) {
	var err error
	switch {
	case t.Target:
		err = s.remote.Subscribe(ctx, t.Channel)
	default:
		if u, ok := s.remote.(Unsubscriber); ok {
			err = u.Unsubscribe(ctx, t.Channel)
		} else {
			s.logger.Debug("no unsubscribe endpoint, unsubscribing locally", "channel", t.Channel)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ent := s.entries[t.Channel]
	if err == nil {
		return ent.subscribed, nil
	}
	if ent.seq == t.Seq {
		ent.subscribed = !t.Target
		s.logger.Warn("subscription toggle failed, flipped back locally", "channel", t.Channel, "error", err)
	} else {
		s.logger.Debug("discarding stale subscription failure", "channel", t.Channel, "seq", t.Seq)
	}
	return ent.subscribed, err
}

// Toggle flips the local flag and issues the matching call.
func (s *Subscriptions) Toggle(ctx context.Context, channelID models.ID) (bool, error) {
	t, err := s.Begin(channelID)
	if err != nil {
		return false, err
	}
	return s.Settle(ctx, t)
}
