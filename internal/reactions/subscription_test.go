package reactions

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

type fakeSubscriber struct {
	err        error
	subscribes int
	subscribed bool
	onCall     func()
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, channelID models.ID) error {
	f.subscribes++
	if f.onCall != nil {
		f.onCall()
	}
	return f.err
}

func (f *fakeSubscriber) IsSubscribed(ctx context.Context, channelID models.ID) bool {
	return f.subscribed
}

type fakeUnsubscriber struct {
	fakeSubscriber
	unsubscribes int
}

func (f *fakeUnsubscriber) Unsubscribe(ctx context.Context, channelID models.ID) error {
	f.unsubscribes++
	return f.err
}

func TestSubscriptions(t *testing.T) {
	ctx := context.Background()
	quiet := log.New(io.Discard)

	t.Run("Load Uses Checker", func(t *testing.T) {
		s := NewSubscriptions(&fakeSubscriber{subscribed: true}, nil, quiet)
		if !s.Load(ctx, 10) {
			t.Error("expected subscribed")
		}
		if got, known := s.State(10); !got || !known {
			t.Errorf("expected known subscribed state, got %v %v", got, known)
		}
	})

	t.Run("Subscribe Success", func(t *testing.T) {
		remote := &fakeSubscriber{}
		s := NewSubscriptions(remote, nil, quiet)
		s.Seed(10, false)

		got, err := s.Toggle(ctx, 10)
		if err != nil || !got {
			t.Fatalf("expected subscribed without error, got %v %v", got, err)
		}
		if remote.subscribes != 1 {
			t.Errorf("expected one subscribe call, got %d", remote.subscribes)
		}
	})

	t.Run("Subscribe Failure Flips Back Locally", func(t *testing.T) {
		remote := &fakeSubscriber{err: shared.ErrNetworkFailure}
		s := NewSubscriptions(remote, nil, quiet)
		s.Seed(10, false)

		got, err := s.Toggle(ctx, 10)
		if !errors.Is(err, shared.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
		if got {
			t.Error("expected flag flipped back to unsubscribed")
		}
		if remote.subscribes != 1 {
			t.Errorf("expected one call and no retry, got %d", remote.subscribes)
		}
	})

	t.Run("Unsubscribe Is Local Without Endpoint", func(t *testing.T) {
		remote := &fakeSubscriber{}
		s := NewSubscriptions(remote, nil, quiet)
		s.Seed(10, true)

		got, err := s.Toggle(ctx, 10)
		if err != nil || got {
			t.Fatalf("expected local unsubscribe, got %v %v", got, err)
		}
		if remote.subscribes != 0 {
			t.Errorf("expected no network call, got %d", remote.subscribes)
		}
	})

	t.Run("Unsubscribe Uses Unsubscriber", func(t *testing.T) {
		remote := &fakeUnsubscriber{}
		remote.err = shared.ErrNetworkFailure
		s := NewSubscriptions(remote, nil, quiet)
		s.Seed(10, true)

		got, err := s.Toggle(ctx, 10)
		if err == nil {
			t.Fatal("expected error")
		}
		if !got {
			t.Error("expected flag flipped back to subscribed")
		}
		if remote.unsubscribes != 1 {
			t.Errorf("expected one unsubscribe call, got %d", remote.unsubscribes)
		}
	})

	t.Run("Stale Failure Does Not Flip", func(t *testing.T) {
		remote := &fakeSubscriber{err: shared.ErrNetworkFailure}
		s := NewSubscriptions(remote, nil, quiet)
		s.Seed(10, false)
		remote.onCall = func() {
			remote.onCall = nil
			s.Seed(10, true)
		}

		got, _ := s.Toggle(ctx, 10)
		if !got {
			t.Error("expected newer seeded state to survive stale failure")
		}
	})

	t.Run("Begin Flips Before Settle", func(t *testing.T) {
		remote := &fakeSubscriber{err: shared.ErrNetworkFailure}
		s := NewSubscriptions(remote, nil, quiet)
		s.Seed(10, false)

		ticket, err := s.Begin(10)
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}
		if got, _ := s.State(10); !got || !ticket.Target {
			t.Fatalf("expected local flag flipped before any call, got %v", got)
		}
		if remote.subscribes != 0 {
			t.Fatalf("begin must not call the remote, got %d calls", remote.subscribes)
		}

		got, err := s.Settle(ctx, ticket)
		if err == nil || got {
			t.Errorf("expected failure to flip back, got %v %v", got, err)
		}
		if remote.subscribes != 1 {
			t.Errorf("expected one subscribe call, got %d", remote.subscribes)
		}
	})

	t.Run("Guard Rejects", func(t *testing.T) {
		remote := &fakeSubscriber{}
		s := NewSubscriptions(remote, denyGuard{}, quiet)
		if _, err := s.Toggle(ctx, 10); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if _, known := s.State(10); known {
			t.Error("expected no local state after rejected toggle")
		}
	})
}
