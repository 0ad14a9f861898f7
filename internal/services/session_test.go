package services

import (
	"errors"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

func TestSession(t *testing.T) {
	t.Run("Token Source", func(t *testing.T) {
		s := NewSession("abc", models.User{Username: "ana"})
		tok, err := s.Token()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok.AccessToken != "abc" || tok.Type() != "Bearer" {
			t.Errorf("unexpected token %+v", tok)
		}
	})

	t.Run("Anonymous", func(t *testing.T) {
		s := NewSession("", models.User{})
		if _, err := s.Token(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if err := s.Require(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated from Require, got %v", err)
		}
	})

	t.Run("Invalidate Runs Hooks Once", func(t *testing.T) {
		s := NewSession("abc", models.User{Username: "ana"})
		calls := 0
		s.OnInvalidate(func() { calls++ })

		s.Invalidate()
		s.Invalidate()

		if calls != 1 {
			t.Errorf("expected hook to run once, got %d", calls)
		}
		if s.Authenticated() || s.User().Username != "" {
			t.Error("expected cleared session")
		}
	})

	t.Run("Set", func(t *testing.T) {
		s := NewSession("", models.User{})
		s.Set("xyz", models.User{ID: 3, Username: "bo"})
		if !s.Authenticated() || s.User().ID != 3 {
			t.Error("expected session to be set")
		}
	})
}
