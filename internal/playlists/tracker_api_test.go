package playlists

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	tu "github.com/desertthunder/vidx/internal/testing"
)

func TestTrackerAgainstAPI(t *testing.T) {
	ctx := context.Background()
	api := tu.NewFakeAPI(t)
	client := services.NewClient(services.ClientOpts{
		BaseURL: api.BaseURL(),
		Session: services.NewSession(tu.FakeToken, models.User{ID: 42}),
		Logger:  log.New(io.Discard),
	})
	tr := NewTracker(client, log.New(io.Discard))

	t.Run("Primary Endpoint Failure Falls Back", func(t *testing.T) {
		api.Fail(http.MethodGet, "/playlists/100/videos/", http.StatusInternalServerError)
		defer api.Clear(http.MethodGet, "/playlists/100/videos/")

		if !tr.IsMember(ctx, 100, 2) {
			t.Error("expected fallback to find video 2 in the embedded videos field")
		}
		if api.CallCount("GET /api/playlists/") == 0 {
			t.Error("expected fallback to list playlists")
		}
	})

	t.Run("Toggle Round Trip", func(t *testing.T) {
		member, err := tr.Toggle(ctx, 100, 1)
		if err != nil || !member {
			t.Fatalf("expected add, got %v %v", member, err)
		}
		if !tr.IsMember(ctx, 100, 1) {
			t.Error("expected server to report membership after add")
		}

		member, err = tr.Toggle(ctx, 100, 1)
		if err != nil || member {
			t.Fatalf("expected remove, got %v %v", member, err)
		}
		if tr.IsMember(ctx, 100, 1) {
			t.Error("expected server to report removal")
		}
	})
}
