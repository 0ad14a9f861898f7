package playlists

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Remote is the playlist side of the API.
type Remote interface {
	PlaylistVideos(ctx context.Context, playlistID models.ID) ([]models.VideoRef, error)
	Playlists(ctx context.Context) ([]models.Playlist, error)
	AddToPlaylist(ctx context.Context, playlistID, videoID models.ID) error
	RemoveFromPlaylist(ctx context.Context, playlistID, videoID models.ID) error
}

type key struct {
	playlist models.ID
	item     models.ID
}

// Tracker caches membership per (playlist, video) pair.
type Tracker struct {
	mu      sync.Mutex
	remote  Remote
	logger  *log.Logger
	members map[key]bool
}

// NewTracker creates a [Tracker].
func NewTracker(remote Remote, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Tracker{
		remote:  remote,
		logger:  shared.WithLogger(logger, "component", "playlists"),
		members: make(map[key]bool),
	}
}

// IsMember fetches whether itemID is in playlistID and caches the answer. It never fails.
func (t *Tracker) IsMember(ctx context.Context, playlistID, itemID models.ID) bool {
	refs, err := t.videos(ctx, playlistID)
	member := false
	if err != nil {
		t.logger.Warn("membership check failed, assuming not a member", "playlist", playlistID, "video", itemID, "error", err)
	} else {
		member = contains(refs, itemID)
	}

	t.mu.Lock()
	t.members[key{playlistID, itemID}] = member
	t.mu.Unlock()
	return member
}

func (t *Tracker) videos(ctx context.Context, playlistID models.ID) ([]models.VideoRef, error) {
	refs, err := t.remote.PlaylistVideos(ctx, playlistID)
	if err == nil {
		return refs, nil
	}
	t.logger.Debug("playlist videos endpoint failed, falling back to playlist list", "playlist", playlistID, "error", err)

	playlists, listErr := t.remote.Playlists(ctx)
	if listErr != nil {
		return nil, listErr
	}
	for _, p := range playlists {
		if p.ID == playlistID {
			return p.Videos, nil
		}
	}
	return []models.VideoRef{}, nil
}

func contains(refs []models.VideoRef, id models.ID) bool {
	for _, ref := range refs {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// Check fetches membership of itemID for every playlist given.
func (t *Tracker) Check(ctx context.Context, itemID models.ID, playlists []models.Playlist) map[models.ID]bool {
	out := make(map[models.ID]bool, len(playlists))
	for _, p := range playlists {
		out[p.ID] = t.IsMember(ctx, p.ID, itemID)
	}
	return out
}

// Cached returns the last known membership without a network call.
func (t *Tracker) Cached(playlistID, itemID models.ID) (member, known bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	member, known = t.members[key{playlistID, itemID}]
	return member, known
}

// Change is a membership flip applied locally by [Tracker.Begin] and not yet sent.
type Change struct {
	Playlist models.ID
	Item     models.ID
	Add      bool
}

// Begin flips the cached flag for a pair whose membership is already known. It makes no call.
//
// ok is false when membership is unknown; call [Tracker.Toggle] instead.
func (t *Tracker) Begin(playlistID, itemID models.ID) (c Change, ok bool) {
	k := key{playlistID, itemID}
	t.mu.Lock()
	defer t.mu.Unlock()
	member, known := t.members[k]
	if !known {
		return Change{}, false
	}
	t.members[k] = !member
	return Change{Playlist: playlistID, Item: itemID, Add: !member}, true
}

// Send issues the call for a change from [Tracker.Begin]. The flag is not rolled back when it fails.
// Returns the flag the change set.
func (t *Tracker) Send(ctx context.Context, c Change) (bool, error) {
	var err error
	action := "add"
	if c.Add {
		err = t.remote.AddToPlaylist(ctx, c.Playlist, c.Item)
	} else {
		action = "remove"
		err = t.remote.RemoveFromPlaylist(ctx, c.Playlist, c.Item)
	}
	if err != nil {
		t.logger.Warn("membership toggle failed", "playlist", c.Playlist, "video", c.Item, "action", action, "error", err)
		return c.Add, fmt.Errorf("failed to %s video %d: %w", action, c.Item, err)
	}
	return c.Add, nil
}

// Toggle removes itemID if it is a member, else adds it, flipping the cached flag first.
//
// Unknown membership is fetched before flipping. Returns the new cached flag.
func (t *Tracker) Toggle(ctx context.Context, playlistID, itemID models.ID) (bool, error) {
	c, ok := t.Begin(playlistID, itemID)
	if !ok {
		// IsMember always caches its answer.
		t.IsMember(ctx, playlistID, itemID)
		c, _ = t.Begin(playlistID, itemID)
	}
	return t.Send(ctx, c)
}
