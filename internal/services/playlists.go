package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/normalize"
	"github.com/desertthunder/vidx/internal/shared"
)

const (
	MaxPlaylistName        = 200
	MaxPlaylistDescription = 500
)

// Playlists lists the viewer's playlists.
//
// Calls GET /playlists/.
func (c *Client) Playlists(ctx context.Context) ([]models.Playlist, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/playlists/", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return normalize.List[models.Playlist](c.normalizer, data, "playlists"), nil
}

// Playlist finds one playlist in the viewer's list.
func (c *Client) Playlist(ctx context.Context, id models.ID) (*models.Playlist, error) {
	playlists, err := c.Playlists(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range playlists {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
}

// PlaylistInput describes a playlist to create.
type PlaylistInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// Validate enforces the name and description limits.
func (in PlaylistInput) Validate() error {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	case utf8.RuneCountInString(name) > MaxPlaylistName:
		return fmt.Errorf("%w: playlist name exceeds %d characters", shared.ErrContentTooLong, MaxPlaylistName)
	case utf8.RuneCountInString(in.Description) > MaxPlaylistDescription:
		return fmt.Errorf("%w: playlist description exceeds %d characters", shared.ErrContentTooLong, MaxPlaylistDescription)
	}
	return nil
}

// CreatePlaylist creates a playlist for the viewer.
//
// Calls POST /playlists/.
func (c *Client) CreatePlaylist(ctx context.Context, in PlaylistInput) (*models.Playlist, error) {
	if err := c.session.Require(); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	var playlist models.Playlist
	if err := c.postJSON(ctx, "/playlists/", in, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistVideos lists a playlist's members from the dedicated endpoint.
//
// Calls GET /playlists/{id}/videos/, which answers with a bare list or a {videos: [...]} envelope.
func (c *Client) PlaylistVideos(ctx context.Context, playlistID models.ID) ([]models.VideoRef, error) {
	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/playlists/%d/videos/", playlistID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	return normalize.List[models.VideoRef](c.normalizer, data, "videos"), nil
}

type membershipChange struct {
	VideoID models.ID `json:"video_id"`
	Action  string    `json:"action"`
}

// AddToPlaylist adds a video to a playlist.
//
// Calls POST /playlists/{id}/videos/ with {video_id, action: "add"}.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID, videoID models.ID) error {
	return c.postJSON(ctx, fmt.Sprintf("/playlists/%d/videos/", playlistID), membershipChange{videoID, "add"}, nil)
}

// RemoveFromPlaylist removes a video from a playlist.
//
// Calls POST /playlists/{id}/videos/ with {video_id, action: "remove"}.
func (c *Client) RemoveFromPlaylist(ctx context.Context, playlistID, videoID models.ID) error {
	return c.postJSON(ctx, fmt.Sprintf("/playlists/%d/videos/", playlistID), membershipChange{videoID, "remove"}, nil)
}

// ExportPlaylist gathers a playlist and the full record of each member video.
//
// Members come from the dedicated endpoint, falling back to the playlist's embedded list.
// A member whose detail fetch fails is exported with only its id and title.
func (c *Client) ExportPlaylist(ctx context.Context, id models.ID) (*models.PlaylistExport, error) {
	playlist, err := c.Playlist(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := c.PlaylistVideos(ctx, id)
	if err != nil {
		c.logger.Warn("playlist videos endpoint failed, using embedded list", "playlist", id, "error", err)
		refs = playlist.Videos
	}

	export := &models.PlaylistExport{Playlist: *playlist, Videos: make([]models.Video, 0, len(refs))}
	for _, ref := range refs {
		video, err := c.Video(ctx, ref.ID)
		if err != nil {
			c.logger.Warn("video detail fetch failed", "video", ref.ID, "error", err)
			export.Videos = append(export.Videos, models.Video{ID: ref.ID, Title: ref.Title})
			continue
		}
		export.Videos = append(export.Videos, *video)
	}
	return export, nil
}
