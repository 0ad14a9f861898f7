package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints the viewer's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.client.Playlists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Playlists: %d\n\n", len(playlists))
	for _, p := range playlists {
		r.writePlain("%5d  %s (%d videos, %s)\n", p.ID, p.Name, p.Count(), shared.VisibilityString(p.IsPublic))
	}
	return nil
}

// PlaylistCreate creates a playlist, optionally adding a video to it.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	in := services.PlaylistInput{
		Name:        cmd.StringArg("name"),
		Description: cmd.String("description"),
		IsPublic:    cmd.Bool("public"),
	}

	playlist, err := r.client.CreatePlaylist(ctx, in)
	if err != nil {
		return err
	}
	r.writePlain("✓ Created playlist %q (%d)\n", playlist.Name, playlist.ID)

	raw := cmd.String("video")
	if raw == "" {
		return nil
	}
	videoID, err := models.ParseID(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if err := r.client.AddToPlaylist(ctx, playlist.ID, videoID); err != nil {
		return err
	}
	return r.writePlain("✓ Added video %d\n", videoID)
}

// PlaylistVideos prints a playlist's videos.
func (r *Runner) PlaylistVideos(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	export, err := r.client.ExportPlaylist(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	text, err := formatter.ExportToText(export)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// PlaylistCheck prints the video's membership in each playlist.
func (r *Runner) PlaylistCheck(ctx context.Context, cmd *cli.Command) error {
	videoID, err := idArg(cmd, "video")
	if err != nil {
		return err
	}

	playlists, err := r.client.Playlists(ctx)
	if err != nil {
		return err
	}
	members := r.tracker.Check(ctx, videoID, playlists)

	if cmd.Bool("json") {
		out := make(map[string]bool, len(members))
		for id, member := range members {
			out[id.String()] = member
		}
		return r.writeJSON(out, true)
	}

	for _, p := range playlists {
		mark := "[ ]"
		if members[p.ID] {
			mark = "[x]"
		}
		r.writePlain("%s %s (%d)\n", mark, p.Name, p.ID)
	}
	return nil
}

// PlaylistToggle adds the video to the playlist, or removes it when already present.
func (r *Runner) PlaylistToggle(ctx context.Context, cmd *cli.Command) error {
	playlistID, err := idArg(cmd, "playlist")
	if err != nil {
		return err
	}
	videoID, err := idArg(cmd, "video")
	if err != nil {
		return err
	}
	if err := r.client.Session().Require(); err != nil {
		return err
	}

	member, err := r.tracker.Toggle(ctx, playlistID, videoID)
	if err != nil {
		return err
	}

	if member {
		return r.writePlain("✓ Added video %d to playlist %d\n", videoID, playlistID)
	}
	return r.writePlain("✓ Removed video %d from playlist %d\n", videoID, playlistID)
}

// PlaylistExport writes one playlist, or several through the bulk exporter.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	switch format {
	case "json", "csv", "markdown", "txt":
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}

	ids, err := r.exportIDs(ctx, cmd)
	if err != nil {
		return err
	}

	if len(ids) == 1 && !cmd.Bool("all") {
		return r.exportOne(ctx, ids[0], format, cmd.String("output"))
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Info("starting bulk export", "playlists", len(ids), "format", format)
	r.writePlain("Exporting %d playlists...\n\n", len(ids))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportPlaylist:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Success: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

func (r *Runner) exportIDs(ctx context.Context, cmd *cli.Command) ([]models.ID, error) {
	if cmd.Bool("all") {
		playlists, err := r.client.Playlists(ctx)
		if err != nil {
			return nil, err
		}
		if len(playlists) == 0 {
			return nil, fmt.Errorf("%w: no playlists to export", shared.ErrNotFound)
		}
		ids := make([]models.ID, 0, len(playlists))
		for _, p := range playlists {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: playlist ids or --all", shared.ErrMissingArgument)
	}
	ids := make([]models.ID, 0, len(args))
	for _, arg := range args {
		id, err := models.ParseID(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Runner) exportOne(ctx context.Context, id models.ID, format, dir string) error {
	export, err := r.client.ExportPlaylist(ctx, id)
	if err != nil {
		return err
	}

	base := id.String()
	if dir != "" {
		base = filepath.Join(dir, base)
	}

	var files []string
	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, base)
		if err != nil {
			return err
		}
		files = []string{result.VideosFile, result.MetadataFile}
	case "markdown":
		result, err := formatter.WriteMarkdownExport(export, base, firstThumbnail(export))
		if err != nil {
			return err
		}
		files = result.Files
	case "txt":
		path, err := formatter.WriteTextExport(export, base+"_videos.txt")
		if err != nil {
			return err
		}
		files = []string{path}
	default:
		path, err := formatter.WriteJSONExport(export, base+".json")
		if err != nil {
			return err
		}
		files = []string{path}
	}

	r.logger.Infof("playlist exported with %v videos", len(export.Videos))
	r.writePlain("✓ Playlist exported\n")
	r.writePlain("  Playlist: %s\n", export.Playlist.Name)
	r.writePlain("  Videos: %d\n", len(export.Videos))
	for _, f := range files {
		r.writePlain("  File: %s\n", f)
	}
	return nil
}

func firstThumbnail(export *models.PlaylistExport) string {
	if len(export.Videos) == 0 {
		return ""
	}
	return export.Videos[0].Thumbnail
}
