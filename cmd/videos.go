package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/reactions"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// VideoList prints one page of the video listing.
func (r *Runner) VideoList(ctx context.Context, cmd *cli.Command) error {
	q := services.VideoQuery{
		Ordering: cmd.String("ordering"),
		Search:   cmd.String("search"),
		PageSize: cmd.Int("limit"),
	}
	if raw := cmd.String("category"); raw != "" {
		id, err := models.ParseID(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		q.Category = id
	}

	videos, err := r.client.Videos(ctx, q)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, cmd.Bool("pretty"))
	}

	r.writePlain("Videos: %d\n\n", len(videos))
	for _, v := range videos {
		r.writePlain("%5d  %s\n", v.ID, v.Title)
		r.writePlain("       %s • %d views • ▲ %d ▼ %d\n", uploaderName(v), v.Views, v.TotalLikes, v.TotalDislikes)
	}
	return nil
}

// VideoShow fetches one video and records a view when signed in.
func (r *Runner) VideoShow(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	video, err := r.client.Video(ctx, id)
	if err != nil {
		return err
	}
	r.reactions.Seed(video.ID, video.Reactable)

	if r.client.Session().Authenticated() {
		if err := r.client.AddView(ctx, video.ID); err != nil {
			r.logger.Warn("failed to record view", "video", video.ID, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(video, cmd.Bool("pretty"))
	}

	r.writePlainHeader(video.Title)
	r.writePlain("Uploader: %s\n", uploaderName(*video))
	r.writePlain("Views: %d\n", video.Views)
	if video.Duration > 0 {
		r.writePlain("Duration: %s\n", shared.FormatDuration(int(video.Duration)))
	}
	if !video.CreatedAt.IsZero() {
		r.writePlain("Uploaded: %s\n", video.CreatedAt.Format("Jan 2, 2006"))
	}
	r.writePlain("Reactions: ▲ %d ▼ %d (%s)\n", video.TotalLikes, video.TotalDislikes, reactions.StateOf(video.Reactable))
	if description := formatter.PlainText(video.Description); description != "" {
		r.writePlainln("%s", description)
	}
	return nil
}

// VideoLike toggles a like.
func (r *Runner) VideoLike(ctx context.Context, cmd *cli.Command) error {
	return r.toggleReaction(ctx, cmd, reactions.ToggleLike)
}

// VideoDislike toggles a dislike.
func (r *Runner) VideoDislike(ctx context.Context, cmd *cli.Command) error {
	return r.toggleReaction(ctx, cmd, reactions.ToggleDislike)
}

// toggleReaction seeds the engine from the canonical video and runs one toggle through it.
func (r *Runner) toggleReaction(ctx context.Context, cmd *cli.Command, action reactions.Action) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.Session().Require(); err != nil {
		return err
	}

	video, err := r.client.Video(ctx, id)
	if err != nil {
		return err
	}
	r.reactions.Seed(video.ID, video.Reactable)

	state, err := r.reactions.Toggle(ctx, video.ID, action)
	if err != nil {
		r.writePlain("✗ Could not save %s, current counts: ▲ %d ▼ %d\n", action, state.TotalLikes, state.TotalDislikes)
		return err
	}

	return r.writePlain("✓ %s: ▲ %d ▼ %d (%s)\n", video.Title, state.TotalLikes, state.TotalDislikes, reactions.StateOf(state))
}

// VideoView records a view.
func (r *Runner) VideoView(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.client.AddView(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ View recorded for video %d\n", id)
}

// VideoOpen opens the web watch page.
func (r *Runner) VideoOpen(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}

	url := shared.WatchURL(r.config.API.WebURL, int64(id))
	if err := shared.OpenBrowser(url); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		return r.writePlain("Please open this URL in your browser:\n%s\n", url)
	}
	return r.writePlain("→ Opened %s\n", url)
}

// VideoUpload sends a multipart upload.
func (r *Runner) VideoUpload(ctx context.Context, cmd *cli.Command) error {
	upload := services.Upload{
		Title:         cmd.String("title"),
		Description:   cmd.String("description"),
		VideoPath:     cmd.String("file"),
		ThumbnailPath: cmd.String("thumbnail"),
	}
	if raw := cmd.String("category"); raw != "" {
		id, err := models.ParseID(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		upload.Category = id
	}

	r.logger.Info("uploading video", "title", upload.Title, "file", upload.VideoPath)

	video, err := r.client.UploadVideo(ctx, upload)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(video, true)
	}
	return r.writePlain("✓ Uploaded %q as video %d\n", video.Title, video.ID)
}

// CategoryList prints the upload categories.
func (r *Runner) CategoryList(ctx context.Context, cmd *cli.Command) error {
	categories, err := r.client.Categories(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, cmd.Bool("pretty"))
	}

	for _, c := range categories {
		r.writePlain("%5d  %s\n", c.ID, c.Name)
	}
	return nil
}

func uploaderName(v models.Video) string {
	if v.Uploader.Username == "" {
		return "Unknown"
	}
	return v.Uploader.Username
}
