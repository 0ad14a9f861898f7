package main

import (
	"context"
	"time"

	"github.com/desertthunder/vidx/internal/comments"
	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/urfave/cli/v3"
)

func (r *Runner) commentStore(ctx context.Context, cmd *cli.Command) (*comments.Store, error) {
	videoID, err := idArg(cmd, "video")
	if err != nil {
		return nil, err
	}
	return comments.NewStore(videoID, r.client, r.client.Session(), r.logger), nil
}

// CommentList prints the comment tree, newest roots first.
func (r *Runner) CommentList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.commentStore(ctx, cmd)
	if err != nil {
		return err
	}
	if err := store.Refresh(ctx); err != nil {
		return err
	}

	roots := store.Roots()
	if cmd.Bool("json") {
		return r.writeJSON(roots, cmd.Bool("pretty"))
	}

	r.writePlain("Comments (%d)\n\n", store.Count())
	if len(roots) == 0 {
		return r.writePlain("No comments yet. Be the first to comment!\n")
	}

	now := time.Now()
	for _, root := range roots {
		r.writePlain("[%d] %s\n", root.ID, r.commentLine(root, now))
		for _, reply := range root.Replies {
			r.writePlain("    ↳ [%d] %s\n", reply.ID, r.commentLine(reply, now))
		}
	}
	return nil
}

func (r *Runner) commentLine(c models.Comment, now time.Time) string {
	line := c.Author()
	if when := formatter.FormatRelative(c.CreatedAt, now); when != "" {
		line += " (" + when + ")"
	}
	return line + ": " + formatter.PlainText(c.Content)
}

// CommentAdd posts a root comment.
func (r *Runner) CommentAdd(ctx context.Context, cmd *cli.Command) error {
	store, err := r.commentStore(ctx, cmd)
	if err != nil {
		return err
	}

	comment, err := store.AddRoot(ctx, cmd.StringArg("content"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Comment %d posted\n", comment.ID)
}

// CommentReply posts a reply. Replying to a reply attaches to the thread's root.
func (r *Runner) CommentReply(ctx context.Context, cmd *cli.Command) error {
	store, err := r.commentStore(ctx, cmd)
	if err != nil {
		return err
	}
	parentID, err := idArg(cmd, "parent")
	if err != nil {
		return err
	}

	if err := r.client.Session().Require(); err != nil {
		return err
	}
	if _, err := comments.Validate(cmd.StringArg("content")); err != nil {
		return err
	}
	if err := store.Refresh(ctx); err != nil {
		return err
	}

	reply, err := store.AddReply(ctx, threadRoot(store.Roots(), parentID), cmd.StringArg("content"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Reply %d posted\n", reply.ID)
}

// threadRoot maps a reply id to the root of its thread. Other ids are returned unchanged.
func threadRoot(roots []models.Comment, id models.ID) models.ID {
	for _, root := range roots {
		for _, reply := range root.Replies {
			if reply.ID == id {
				return root.ID
			}
		}
	}
	return id
}
