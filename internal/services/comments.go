package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/normalize"
)

// Comments lists a video's comments. Replies may arrive nested under their root or flat with a parent id.
//
// Calls GET /videos/{id}/comments/.
func (c *Client) Comments(ctx context.Context, videoID models.ID) ([]models.Comment, error) {
	data, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/videos/%d/comments/", videoID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	return normalize.List[models.Comment](c.normalizer, data, "comments"), nil
}

// PostComment submits a root comment (parent nil) or a reply.
//
// Calls POST /videos/{id}/comments/ with {content, parent}.
func (c *Client) PostComment(ctx context.Context, videoID models.ID, content string, parent *models.ID) (*models.Comment, error) {
	payload := struct {
		Content string     `json:"content"`
		Parent  *models.ID `json:"parent"`
	}{content, parent}

	var comment models.Comment
	if err := c.postJSON(ctx, fmt.Sprintf("/videos/%d/comments/", videoID), payload, &comment); err != nil {
		return nil, err
	}
	if comment.Content == "" {
		comment.Content = content
	}
	if comment.Parent == nil && parent != nil {
		p := *parent
		comment.Parent = &p
	}
	return &comment, nil
}
