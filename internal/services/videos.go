package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/normalize"
	"github.com/desertthunder/vidx/internal/shared"
)

// VideoQuery filters the video listing. Zero values are omitted.
type VideoQuery struct {
	Ordering string
	Search   string
	Category models.ID
	PageSize int
}

// Videos lists a single page of videos.
//
// Calls GET /videos/.
func (c *Client) Videos(ctx context.Context, q VideoQuery) ([]models.Video, error) {
	query := url.Values{}
	if q.Ordering != "" {
		query.Set("ordering", q.Ordering)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != 0 {
		query.Set("category", q.Category.String())
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	query.Set("page_size", strconv.Itoa(pageSize))

	data, err := c.doRequest(ctx, http.MethodGet, "/videos/", query, nil, "")
	if err != nil {
		return nil, err
	}
	return normalize.List[models.Video](c.normalizer, data, "videos"), nil
}

// Video fetches the canonical state of one video.
//
// Calls GET /videos/{id}/.
func (c *Client) Video(ctx context.Context, id models.ID) (*models.Video, error) {
	var video models.Video
	if err := c.getJSON(ctx, fmt.Sprintf("/videos/%d/", id), nil, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// Like toggles the viewer's like on a video.
//
// Calls POST /videos/{id}/like/.
func (c *Client) Like(ctx context.Context, id models.ID) error {
	return c.postJSON(ctx, fmt.Sprintf("/videos/%d/like/", id), nil, nil)
}

// Dislike toggles the viewer's dislike on a video.
//
// Calls POST /videos/{id}/dislike/.
func (c *Client) Dislike(ctx context.Context, id models.ID) error {
	return c.postJSON(ctx, fmt.Sprintf("/videos/%d/dislike/", id), nil, nil)
}

// AddView records a view of a video.
//
// Calls POST /videos/{id}/add_view/.
func (c *Client) AddView(ctx context.Context, id models.ID) error {
	return c.postJSON(ctx, fmt.Sprintf("/videos/%d/add_view/", id), nil, nil)
}

// Categories lists upload categories.
//
// Calls GET /categories/.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/categories/", nil, nil, "")
	if err != nil {
		return nil, err
	}
	return normalize.List[models.Category](c.normalizer, data, "categories"), nil
}

// Upload describes a new video. VideoPath is required; ThumbnailPath is optional.
type Upload struct {
	Title         string
	Description   string
	Category      models.ID
	VideoPath     string
	ThumbnailPath string
}

// Validate checks the required upload fields before any file is read.
func (u Upload) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if u.VideoPath == "" {
		return fmt.Errorf("%w: video file is required", shared.ErrValidation)
	}
	return nil
}

// UploadVideo sends a multipart upload and returns the created video.
//
// Calls POST /videos/.
func (c *Client) UploadVideo(ctx context.Context, u Upload) (*models.Video, error) {
	if err := c.session.Require(); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       strings.TrimSpace(u.Title),
		"description": u.Description,
	}
	if u.Category != 0 {
		fields["category"] = u.Category.String()
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	if err := attachFile(w, "video_file", u.VideoPath); err != nil {
		return nil, err
	}
	if u.ThumbnailPath != "" {
		if err := attachFile(w, "thumbnail", u.ThumbnailPath); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/videos/", nil, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var video models.Video
	if err := decodeBody(data, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

func attachFile(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", field, err)
	}
	return nil
}
