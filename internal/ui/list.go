package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidx/internal/formatter"
	"github.com/desertthunder/vidx/internal/models"
)

var (
	_ list.Item = videoItem{}
)

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := fmt.Sprintf("%d views • %d likes", i.video.Views, i.video.TotalLikes)
	if i.video.Uploader.Username != "" {
		desc = fmt.Sprintf("%s • %s", i.video.Uploader.Username, desc)
	}
	return desc
}

func videoItems(videos []models.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		v.Description = formatter.PlainText(v.Description)
		items[i] = videoItem{video: v}
	}
	return items
}
