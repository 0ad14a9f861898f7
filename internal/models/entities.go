package models

import (
	"time"
)

// User is an account reference as embedded in videos, comments and subscriptions.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Category is an upload category.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Reactable is the like/dislike state carried by a video.
//
// At most one flag is true and both counters stay non-negative.
type Reactable struct {
	IsLiked       bool `json:"is_liked"`
	IsDisliked    bool `json:"is_disliked"`
	TotalLikes    int  `json:"total_likes"`
	TotalDislikes int  `json:"total_dislikes"`
}

// Video is a platform video with its reaction state.
type Video struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Uploader    User      `json:"uploader"`
	Views       int       `json:"views"`
	Duration    float64   `json:"duration,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	VideoFile   string    `json:"video_file,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Reactable
}

// WithReactable returns a copy of v carrying r.
func (v Video) WithReactable(r Reactable) Video {
	v.Reactable = r
	return v
}

// Comment is a root comment or a reply.
//
// Replies never carry replies of their own; Parent is nil for roots.
type Comment struct {
	ID        ID        `json:"id"`
	User      *User     `json:"user,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Parent    *ID       `json:"parent,omitempty"`
	Replies   []Comment `json:"replies,omitempty"`
}

// Author returns the commenter's username, or a placeholder when the API omitted it.
func (c Comment) Author() string {
	if c.User == nil || c.User.Username == "" {
		return "Unknown User"
	}
	return c.User.Username
}

// IsRoot reports whether the comment is top-level.
func (c Comment) IsRoot() bool {
	return c.Parent == nil || *c.Parent == 0
}

// Playlist is a user playlist.
//
// Membership is fetched separately; Videos is the flat embedded field used as a fallback.
type Playlist struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsPublic    bool       `json:"is_public"`
	VideosCount int        `json:"videos_count,omitempty"`
	Videos      []VideoRef `json:"videos,omitempty"`
}

// Count returns videos_count, or the embedded videos length when the count is absent.
func (p Playlist) Count() int {
	if p.VideosCount > 0 {
		return p.VideosCount
	}
	return len(p.Videos)
}

// PlaylistExport represents a playlist with all its videos for export.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Videos   []Video  `json:"videos"`
}

// Subscription is the viewer's subscription to a channel.
type Subscription struct {
	ID        ID        `json:"id"`
	Channel   User      `json:"channel"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
