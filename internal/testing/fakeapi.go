package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/vidx/internal/models"
)

// FakeToken is the bearer token [FakeAPI] accepts.
const FakeToken = "fake-token"

// FakeAPI is an in-memory stand-in for the platform's REST API.
//
// Routes live under /api. Mutating routes require "Authorization: Bearer [FakeToken]".
type FakeAPI struct {
	Server *httptest.Server

	mu            sync.Mutex
	Videos        map[models.ID]*models.Video
	Comments      map[models.ID][]models.Comment
	Playlists     []*models.Playlist
	Subscriptions map[models.ID]bool
	Categories    []models.Category
	User          models.User

	// Failures maps "METHOD /api/path/" to a status code returned instead of the real handler.
	Failures map[string]int
	// Envelope wraps list responses in the named field; empty returns bare arrays.
	Envelope string
	// NoPlaylistVideos makes GET /api/playlists/{id}/videos/ unavailable.
	NoPlaylistVideos bool
	// NoSubscriptionCheck makes GET /api/subscriptions/check/{id}/ unavailable.
	NoSubscriptionCheck bool

	calls  []string
	nextID models.ID
}

// NewFakeAPI starts a [FakeAPI] seeded with two videos, one playlist and one category.
// The server is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		Videos: map[models.ID]*models.Video{
			1: {ID: 1, Title: "First Upload", Uploader: models.User{ID: 10, Username: "maker"}, Views: 3, Reactable: models.Reactable{TotalLikes: 5, TotalDislikes: 3, IsDisliked: true}, CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
			2: {ID: 2, Title: "Second Upload", Uploader: models.User{ID: 11, Username: "other"}, CreatedAt: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
		},
		Comments:      map[models.ID][]models.Comment{},
		Playlists:     []*models.Playlist{{ID: 100, Name: "Watch Later", Videos: []models.VideoRef{{ID: 2}}}},
		Subscriptions: map[models.ID]bool{},
		Categories:    []models.Category{{ID: 1, Name: "Music"}},
		User:          models.User{ID: 42, Username: "viewer"},
		Failures:      map[string]int{},
		nextID:        1000,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/{$}", f.login)
	mux.HandleFunc("POST /api/auth/register/{$}", f.login)
	mux.HandleFunc("GET /api/videos/{$}", f.listVideos)
	mux.HandleFunc("POST /api/videos/{$}", f.authed(f.uploadVideo))
	mux.HandleFunc("GET /api/videos/{id}/{$}", f.getVideo)
	mux.HandleFunc("POST /api/videos/{id}/like/{$}", f.authed(f.react(true)))
	mux.HandleFunc("POST /api/videos/{id}/dislike/{$}", f.authed(f.react(false)))
	mux.HandleFunc("POST /api/videos/{id}/add_view/{$}", f.authed(f.addView))
	mux.HandleFunc("GET /api/videos/{id}/comments/{$}", f.listComments)
	mux.HandleFunc("POST /api/videos/{id}/comments/{$}", f.authed(f.postComment))
	mux.HandleFunc("GET /api/playlists/{$}", f.authed(f.listPlaylists))
	mux.HandleFunc("POST /api/playlists/{$}", f.authed(f.createPlaylist))
	mux.HandleFunc("GET /api/playlists/{id}/videos/{$}", f.authed(f.playlistVideos))
	mux.HandleFunc("POST /api/playlists/{id}/videos/{$}", f.authed(f.changeMembership))
	mux.HandleFunc("GET /api/subscriptions/{$}", f.authed(f.listSubscriptions))
	mux.HandleFunc("POST /api/subscriptions/subscribe/{$}", f.authed(f.subscribe))
	mux.HandleFunc("GET /api/subscriptions/check/{id}/{$}", f.authed(f.checkSubscription))
	mux.HandleFunc("GET /api/categories/{$}", f.listCategories)

	f.Server = httptest.NewServer(f.intercept(mux))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the API root to configure a client with.
func (f *FakeAPI) BaseURL() string {
	return f.Server.URL + "/api"
}

// Fail makes "METHOD path" answer with status until cleared. path excludes the /api prefix.
func (f *FakeAPI) Fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Failures[method+" /api"+path] = status
}

// Update mutates the fake's state under its lock.
func (f *FakeAPI) Update(fn func(f *FakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// Clear removes an injected failure.
func (f *FakeAPI) Clear(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Failures, method+" /api"+path)
}

// Calls returns every request received as "METHOD /api/path/".
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount counts received requests matching "METHOD /api/path/".
func (f *FakeAPI) CallCount(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *FakeAPI) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		f.mu.Lock()
		f.calls = append(f.calls, key)
		status, failing := f.Failures[key]
		f.mu.Unlock()

		if failing {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+FakeToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *FakeAPI) writeList(w http.ResponseWriter, items any) {
	if f.Envelope == "" {
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{f.Envelope: items})
}

func pathID(r *http.Request) (models.ID, error) {
	return models.ParseID(r.PathValue("id"))
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != "secret" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"non_field_errors": []string{"Unable to log in with provided credentials."}})
		return
	}
	f.mu.Lock()
	user := f.User
	f.mu.Unlock()
	user.Username = creds.Username
	writeJSON(w, http.StatusOK, map[string]any{"token": FakeToken, "user": user})
}

func (f *FakeAPI) listVideos(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	search := strings.ToLower(r.URL.Query().Get("search"))
	var videos []models.Video
	for id := models.ID(0); id <= f.nextID; id++ {
		if v, ok := f.Videos[id]; ok && strings.Contains(strings.ToLower(v.Title), search) {
			videos = append(videos, *v)
		}
	}
	if r.URL.Query().Get("ordering") == "-created_at" {
		for i, j := 0, len(videos)-1; i < j; i, j = i+1, j-1 {
			videos[i], videos[j] = videos[j], videos[i]
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(videos), "results": videos})
}

func (f *FakeAPI) getVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Videos[id]
	if err != nil || !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (f *FakeAPI) react(like bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r)
		f.mu.Lock()
		defer f.mu.Unlock()
		v, ok := f.Videos[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}

		if like {
			if v.IsLiked {
				v.IsLiked, v.TotalLikes = false, v.TotalLikes-1
			} else {
				v.IsLiked, v.TotalLikes = true, v.TotalLikes+1
				if v.IsDisliked {
					v.IsDisliked, v.TotalDislikes = false, v.TotalDislikes-1
				}
			}
		} else {
			if v.IsDisliked {
				v.IsDisliked, v.TotalDislikes = false, v.TotalDislikes-1
			} else {
				v.IsDisliked, v.TotalDislikes = true, v.TotalDislikes+1
				if v.IsLiked {
					v.IsLiked, v.TotalLikes = false, v.TotalLikes-1
				}
			}
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func (f *FakeAPI) addView(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.Videos[id]; ok {
		v.Views++
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (f *FakeAPI) uploadVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if _, _, err := r.FormFile("video_file"); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"video_file": []string{"This field is required."}})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v := &models.Video{ID: f.nextID, Title: r.FormValue("title"), Description: r.FormValue("description"), Uploader: f.User, CreatedAt: time.Now().UTC()}
	f.Videos[v.ID] = v
	writeJSON(w, http.StatusCreated, v)
}

func (f *FakeAPI) listComments(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	comments := f.Comments[id]
	if comments == nil {
		comments = []models.Comment{}
	}
	f.writeList(w, comments)
}

func (f *FakeAPI) postComment(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var body struct {
		Content string     `json:"content"`
		Parent  *models.ID `json:"parent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"content": []string{"This field may not be blank."}})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user := f.User
	c := models.Comment{ID: f.nextID, User: &user, Content: body.Content, Parent: body.Parent, CreatedAt: time.Now().UTC()}

	if body.Parent == nil {
		f.Comments[id] = append([]models.Comment{c}, f.Comments[id]...)
	} else {
		for i := range f.Comments[id] {
			if f.Comments[id][i].ID == *body.Parent {
				f.Comments[id][i].Replies = append(f.Comments[id][i].Replies, c)
			}
		}
	}
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) findPlaylist(id models.ID) *models.Playlist {
	for _, p := range f.Playlists {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *FakeAPI) listPlaylists(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	playlists := make([]models.Playlist, 0, len(f.Playlists))
	for _, p := range f.Playlists {
		playlists = append(playlists, *p)
	}
	f.writeList(w, playlists)
}

func (f *FakeAPI) createPlaylist(w http.ResponseWriter, r *http.Request) {
	var p models.Playlist
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"name": []string{"This field is required."}})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.Playlists = append(f.Playlists, &p)
	writeJSON(w, http.StatusCreated, p)
}

func (f *FakeAPI) playlistVideos(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NoPlaylistVideos {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	p := f.findPlaylist(id)
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	videos := make([]models.Video, 0, len(p.Videos))
	for _, ref := range p.Videos {
		if v, ok := f.Videos[ref.ID]; ok {
			videos = append(videos, *v)
		} else {
			videos = append(videos, models.Video{ID: ref.ID})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
}

func (f *FakeAPI) changeMembership(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var body struct {
		VideoID models.ID `json:"video_id"`
		Action  string    `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.findPlaylist(id)
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}

	kept := p.Videos[:0]
	for _, ref := range p.Videos {
		if ref.ID != body.VideoID {
			kept = append(kept, ref)
		}
	}
	p.Videos = kept

	switch body.Action {
	case "add":
		p.Videos = append(p.Videos, models.VideoRef{ID: body.VideoID})
	case "remove":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": fmt.Sprintf("unknown action %q", body.Action)})
		return
	}
	p.VideosCount = len(p.Videos)
	writeJSON(w, http.StatusOK, p)
}

func (f *FakeAPI) listSubscriptions(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := []models.Subscription{}
	for id := models.ID(0); id <= f.nextID; id++ {
		if f.Subscriptions[id] {
			subs = append(subs, models.Subscription{ID: id, Channel: models.User{ID: id}})
		}
	}
	f.writeList(w, subs)
}

func (f *FakeAPI) subscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChannelID models.ID `json:"channel_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Subscriptions[body.ChannelID] = true
	writeJSON(w, http.StatusCreated, map[string]any{"channel_id": body.ChannelID})
}

func (f *FakeAPI) checkSubscription(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.NoSubscriptionCheck {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_subscribed": f.Subscriptions[id]})
}

func (f *FakeAPI) listCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeList(w, f.Categories)
}
