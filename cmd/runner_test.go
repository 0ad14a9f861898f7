package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/repositories"
	"github.com/desertthunder/vidx/internal/shared"
	tu "github.com/desertthunder/vidx/internal/testing"
	"github.com/urfave/cli/v3"
)

type memStore struct {
	mu          sync.Mutex
	sessions    []*models.Session
	invalidated int
}

func (m *memStore) Current(baseURL string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sessions) - 1; i >= 0; i-- {
		if m.sessions[i].BaseURL == baseURL && m.sessions[i].DeletedAt == nil {
			return m.sessions[i], nil
		}
	}
	return nil, shared.ErrNotAuthenticated
}

func (m *memStore) Create(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *memStore) Invalidate(baseURL string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.sessions {
		if s.BaseURL == baseURL && s.DeletedAt == nil {
			now := time.Now()
			s.DeletedAt = &now
			n++
		}
	}
	m.invalidated++
	return n, nil
}

func newTestRunner(t *testing.T, api *tu.FakeAPI, store SessionStore) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := shared.DefaultConfig()
	config.API.BaseURL = api.BaseURL()
	config.API.RateLimit = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:   config,
		Sessions: store,
		Logger:   log.New(io.Discard),
		Output:   output,
	})
	return runner, output
}

// signedIn returns a runner whose store already holds a session for the fake API.
func signedIn(t *testing.T, api *tu.FakeAPI) (*Runner, *bytes.Buffer, *memStore) {
	t.Helper()
	store := &memStore{}
	store.Create(&models.Session{Token: tu.FakeToken, UserID: 42, Username: "viewer", BaseURL: api.BaseURL()})
	runner, output := newTestRunner(t, api, store)
	return runner, output, store
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "vidx", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"vidx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := &memStore{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Sessions:   store,
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.sessions != store {
				t.Error("expected session store to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.client == nil || runner.reactions == nil || runner.subscriptions == nil || runner.tracker == nil || runner.engine == nil {
				t.Error("expected client and engines to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.client.BaseURL() != "http://localhost:8000/api" {
				t.Errorf("expected default base URL, got %s", runner.client.BaseURL())
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("restores stored session", func(t *testing.T) {
			api := tu.NewFakeAPI(t)
			runner, _, store := signedIn(t, api)

			session := runner.client.Session()
			if !session.Authenticated() || session.User().Username != "viewer" {
				t.Fatalf("expected restored session, got %+v", session.User())
			}

			session.Invalidate()
			if store.invalidated != 1 {
				t.Errorf("expected invalidation to reach the store, got %d", store.invalidated)
			}
			if _, err := store.Current(api.BaseURL()); err == nil {
				t.Error("expected stored session to be removed")
			}
		})

		t.Run("ignores sessions for other hosts", func(t *testing.T) {
			api := tu.NewFakeAPI(t)
			store := &memStore{}
			store.Create(&models.Session{Token: "other", BaseURL: "http://elsewhere/api"})

			runner, _ := newTestRunner(t, api, store)
			if runner.client.Session().Authenticated() {
				t.Error("expected no session for this base URL")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, name := range []string{"setup", "auth", "video", "comment", "playlist", "subscription", "category", "api", "tui"} {
			if !names[name] {
				t.Errorf("expected %s command to be registered", name)
			}
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Login Stores Session", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		store := &memStore{}
		runner, output := newTestRunner(t, api, store)

		if err := run(runner, "auth", "login", "--username", "viewer", "--password", "secret"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		stored, err := store.Current(api.BaseURL())
		if err != nil {
			t.Fatalf("expected stored session: %v", err)
		}
		if stored.Token != tu.FakeToken || stored.Username != "viewer" {
			t.Errorf("unexpected stored session %+v", stored)
		}
		if !strings.Contains(output.String(), "Signed in as viewer") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Login With SQLite Store", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		shared.ConfigureDatabase(db, 1, 1)
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}
		repo := repositories.NewSessionRepository(db)

		runner, _ := newTestRunner(t, api, repo)
		if err := run(runner, "auth", "login", "-u", "viewer", "-p", "secret"); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		restored, _ := newTestRunner(t, api, repo)
		if !restored.client.Session().Authenticated() {
			t.Fatal("expected a new runner to restore the stored session")
		}

		if err := run(restored, "auth", "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if _, err := repo.Current(api.BaseURL()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected logout to clear the stored session, got %v", err)
		}
	})

	t.Run("Login Failure", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		store := &memStore{}
		runner, _ := newTestRunner(t, api, store)

		err := run(runner, "auth", "login", "--username", "viewer", "--password", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if len(store.sessions) != 0 {
			t.Error("expected nothing stored")
		}
	})

	t.Run("Status", func(t *testing.T) {
		api := tu.NewFakeAPI(t)

		anonymous, output := newTestRunner(t, api, &memStore{})
		if err := run(anonymous, "auth", "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Not authenticated") {
			t.Errorf("unexpected output %q", output.String())
		}

		runner, output, _ := signedIn(t, api)
		if err := run(runner, "auth", "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output.String(), "Signed in as viewer") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Import From cURL", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		store := &memStore{}
		runner, _ := newTestRunner(t, api, store)

		curl := `curl '` + api.BaseURL() + `/playlists/' -H 'Accept: application/json' -H 'Authorization: Bearer ` + tu.FakeToken + `'`
		if err := run(runner, "auth", "import", "--curl", curl, "-u", "viewer"); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !runner.client.Session().Authenticated() {
			t.Error("expected imported token to sign in")
		}
		if stored, err := store.Current(api.BaseURL()); err != nil || stored.Token != tu.FakeToken {
			t.Errorf("expected imported token to be stored, got %+v %v", stored, err)
		}
	})

	t.Run("Import Requires Input", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, _ := newTestRunner(t, api, &memStore{})

		if err := run(runner, "auth", "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestVideoCommands(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output := newTestRunner(t, api, nil)

		if err := run(runner, "video", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		out := output.String()
		if strings.Index(out, "Second Upload") > strings.Index(out, "First Upload") {
			t.Errorf("expected newest first, got %q", out)
		}
	})

	t.Run("Show Records View", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "video", "show", "1"); err != nil {
			t.Fatalf("show failed: %v", err)
		}
		if !strings.Contains(output.String(), "First Upload") {
			t.Errorf("unexpected output %q", output.String())
		}
		if api.CallCount("POST /api/videos/1/add_view/") != 1 {
			t.Error("expected a view to be recorded")
		}
	})

	t.Run("Show Prints Description Verbatim", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		api.Update(func(f *tu.FakeAPI) { f.Videos[1].Description = "100% fun, 50%s off" })
		runner, output := newTestRunner(t, api, nil)

		if err := run(runner, "video", "show", "1"); err != nil {
			t.Fatalf("show failed: %v", err)
		}
		if !strings.Contains(output.String(), "100% fun, 50%s off") {
			t.Errorf("expected description unchanged, got %q", output.String())
		}
		if strings.Contains(output.String(), "MISSING") {
			t.Errorf("description was used as a format string: %q", output.String())
		}
	})

	t.Run("Like", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "video", "like", "1"); err != nil {
			t.Fatalf("like failed: %v", err)
		}
		if !strings.Contains(output.String(), "▲ 6 ▼ 2") {
			t.Errorf("unexpected output %q", output.String())
		}

		var liked bool
		api.Update(func(f *tu.FakeAPI) { liked = f.Videos[1].IsLiked })
		if !liked {
			t.Error("expected the server to record the like")
		}
	})

	t.Run("Like Failure Restores Counts", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		api.Fail("POST", "/videos/1/like/", 500)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "video", "like", "1"); err == nil {
			t.Fatal("expected like to fail")
		}
		if !strings.Contains(output.String(), "▲ 5 ▼ 3") {
			t.Errorf("expected canonical counts after rollback, got %q", output.String())
		}
	})

	t.Run("Like Requires Session", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, _ := newTestRunner(t, api, nil)

		err := run(runner, "video", "like", "1")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if api.CallCount("POST /api/videos/1/like/") != 0 {
			t.Error("expected no network call")
		}
	})

	t.Run("Invalid ID", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, _ := newTestRunner(t, api, nil)

		if err := run(runner, "video", "show", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Categories", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output := newTestRunner(t, api, nil)

		if err := run(runner, "category", "list"); err != nil {
			t.Fatalf("category list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Music") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestCommentCommands(t *testing.T) {
	api := tu.NewFakeAPI(t)
	runner, output, _ := signedIn(t, api)

	if err := run(runner, "comment", "add", "1", "  Nice <b>work</b>  "); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var rootID models.ID
	api.Update(func(f *tu.FakeAPI) { rootID = f.Comments[1][0].ID })

	if err := run(runner, "comment", "reply", "1", rootID.String(), "Thanks"); err != nil {
		t.Fatalf("reply failed: %v", err)
	}

	var replyID models.ID
	api.Update(func(f *tu.FakeAPI) { replyID = f.Comments[1][0].Replies[0].ID })

	if err := run(runner, "comment", "reply", "1", replyID.String(), "Nested"); err != nil {
		t.Fatalf("reply to reply failed: %v", err)
	}

	output.Reset()
	if err := run(runner, "comment", "list", "1"); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	out := output.String()
	for _, want := range []string{"Comments (1)", "Nice work", "↳", "Thanks", "Nested"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}

	if err := run(runner, "comment", "add", "1", "   "); !errors.Is(err, shared.ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestPlaylistCommands(t *testing.T) {
	t.Run("Toggle", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "playlist", "toggle", "100", "1"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if !strings.Contains(output.String(), "Added video 1 to playlist 100") {
			t.Errorf("unexpected output %q", output.String())
		}

		if err := run(runner, "playlist", "toggle", "100", "2"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if !strings.Contains(output.String(), "Removed video 2 from playlist 100") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Check", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "playlist", "check", "2"); err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if !strings.Contains(output.String(), "[x] Watch Later") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Create", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "playlist", "create", "Road Trip", "--public", "--video", "1"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if !strings.Contains(output.String(), `Created playlist "Road Trip"`) || !strings.Contains(output.String(), "Added video 1") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Export Single", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, _, _ := signedIn(t, api)
		dir := t.TempDir()

		if err := run(runner, "playlist", "export", "--format", "csv", "--output", dir, "100"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		content := tu.MustReadFile(t, filepath.Join(dir, "100_videos.csv"))
		if !strings.Contains(content, "Second Upload") {
			t.Errorf("unexpected CSV %q", content)
		}
	})

	t.Run("Export All", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)
		dir := filepath.Join(t.TempDir(), "exports")

		if err := run(runner, "playlist", "export", "--all", "--output", dir); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "100.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(output.String(), "Success: 1/1") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Export Rejects Unknown Format", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, _, _ := signedIn(t, api)

		if err := run(runner, "playlist", "export", "--format", "xml", "100"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestSubscriptionCommands(t *testing.T) {
	api := tu.NewFakeAPI(t)
	runner, output, _ := signedIn(t, api)

	if err := run(runner, "subscription", "toggle", "10"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(output.String(), "Subscribed to channel 10") {
		t.Errorf("unexpected output %q", output.String())
	}

	output.Reset()
	if err := run(runner, "subscription", "status", "10"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(output.String(), "✓ Subscribed") {
		t.Errorf("unexpected output %q", output.String())
	}

	output.Reset()
	if err := run(runner, "subscription", "toggle", "42"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(output.String(), "This is your channel") {
		t.Errorf("unexpected output %q", output.String())
	}
}

func TestAPICommands(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output := newTestRunner(t, api, nil)

		if err := run(runner, "api", "get", "/categories/"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !strings.Contains(output.String(), "Music") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("Post Rejects Invalid JSON", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, _ := newTestRunner(t, api, nil)

		if err := run(runner, "api", "post", "/videos/1/like/", "--data", "{"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Dump", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		runner, output, _ := signedIn(t, api)

		if err := run(runner, "api", "dump"); err != nil {
			t.Fatalf("dump failed: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, `"summaries"`) || !strings.Contains(out, `"paginated"`) {
			t.Errorf("unexpected dump %q", out)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("Config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		runner, _ := newTestRunner(t, tu.NewFakeAPI(t), nil)

		if err := run(runner, "setup", "config", "--output", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected a loadable config, got %v", err)
		}
		if err := run(runner, "setup", "config", "--output", path); err == nil {
			t.Error("expected an error when the file exists")
		}
	})

	t.Run("Database", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustChdir(t, dir)
		runner, _ := newTestRunner(t, tu.NewFakeAPI(t), nil)

		if err := run(runner, "setup", "database"); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, filepath.Join(dir, "vidx.db"))
	})
}
