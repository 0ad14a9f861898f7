package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/playlists"
	"github.com/desertthunder/vidx/internal/reactions"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/desertthunder/vidx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SessionStore persists the bearer token between runs.
type SessionStore interface {
	Current(baseURL string) (*models.Session, error)
	Create(session *models.Session) error
	Invalidate(baseURL string) (int64, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config        *shared.Config
	configPath    string
	client        *services.Client
	sessions      SessionStore
	reactions     *reactions.Engine
	subscriptions *reactions.Subscriptions
	tracker       *playlists.Tracker
	engine        *tasks.Engine
	logger        *log.Logger
	output        io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Sessions   SessionStore
	Transport  http.RoundTripper
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// The stored session for the configured API is restored, and any later invalidation (logout, login, or a 401)
// also removes it from the store.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	session := services.NewSession("", models.User{})
	client := services.NewClient(services.ClientOpts{
		BaseURL:   opts.Config.API.BaseURL,
		Timeout:   opts.Config.API.Timeout(),
		RateLimit: opts.Config.API.RateLimit,
		Burst:     opts.Config.API.Burst,
		PageSize:  opts.Config.API.PageSize,
		Session:   session,
		Transport: opts.Transport,
		Logger:    opts.Logger,
	})

	r := &Runner{
		config:        opts.Config,
		configPath:    opts.ConfigPath,
		client:        client,
		sessions:      opts.Sessions,
		reactions:     reactions.NewEngine(client, session, opts.Logger),
		subscriptions: reactions.NewSubscriptions(client, session, opts.Logger),
		tracker:       playlists.NewTracker(client, opts.Logger),
		engine:        tasks.NewEngine(client, client, opts.Logger),
		logger:        opts.Logger,
		output:        opts.Output,
	}
	r.restoreSession()
	return r
}

func (r *Runner) restoreSession() {
	if r.sessions == nil {
		return
	}
	baseURL := r.client.BaseURL()

	if stored, err := r.sessions.Current(baseURL); err == nil {
		r.client.Session().Set(stored.Token, models.User{ID: stored.UserID, Username: stored.Username})
		r.logger.Debug("restored session", "user", stored.Username, "base_url", baseURL)
	} else {
		r.logger.Debug("no stored session", "error", err)
	}

	r.client.Session().OnInvalidate(func() {
		if n, err := r.sessions.Invalidate(baseURL); err != nil {
			r.logger.Warn("failed to clear stored session", "error", err)
		} else if n > 0 {
			r.logger.Debug("cleared stored session", "count", n)
		}
	})
}

// persistSession stores the client's current token for later runs.
func (r *Runner) persistSession() error {
	if r.sessions == nil {
		r.logger.Warn("no session store configured, sign-in lasts for this run only")
		return nil
	}
	token, err := r.client.Session().Token()
	if err != nil {
		return err
	}
	user := r.client.Session().User()
	return r.sessions.Create(&models.Session{
		Token:    token.AccessToken,
		UserID:   user.ID,
		Username: user.Username,
		BaseURL:  r.client.BaseURL(),
	})
}

// SetLogger replaces the runner's logger, e.g. to send output to a file while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, videoCommand, commentCommand, playlistCommand,
		subscriptionCommand, categoryCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// idArg parses a positional id argument.
func idArg(cmd *cli.Command, name string) (models.ID, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := models.ParseID(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return id, nil
}
