package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a token and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := services.Credentials{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	}
	if creds.Password == "" {
		return fmt.Errorf("%w: --password or VIDX_PASSWORD", shared.ErrMissingArgument)
	}

	r.logger.Info("signing in", "username", creds.Username, "base_url", r.client.BaseURL())

	result, err := r.client.Login(ctx, creds)
	if err != nil {
		return err
	}
	return r.finishSignIn(result)
}

// AuthRegister creates an account and stores the new session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := services.Registration{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}
	if reg.Password == "" {
		return fmt.Errorf("%w: --password or VIDX_PASSWORD", shared.ErrMissingArgument)
	}

	r.logger.Info("registering", "username", reg.Username, "base_url", r.client.BaseURL())

	result, err := r.client.Register(ctx, reg)
	if err != nil {
		return err
	}
	return r.finishSignIn(result)
}

func (r *Runner) finishSignIn(result *services.AuthResult) error {
	if err := r.persistSession(); err != nil {
		r.logger.Warn("failed to store session", "error", err)
	}
	r.logger.Info("authentication successful", "user", result.User.Username)
	return r.writePlain("✓ Signed in as %s\n", result.User.Username)
}

// AuthLogout clears the session locally and in the session store.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.client.Session().Authenticated() {
		return r.writePlain("Not signed in\n")
	}
	r.client.Logout()
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the current session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.writePlain("API: %s\n", r.client.BaseURL())

	session := r.client.Session()
	if !session.Authenticated() {
		return r.writePlain("Authentication: ✗ Not authenticated\n")
	}

	user := session.User()
	name := user.Username
	if name == "" {
		name = "(unknown user)"
	}
	return r.writePlain("Authentication: ✓ Signed in as %s\n", name)
}

// AuthImport stores a bearer token taken from a cURL command copied out of browser DevTools.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	token, err := curlHeaders.BearerToken()
	if err != nil {
		return err
	}

	session := r.client.Session()
	session.Invalidate()
	session.Set(token, models.User{Username: strings.TrimSpace(cmd.String("username"))})

	if err := r.persistSession(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	r.logger.Debug("imported bearer token", "length", len(token))
	return r.writePlain("✓ Session imported\n")
}
