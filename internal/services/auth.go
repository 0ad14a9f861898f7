package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Credentials are the login fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration are the sign-up fields.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is the token and viewer returned by login or register.
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// UnmarshalJSON accepts "token", "access" or "key" as the token field.
func (a *AuthResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Token  string      `json:"token"`
		Access string      `json:"access"`
		Key    string      `json:"key"`
		User   models.User `json:"user"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.User = raw.User
	for _, tok := range []string{raw.Token, raw.Access, raw.Key} {
		if tok != "" {
			a.Token = tok
			break
		}
	}
	return nil
}

// Login exchanges credentials for a token and stores it in the client's session.
//
// Calls POST /auth/login/.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrValidation)
	}
	return c.authenticate(ctx, "/auth/login/", creds, creds.Username)
}

// Register creates an account and signs in with it.
//
// Calls POST /auth/register/.
func (c *Client) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	if strings.TrimSpace(reg.Username) == "" || reg.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrValidation)
	}
	return c.authenticate(ctx, "/auth/register/", reg, reg.Username)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any, username string) (*AuthResult, error) {
	if c.session.Authenticated() {
		c.session.Invalidate()
	}

	var result AuthResult
	if err := c.postJSON(ctx, path, payload, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: response carried no token", shared.ErrAuthFailed)
	}
	if result.User.Username == "" {
		result.User.Username = username
	}

	c.session.Set(result.Token, result.User)
	return &result, nil
}

// Logout clears the session locally. The API has no logout endpoint.
func (c *Client) Logout() {
	c.session.Invalidate()
}
