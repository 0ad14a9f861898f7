package services

import (
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/vidx/internal/shared"
)

// sessionTransport attaches the session's bearer token and invalidates the session on 401.
type sessionTransport struct {
	session *Session
	base    http.RoundTripper
	authed  http.RoundTripper
	logger  *log.Logger
}

func newSessionTransport(session *Session, base http.RoundTripper, logger *log.Logger) *sessionTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &sessionTransport{
		session: session,
		base:    base,
		authed:  &oauth2.Transport{Source: session, Base: base},
		logger:  logger,
	}
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", shared.GenerateID())
	}

	rt := t.base
	authenticated := t.session.Authenticated()
	if authenticated {
		rt = t.authed
	}

	resp, err := rt.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		t.logger.Warn("session rejected, signing out", "method", req.Method, "path", req.URL.Path)
		t.session.Invalidate()
	}
	return resp, nil
}
