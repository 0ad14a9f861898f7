package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/normalize"
	"github.com/desertthunder/vidx/internal/shared"
)

const defaultBaseURL string = "http://localhost:8000/api"

// ClientOpts configures a [Client]. Zero values select defaults.
type ClientOpts struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; zero disables throttling
	Burst     int
	PageSize  int
	Session   *Session
	Transport http.RoundTripper
	Logger    *log.Logger
}

// Client talks to the video platform's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	limiter    *rate.Limiter
	normalizer *normalize.Normalizer
	pageSize   int
	logger     *log.Logger
}

// NewClient creates a [Client] bound to opts.Session.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.Session == nil {
		opts.Session = NewSession("", models.User{})
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := shared.WithLogger(opts.Logger, "component", "api")
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: newSessionTransport(opts.Session, opts.Transport, logger),
		},
		session:    opts.Session,
		limiter:    limiter,
		normalizer: normalize.New(logger),
		pageSize:   opts.PageSize,
		logger:     logger,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the auth context the client sends requests with.
func (c *Client) Session() *Session { return c.session }

// Normalizer returns the envelope normalizer used for list endpoints.
func (c *Client) Normalizer() *normalize.Normalizer { return c.normalizer }

func (c *Client) url(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs a throttled request and returns the raw response with its body fully read.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetworkFailure, err)
	}

	c.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, data, nil
}

// doRequest performs a request and returns the body of a 2xx response, or a [*StatusError].
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	resp, data, err := c.send(ctx, method, path, query, body, contentType)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Detail:     errorDetail(data),
		}
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.doRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	data, err := c.doRequest(ctx, http.MethodPost, path, nil, body, "application/json")
	if err != nil {
		return err
	}
	return decodeBody(data, out)
}

func decodeBody(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// Get performs a GET request to the specified path and returns the raw response.
//
// Non-2xx statuses are returned, not treated as errors.
func (c *Client) Get(ctx context.Context, path string) (*APIResponse, error) {
	path, query := splitQuery(path)
	resp, data, err := c.send(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	return newAPIResponse(resp, data), nil
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	path, query := splitQuery(path)
	resp, body, err := c.send(ctx, http.MethodPost, path, query, bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, err
	}
	return newAPIResponse(resp, body), nil
}

func splitQuery(path string) (string, url.Values) {
	p, rawQuery, found := strings.Cut(path, "?")
	if !found {
		return path, nil
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return path, nil
	}
	return p, query
}

func newAPIResponse(resp *http.Response, body []byte) *APIResponse {
	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}
	return apiResp
}
