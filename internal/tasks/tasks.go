package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/normalize"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/shared"
)

// APIClient is the raw request surface used by [Engine.Dump].
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// PlaylistExporter fetches a playlist along with its member videos.
type PlaylistExporter interface {
	ExportPlaylist(ctx context.Context, id models.ID) (*models.PlaylistExport, error)
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// EndpointSummary describes the list envelope an endpoint answered with.
type EndpointSummary struct {
	Envelope string `json:"envelope"`
	Field    string `json:"field,omitempty"`
	Items    int    `json:"items"`
	Count    *int   `json:"count,omitempty"`
}

// DumpResult contains all data fetched from the API.
type DumpResult struct {
	Videos        any                        // Home listing
	Categories    any                        // Upload categories
	Playlists     any                        // Viewer playlists
	Subscriptions any                        // Viewer subscriptions
	Summaries     map[string]EndpointSummary // Envelope shape per endpoint name
	Errors        []EndpointResult           // Failed endpoint fetches
}

// DumpData is the serializable form of a [DumpResult].
type DumpData struct {
	Videos        any                        `json:"videos,omitempty"`
	Categories    any                        `json:"categories,omitempty"`
	Playlists     any                        `json:"playlists,omitempty"`
	Subscriptions any                        `json:"subscriptions,omitempty"`
	Summaries     map[string]EndpointSummary `json:"summaries,omitempty"`
	Errors        []map[string]string        `json:"errors,omitempty"`
}

// Data converts the result for JSON output.
func (r *DumpResult) Data() DumpData {
	data := DumpData{
		Videos:        r.Videos,
		Categories:    r.Categories,
		Playlists:     r.Playlists,
		Subscriptions: r.Subscriptions,
		Summaries:     r.Summaries,
	}
	for _, e := range r.Errors {
		data.Errors = append(data.Errors, map[string]string{"endpoint": e.Endpoint, "error": e.Error.Error()})
	}
	return data
}

type endpointOperation struct {
	name    string
	path    string
	named   []string
	target  *any
	phase   Phase
	message string
}

// Engine runs dumps and bulk exports against the platform API.
type Engine struct {
	api      APIClient
	exporter PlaylistExporter
	logger   *log.Logger
}

// NewEngine creates an Engine. Either dependency may be nil when the matching operation is unused.
func NewEngine(api APIClient, exporter PlaylistExporter, logger *log.Logger) *Engine {
	return &Engine{
		api:      api,
		exporter: exporter,
		logger:   shared.WithLogger(logger, "component", "tasks"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Dump fetches the viewer-visible lists from the API and classifies each envelope.
func (e *Engine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		Summaries: map[string]EndpointSummary{},
		Errors:    []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "videos", path: "/videos/?ordering=-created_at&page_size=20", target: &result.Videos, phase: FetchVideos, message: "Fetching videos..."},
		{name: "categories", path: "/categories/", target: &result.Categories, phase: FetchCategories, message: "Fetching categories..."},
		{name: "playlists", path: "/playlists/", named: []string{"playlists"}, target: &result.Playlists, phase: FetchPlaylists, message: "Fetching playlists..."},
		{name: "subscriptions", path: "/subscriptions/", target: &result.Subscriptions, phase: FetchSubscriptions, message: "Fetching subscriptions..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: endpoint.path, Error: err})
			e.logger.Warn("dump fetch failed", "endpoint", endpoint.path, "error", err)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode),
			})
			continue
		}

		*endpoint.target = resp.JSONData
		if summary, ok := summarize(resp, endpoint.named); ok {
			result.Summaries[endpoint.name] = summary
		} else {
			e.logger.Debug("unrecognized list envelope", "endpoint", endpoint.path)
		}
	}

	return result, nil
}

func summarize(resp *services.APIResponse, named []string) (EndpointSummary, bool) {
	body := resp.Body
	if len(body) == 0 && resp.JSONData != nil {
		var err error
		if body, err = json.Marshal(resp.JSONData); err != nil {
			return EndpointSummary{}, false
		}
	}

	env, err := normalize.Decode(body, named...)
	if err != nil {
		return EndpointSummary{}, false
	}
	return EndpointSummary{
		Envelope: env.Kind.String(),
		Field:    env.Field,
		Items:    len(env.Items),
		Count:    env.Count,
	}, true
}
