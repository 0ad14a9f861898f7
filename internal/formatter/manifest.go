package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/vidx/internal/shared"
)

// ExportResult is the outcome of exporting one playlist in a bulk run.
type ExportResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	Results           []ExportResult
	OutputDirectory   string
	ManifestPath      string
}

// ExportManifest is the JSON document written alongside a bulk export.
type ExportManifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalPlaylists    int             `json:"total_playlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Playlists         []ManifestEntry `json:"playlists"`
}

// ManifestEntry is one playlist row of an [ExportManifest].
type ManifestEntry struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Files  []string `json:"files,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// NewManifest builds the manifest document for a bulk export result.
func NewManifest(result *BulkExportResult, format string) ExportManifest {
	manifest := ExportManifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalPlaylists:    result.TotalPlaylists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Playlists:         make([]ManifestEntry, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		entry := ManifestEntry{
			ID:     res.PlaylistID,
			Name:   res.PlaylistName,
			Status: "success",
			Files:  res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		manifest.Playlists = append(manifest.Playlists, entry)
	}
	return manifest
}

// WriteBulkExportManifest writes the manifest for result to path.
func WriteBulkExportManifest(result *BulkExportResult, format, path string) error {
	if result == nil {
		return fmt.Errorf("%w: nil export result", shared.ErrInvalidInput)
	}

	data, err := shared.MarshalJSON(NewManifest(result, format), true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
