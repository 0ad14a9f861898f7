package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	th "github.com/desertthunder/vidx/internal/testing"
)

func testExport() *models.PlaylistExport {
	created := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	return &models.PlaylistExport{
		Playlist: models.Playlist{
			ID:          123,
			Name:        "Test Playlist",
			Description: "A <b>test</b> playlist",
			IsPublic:    true,
			Videos:      []models.VideoRef{{ID: 1, Title: "Clip One"}, {ID: 2, Title: "Clip Two"}},
		},
		Videos: []models.Video{
			{
				ID:        1,
				Title:     "Clip One",
				Uploader:  models.User{ID: 10, Username: "maker"},
				Views:     42,
				Duration:  180,
				CreatedAt: created,
				Reactable: models.Reactable{TotalLikes: 5, TotalDislikes: 1},
			},
			{
				ID:       2,
				Title:    "Clip Two",
				Duration: 3725,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Uploader,Views,Likes,Dislikes,Duration,Created") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Clip One,maker,42,5,1,3:00,2025-03-14") {
			t.Errorf("CSV missing first video row, got: %s", output)
		}
		if !strings.Contains(output, "2,Clip Two,,0,0,0,1:02:05,") {
			t.Errorf("CSV missing second video row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		export := testExport()

		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(export, "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# Test Playlist") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(output, "**Description**: A test playlist") {
				t.Errorf("Markdown description should be plain text, got: %s", output)
			}
			if !strings.Contains(output, "**Videos**: 2") {
				t.Errorf("Markdown missing video count")
			}
			if !strings.Contains(output, "**Visibility**: Public") {
				t.Errorf("Markdown missing visibility")
			}
			if !strings.Contains(output, "1. Clip One by maker [3:00] (42 views, 5 likes)") {
				t.Errorf("Markdown missing first video, got: %s", output)
			}
			if !strings.Contains(output, "2. Clip Two [1:02:05] (0 views, 0 likes)") {
				t.Errorf("Markdown missing second video, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Errorf("Markdown should not contain a cover without a filename")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(export, "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Playlist: Test Playlist",
			"Description: A test playlist",
			"Videos: 2",
			"1. maker - Clip One",
			"2. Clip Two",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text export missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testExport().Playlist)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("metadata is not valid JSON: %v", err)
		}
		if decoded["name"] != "Test Playlist" {
			t.Errorf("name = %v, want Test Playlist", decoded["name"])
		}
		if decoded["videos_count"] != float64(2) {
			t.Errorf("videos_count = %v, want 2", decoded["videos_count"])
		}
		if _, ok := decoded["videos"]; ok {
			t.Errorf("metadata should not embed videos")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded models.PlaylistExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if decoded.Playlist.ID != 123 || decoded.Playlist.Name != "Test Playlist" {
			t.Errorf("playlist = %+v", decoded.Playlist)
		}
		if len(decoded.Videos) != 2 {
			t.Fatalf("videos = %d, want 2", len(decoded.Videos))
		}
		if decoded.Videos[0].TotalLikes != 5 || decoded.Videos[0].Uploader.Username != "maker" {
			t.Errorf("first video = %+v", decoded.Videos[0])
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage("")
		if err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("BadStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404 response")
		}
	})
}

func TestWriters(t *testing.T) {
	export := testExport()

	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result, err := WriteCSVExport(export, "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.VideosFile != "123_videos.csv" {
				t.Errorf("Expected videos file '123_videos.csv', got '%s'", result.VideosFile)
			}
			if result.MetadataFile != "123_metadata.json" {
				t.Errorf("Expected metadata file '123_metadata.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.VideosFile)
			th.AssertFileExists(t, result.MetadataFile)

			if !strings.Contains(th.MustReadFile(t, result.VideosFile), "Clip One") {
				t.Errorf("CSV missing video data")
			}
			if !strings.Contains(th.MustReadFile(t, result.MetadataFile), `"Test Playlist"`) {
				t.Errorf("Metadata JSON missing playlist name")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result, err := WriteCSVExport(export, "custom_export")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.VideosFile != "custom_export_videos.csv" {
				t.Errorf("Expected 'custom_export_videos.csv', got '%s'", result.VideosFile)
			}
			th.AssertFileExists(t, result.MetadataFile)
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithDefaultDirectory", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result, err := WriteMarkdownExport(export, "", "")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if result.Directory != "123" {
				t.Errorf("Expected directory '123', got '%s'", result.Directory)
			}
			th.AssertDirExists(t, result.Directory)

			readmePath := filepath.Join(result.Directory, "README.md")
			th.AssertFileExists(t, readmePath)
			if !strings.Contains(th.MustReadFile(t, readmePath), "# Test Playlist") {
				t.Errorf("Markdown missing title")
			}
			if result.CoverImage != "" {
				t.Errorf("CoverImage should be empty without an image URL")
			}
		})

		t.Run("WithCoverImage", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpeg-bytes"))
			}))
			defer server.Close()

			result, err := WriteMarkdownExport(export, "with_cover", server.URL)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if len(result.Files) != 2 {
				t.Fatalf("Files = %v, want cover and README", result.Files)
			}
			th.AssertFileExists(t, result.CoverImage)
			if !strings.Contains(th.MustReadFile(t, filepath.Join("with_cover", "README.md")), "![Cover](cover.jpg)") {
				t.Errorf("README should reference the cover")
			}
		})

		t.Run("CoverDownloadFailure", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			result, err := WriteMarkdownExport(export, "no_cover", server.URL)
			if err != nil {
				t.Fatalf("cover failure should not fail the export: %v", err)
			}
			if result.CoverImage != "" || len(result.Files) != 1 {
				t.Errorf("result = %+v, want README only", result)
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		th.MustChdir(t, t.TempDir())

		path, err := WriteTextExport(export, "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if path != "123_videos.txt" {
			t.Errorf("Expected '123_videos.txt', got '%s'", path)
		}
		if !strings.Contains(th.MustReadFile(t, path), "Playlist: Test Playlist") {
			t.Errorf("text file missing playlist header")
		}
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			path, err := WriteJSONExport(export, "")
			if err != nil {
				t.Fatalf("WriteJSONExport failed: %v", err)
			}
			if path != "123.json" {
				t.Errorf("Expected '123.json', got '%s'", path)
			}

			content := th.MustReadFile(t, path)
			if !strings.Contains(content, `"Test Playlist"`) || !strings.Contains(content, `"Clip One"`) {
				t.Errorf("JSON missing playlist data")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			path, err := WriteJSONExport(export, "my_export.json")
			if err != nil {
				t.Fatalf("WriteJSONExport failed: %v", err)
			}
			if path != "my_export.json" {
				t.Errorf("Expected 'my_export.json', got '%s'", path)
			}
			th.AssertFileExists(t, path)
		})
	})

	t.Run("WriteBulkExportManifest", func(t *testing.T) {
		t.Run("SuccessfulExport", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result := &BulkExportResult{
				TotalPlaylists:    2,
				SuccessfulExports: 2,
				Results: []ExportResult{
					{PlaylistID: "100", PlaylistName: "Watch Later", Success: true, Files: []string{"100_videos.csv", "100_metadata.json"}},
					{PlaylistID: "101", PlaylistName: "Favorites", Success: true, Files: []string{"101/README.md"}},
				},
			}

			if err := WriteBulkExportManifest(result, "csv", "manifest.json"); err != nil {
				t.Fatalf("WriteBulkExportManifest failed: %v", err)
			}

			var manifest ExportManifest
			if err := json.Unmarshal([]byte(th.MustReadFile(t, "manifest.json")), &manifest); err != nil {
				t.Fatalf("manifest is not valid JSON: %v", err)
			}
			if manifest.Format != "csv" || manifest.TotalPlaylists != 2 || manifest.SuccessfulExports != 2 {
				t.Errorf("manifest = %+v", manifest)
			}
			if len(manifest.Playlists) != 2 || manifest.Playlists[0].Status != "success" || manifest.Playlists[0].Name != "Watch Later" {
				t.Errorf("playlists = %+v", manifest.Playlists)
			}
		})

		t.Run("WithFailedExports", func(t *testing.T) {
			th.MustChdir(t, t.TempDir())

			result := &BulkExportResult{
				TotalPlaylists:    2,
				SuccessfulExports: 1,
				FailedExports:     1,
				Results: []ExportResult{
					{PlaylistID: "100", PlaylistName: "Watch Later", Success: true, Files: []string{"100.json"}},
					{PlaylistID: "999", PlaylistName: "Unknown (999)", Error: errors.New("playlist not found")},
				},
			}

			if err := WriteBulkExportManifest(result, "markdown", "manifest.json"); err != nil {
				t.Fatalf("WriteBulkExportManifest failed: %v", err)
			}

			content := th.MustReadFile(t, "manifest.json")
			for _, want := range []string{`"format": "markdown"`, `"failed_exports": 1`, `"status": "failed"`, `"playlist not found"`} {
				if !strings.Contains(content, want) {
					t.Errorf("manifest missing %s", want)
				}
			}
		})

		t.Run("NilResult", func(t *testing.T) {
			if err := WriteBulkExportManifest(nil, "json", filepath.Join(t.TempDir(), "m.json")); err == nil {
				t.Error("expected error for nil result")
			}
		})
	})
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "just text", "just text"},
		{"tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"script", `nice<script>alert("x")</script> video`, "nice video"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"whitespace", "line one\n\n  line two", "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"same instant", now, "today"},
		{"an hour ago rounds up", now.Add(-time.Hour), "1 day ago"},
		{"exactly one day", now.Add(-24 * time.Hour), "1 day ago"},
		{"three days", now.Add(-72 * time.Hour), "3 days ago"},
		{"ten days", now.AddDate(0, 0, -10), "1 week ago"},
		{"twenty days", now.AddDate(0, 0, -20), "2 weeks ago"},
		{"older", time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC), "Jan 5, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelative(tt.at, now); got != tt.want {
				t.Errorf("FormatRelative() = %q, want %q", got, tt.want)
			}
		})
	}
}
