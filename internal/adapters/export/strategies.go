package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"aivideogen/internal/core/domain"
)

// fetchTimeout bounds a single download attempt.
const fetchTimeout = 30 * time.Second

// FetchSaveStrategy downloads the media over HTTP and writes it to disk.
type FetchSaveStrategy struct {
	dir    string
	client *http.Client
}

// NewFetchSaveStrategy creates the strategy saving into dir.
func NewFetchSaveStrategy(dir string) *FetchSaveStrategy {
	return &FetchSaveStrategy{
		dir:    dir,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (s *FetchSaveStrategy) Name() string { return "fetch-and-save" }

// Attempt fetches the media and saves it as ai-video-<epochMillis>.<ext>.
func (s *FetchSaveStrategy) Attempt(ctx context.Context, mediaURL string) (*domain.ExportResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(s.dir, Filename(mediaURL, time.Now()))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	return &domain.ExportResult{
		Outcome:   domain.ExportDownloaded,
		MediaURL:  mediaURL,
		LocalPath: path,
	}, nil
}

// Filename builds the download name ai-video-<epochMillis>.<ext>, taking the
// extension from the URL path and defaulting to mp4.
func Filename(mediaURL string, now time.Time) string {
	ext := "mp4"
	if u, err := url.Parse(mediaURL); err == nil {
		if e := strings.TrimPrefix(filepath.Ext(u.Path), "."); e != "" {
			ext = e
		}
	}
	return fmt.Sprintf("ai-video-%d.%s", now.UnixMilli(), ext)
}

// OpenStrategy hands the URL to the platform opener so the user can save the
// media manually. It is the terminal fallback: it never returns an error,
// because the URL itself is the recourse even when the opener fails.
type OpenStrategy struct {
	launch func(ctx context.Context, target string) error
	out    io.Writer
}

// NewOpenStrategy creates the strategy using the platform opener.
func NewOpenStrategy() *OpenStrategy {
	return &OpenStrategy{launch: launchOpener, out: os.Stdout}
}

func (s *OpenStrategy) Name() string { return "open-in-browser" }

func (s *OpenStrategy) Attempt(ctx context.Context, mediaURL string) (*domain.ExportResult, error) {
	if err := s.launch(ctx, mediaURL); err != nil {
		fmt.Fprintf(s.out, "Open %s in your browser and save the video manually.\n", mediaURL)
	} else {
		fmt.Fprintf(s.out, "Opened %s in your browser; save the video manually.\n", mediaURL)
	}
	return &domain.ExportResult{
		Outcome:  domain.ExportOpenedForManualSave,
		MediaURL: mediaURL,
	}, nil
}

func launchOpener(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	}
	return cmd.Start()
}
