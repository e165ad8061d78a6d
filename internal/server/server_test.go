package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aivideogen/internal/adapters/export"
	"aivideogen/internal/adapters/history"
	"aivideogen/internal/adapters/kvstore"
	"aivideogen/internal/core/domain"
	"aivideogen/internal/service"
)

type stubGenerator struct {
	result *domain.GenerationResult
	err    error
}

func (g *stubGenerator) Submit(ctx context.Context, promptText string) (*domain.GenerationResult, error) {
	return g.result, g.err
}

type stubStrategy struct {
	result *domain.ExportResult
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Attempt(ctx context.Context, mediaURL string) (*domain.ExportResult, error) {
	return s.result, nil
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

type fixedProgress int

func (p fixedProgress) Progress() int { return int(p) }

func newTestServer(t *testing.T, gen *stubGenerator) (*httptest.Server, *fakeClipboard) {
	t.Helper()
	store := history.NewStore(kvstore.NewMemoryStore(), zap.NewNop())
	orch := service.NewOrchestrator(gen, store, nil, zap.NewNop())

	cb := &fakeClipboard{}
	resolver := export.NewResolver("", zap.NewNop(),
		export.WithStrategies(&stubStrategy{result: &domain.ExportResult{
			Outcome: domain.ExportDownloaded, LocalPath: "/tmp/v.mp4",
		}}),
		export.WithClipboard(cb))

	s := New(orch, resolver, fixedProgress(42), nil, zap.NewNop())
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv, cb
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServer_Generate_Success(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{result: &domain.GenerationResult{
		MediaURL: "https://x/y.mp4", PromptText: "a cat in space", CreatedAt: 1,
	}})

	resp := postJSON(t, srv.URL+"/api/generate", map[string]string{"prompt": "a cat in space"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.GenerationResult
	decode(t, resp, &result)
	assert.Equal(t, "https://x/y.mp4", result.MediaURL)

	// The success landed in history.
	histResp, err := http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	defer histResp.Body.Close()

	var entries []domain.HistoryEntry
	decode(t, histResp, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "a cat in space", entries[0].Prompt)
}

func TestServer_Generate_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		gen        *stubGenerator
		prompt     string
		wantStatus int
	}{
		"empty prompt": {
			gen:        &stubGenerator{},
			prompt:     "   ",
			wantStatus: http.StatusBadRequest,
		},
		"generation failed": {
			gen:        &stubGenerator{err: domain.ErrGenerationFailed},
			prompt:     "anything",
			wantStatus: http.StatusBadGateway,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.gen)
			resp := postJSON(t, srv.URL+"/api/generate", map[string]string{"prompt": tc.prompt})
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			var body map[string]string
			decode(t, resp, &body)
			assert.NotEmpty(t, body["error"], "failures surface as short notices")
		})
	}
}

func TestServer_HistoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{result: &domain.GenerationResult{
		MediaURL: "https://x/y.mp4", PromptText: "p", CreatedAt: 1,
	}})

	resp := postJSON(t, srv.URL+"/api/generate", map[string]string{"prompt": "p"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/history", nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()

	var cleared []domain.HistoryEntry
	decode(t, delResp, &cleared)
	assert.Empty(t, cleared)

	histResp, err := http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	defer histResp.Body.Close()

	var entries []domain.HistoryEntry
	decode(t, histResp, &entries)
	assert.Empty(t, entries)
}

func TestServer_Progress(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	resp, err := http.Get(srv.URL + "/api/progress")
	require.NoError(t, err)
	defer resp.Body.Close()

	var progress domain.JobProgress
	decode(t, resp, &progress)
	assert.Equal(t, 42, progress.Percent)
}

func TestServer_Download(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	resp := postJSON(t, srv.URL+"/api/download", map[string]string{"url": "https://x/y.mp4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ExportResult
	decode(t, resp, &result)
	assert.Equal(t, domain.ExportDownloaded, result.Outcome)
}

func TestServer_Download_RequiresURL(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	resp := postJSON(t, srv.URL+"/api/download", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Share(t *testing.T) {
	srv, cb := newTestServer(t, &stubGenerator{})

	resp := postJSON(t, srv.URL+"/api/share", map[string]string{"url": "https://x/y.mp4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://x/y.mp4", cb.text)
}
