package assetcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// upstreamTimeout bounds each fetch against the origin.
const upstreamTimeout = 10 * time.Second

// cachePrefix namespaces this worker's caches so activation can purge stale
// versions without touching unrelated caches.
const cachePrefix = "aivideo-"

// staticExtensions is the allow-list of asset types the worker caches.
var staticExtensions = map[string]bool{
	".js": true, ".css": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true,
}

// Worker fronts an upstream origin with the shell/asset caching policy.
// It runs with its own lifecycle (Install, Activate) independent of the API.
type Worker struct {
	upstream *url.URL
	client   *http.Client
	storage  *Storage
	shell    *Cache
	assets   *Cache
	logger   *zap.Logger
}

// NewWorker creates a worker for the given origin and cache version.
func NewWorker(upstreamOrigin, version string, storage *Storage, logger *zap.Logger) (*Worker, error) {
	u, err := url.Parse(upstreamOrigin)
	if err != nil {
		return nil, fmt.Errorf("parse upstream origin %q: %w", upstreamOrigin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream origin %q must be an absolute URL", upstreamOrigin)
	}
	return &Worker{
		upstream: u,
		client:   &http.Client{Timeout: upstreamTimeout},
		storage:  storage,
		shell:    storage.Open(cachePrefix + "shell-" + version),
		assets:   storage.Open(cachePrefix + "assets-" + version),
		logger:   logger,
	}, nil
}

// Install seeds the shell cache with the root document.
func (w *Worker) Install(ctx context.Context) error {
	entry, err := w.fetch(ctx, "/")
	if err != nil {
		return fmt.Errorf("seed shell cache: %w", err)
	}
	w.shell.Put("/", entry)
	return nil
}

// Activate purges caches from older versions by name-prefix comparison
// against the two current cache names.
func (w *Worker) Activate() {
	current := map[string]bool{
		w.shell.Name():  true,
		w.assets.Name(): true,
	}
	for _, name := range w.storage.Names() {
		if strings.HasPrefix(name, cachePrefix) && !current[name] {
			w.storage.Delete(name)
			w.logger.Info("purged stale cache", zap.String("cache", name))
		}
	}
}

// ServeHTTP routes each request through the caching policy:
//   - navigations: network-first, cached root document on failure
//   - allow-listed static assets: network-first, caching successes,
//     cached copy on failure
//   - everything else: passed through untouched
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.passThrough(rw, r)
		return
	}

	switch {
	case isNavigation(r):
		w.serveNavigation(rw, r)
	case staticExtensions[strings.ToLower(path.Ext(r.URL.Path))]:
		w.serveAsset(rw, r)
	default:
		w.passThrough(rw, r)
	}
}

func (w *Worker) serveNavigation(rw http.ResponseWriter, r *http.Request) {
	entry, err := w.fetch(r.Context(), r.URL.Path)
	if err == nil {
		if r.URL.Path == "/" {
			w.shell.Put("/", entry)
		}
		writeEntry(rw, entry)
		return
	}

	w.logger.Warn("navigation fetch failed, serving cached shell",
		zap.String("path", r.URL.Path), zap.Error(err))
	cached, ok := w.shell.Get("/")
	if !ok {
		http.Error(rw, "offline and no cached shell", http.StatusBadGateway)
		return
	}
	writeEntry(rw, cached)
}

func (w *Worker) serveAsset(rw http.ResponseWriter, r *http.Request) {
	entry, err := w.fetch(r.Context(), r.URL.Path)
	if err == nil {
		w.assets.Put(r.URL.Path, entry)
		writeEntry(rw, entry)
		return
	}

	cached, ok := w.assets.Get(r.URL.Path)
	if !ok {
		w.logger.Warn("asset fetch failed with no cached copy",
			zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(rw, "asset unavailable", http.StatusBadGateway)
		return
	}
	w.logger.Debug("serving cached asset", zap.String("path", r.URL.Path))
	writeEntry(rw, cached)
}

// passThrough proxies the request to the origin without caching.
func (w *Worker) passThrough(rw http.ResponseWriter, r *http.Request) {
	target := w.upstream.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery})
	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		http.Error(rw, "bad upstream request", http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := w.client.Do(req)
	if err != nil {
		http.Error(rw, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, v := range values {
			rw.Header().Add(key, v)
		}
	}
	rw.WriteHeader(resp.StatusCode)
	io.Copy(rw, resp.Body)
}

// fetch performs a GET against the origin, returning an entry only for a
// fully read 200 response.
func (w *Worker) fetch(ctx context.Context, p string) (Entry, error) {
	target := w.upstream.ResolveReference(&url.URL{Path: p})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return Entry{}, err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return Entry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entry{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

// isNavigation reports whether the request is a full-page load.
func isNavigation(r *http.Request) bool {
	if r.URL.Path == "/" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html") && path.Ext(r.URL.Path) == ""
}

func writeEntry(rw http.ResponseWriter, entry Entry) {
	if entry.ContentType != "" {
		rw.Header().Set("Content-Type", entry.ContentType)
	}
	rw.WriteHeader(http.StatusOK)
	rw.Write(entry.Body)
}
