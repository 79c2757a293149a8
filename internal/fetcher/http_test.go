package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestFetcher(t *testing.T, cfg *config.Config) (*HTTPFetcher, *observability.Stats) {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	stats := observability.NewStats(testLogger)
	f, err := NewHTTPFetcher(cfg, testLogger, stats)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f, stats
}

func mustRequest(t *testing.T, rawURL string) *types.Request {
	t.Helper()
	req, err := types.NewRequest(rawURL)
	require.NoError(t, err)
	return req
}

func TestHTTPFetcherSuccess(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	f, stats := newTestFetcher(t, nil)
	resp, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "<h1>Test</h1>")
	assert.Equal(t, "text/html", resp.ContentType)
	assert.Equal(t, config.DefaultConfig().Fetcher.UserAgent, gotUA)
	assert.Equal(t, int64(1), stats.RequestsTotal.Load())
	assert.Equal(t, int64(0), stats.RequestsFailed.Load())
	assert.Equal(t, int64(len(resp.Body)), stats.BytesDownloaded.Load())

	doc, err := resp.Document()
	require.NoError(t, err)
	assert.Equal(t, "Test", doc.Find("h1").Text())
}

func TestHTTPFetcherNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone fishing", http.StatusNotFound)
	}))
	defer server.Close()

	f, stats := newTestFetcher(t, nil)
	_, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.Error(t, err)

	var fetchErr *types.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "gone fishing")
	assert.Equal(t, int64(1), stats.RequestsFailed.Load())
}

func TestHTTPFetcherEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f, stats := newTestFetcher(t, nil)
	_, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.ErrorIs(t, err, types.ErrEmptyResponse)

	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
	assert.Equal(t, int64(1), stats.RequestsFailed.Load())
}

func TestHTTPFetcherConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	f, _ := newTestFetcher(t, nil)
	_, err := f.Fetch(context.Background(), mustRequest(t, url))

	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Equal(t, url, fetchErr.URL)
}

func TestHTTPFetcherDecodesGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write([]byte("<p>zipped</p>"))
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	f, _ := newTestFetcher(t, nil)
	resp, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.NoError(t, err)
	assert.Equal(t, "<p>zipped</p>", string(resp.Body))
}

func TestHTTPFetcherDecodesBrotli(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		_, _ = bw.Write([]byte("<p>brotli</p>"))
		_ = bw.Close()
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	f, _ := newTestFetcher(t, nil)
	resp, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.NoError(t, err)
	assert.Equal(t, "<p>brotli</p>", string(resp.Body))
}

func TestHTTPFetcherMaxBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), 100))
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Fetcher.MaxBodySize = 10
	f, _ := newTestFetcher(t, cfg)

	_, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.ErrorIs(t, err, types.ErrBodyTooLarge)

	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
}

func TestHTTPFetcherBodyAtLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), 10))
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Fetcher.MaxBodySize = 10
	f, _ := newTestFetcher(t, cfg)

	resp, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.NoError(t, err)
	assert.Len(t, resp.Body, 10)
}

func TestHTTPFetcherMaxBodySizeAppliesToDecodedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = zw.Write(bytes.Repeat([]byte("<div class=\"achieveRow\"></div>"), 1000))
		_ = zw.Close()
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Fetcher.MaxBodySize = 4096
	f, _ := newTestFetcher(t, cfg)

	_, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	assert.ErrorIs(t, err, types.ErrBodyTooLarge)
}

func TestHTTPFetcherRedirectsDisabled(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("target"))
	}))
	defer target.Close()
	server := httptest.NewServer(http.RedirectHandler(target.URL, http.StatusFound))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Fetcher.FollowRedirects = false
	f, _ := newTestFetcher(t, cfg)

	_, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	var fetchErr *types.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusFound, fetchErr.StatusCode)
}

func TestHTTPFetcherFollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("target"))
	}))
	defer target.Close()
	server := httptest.NewServer(http.RedirectHandler(target.URL+"/landing", http.StatusFound))
	defer server.Close()

	f, _ := newTestFetcher(t, nil)
	resp, err := f.Fetch(context.Background(), mustRequest(t, server.URL))
	require.NoError(t, err)
	assert.Equal(t, "target", string(resp.Body))
	assert.Equal(t, target.URL+"/landing", resp.FinalURL)
}

func TestNewSelectsFetcherType(t *testing.T) {
	cfg := config.DefaultConfig()
	f, err := New(cfg, testLogger, observability.NewStats(testLogger))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "http", f.Type())

	cfg.Fetcher.Type = "carrier-pigeon"
	_, err = New(cfg, testLogger, observability.NewStats(testLogger))
	assert.Error(t, err)
}
