package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// pageHeaders are sent with every request so Steam and the wiki serve the
// same markup a desktop browser gets.
var pageHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Accept-Encoding": "gzip, deflate, br",
}

// HTTPFetcher implements Fetcher using net/http. It issues exactly one GET per
// Fetch call and never retries.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	stats       *observability.Stats
	logger      *slog.Logger
}

// NewHTTPFetcher creates a new HTTP fetcher.
func NewHTTPFetcher(cfg *config.Config, logger *slog.Logger, stats *observability.Stats) (*HTTPFetcher, error) {
	fc := cfg.Fetcher

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	// Content decoding is done by hand so brotli is covered too.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true

	ua := fc.UserAgent
	if ua == "" {
		ua = "eu4achievements/" + config.Version
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport:     transport,
			Jar:           jar,
			Timeout:       fc.RequestTimeout,
			CheckRedirect: redirectPolicy(fc.FollowRedirects, fc.MaxRedirects),
		},
		userAgent:   ua,
		maxBodySize: fc.MaxBodySize,
		stats:       stats,
		logger:      logger.With("component", "http_fetcher"),
	}, nil
}

func redirectPolicy(follow bool, limit int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		switch {
		case !follow:
			return http.ErrUseLastResponse
		case len(via) >= limit:
			return fmt.Errorf("stopped after %d redirects", limit)
		}
		return nil
	}
}

// Fetch performs a single GET for req.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	f.stats.RequestsTotal.Add(1)
	target := req.URLString()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, nil)
	if err != nil {
		return nil, f.fail(target, 0, err)
	}
	httpReq.Header.Set("User-Agent", f.userAgent)
	for k, v := range pageHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Set(k, v)
		}
	}

	f.logger.Debug("fetching", "url", target, "tag", req.Tag)
	start := time.Now()

	httpResp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, f.fail(target, 0, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return nil, f.fail(target, httpResp.StatusCode,
			fmt.Errorf("HTTP %d: %s", httpResp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	body, err := f.readBody(httpResp)
	if err != nil {
		return nil, f.fail(target, httpResp.StatusCode, err)
	}
	if len(body) == 0 {
		return nil, f.fail(target, httpResp.StatusCode, types.ErrEmptyResponse)
	}

	elapsed := time.Since(start)
	f.stats.BytesDownloaded.Add(int64(len(body)))
	f.logger.Debug("fetched", "url", target, "status", httpResp.StatusCode, "bytes", len(body), "elapsed", elapsed)

	return types.NewResponse(req, httpResp, body, elapsed), nil
}

// readBody decodes the body according to Content-Encoding and reads it.
// A decoded body larger than maxBodySize is an error, never a truncated page.
func (f *HTTPFetcher) readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body

	switch enc := resp.Header.Get("Content-Encoding"); enc {
	case "gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		r = zr
	case "deflate":
		fr := flate.NewReader(r)
		defer fr.Close()
		r = fr
	case "br":
		r = brotli.NewReader(r)
	case "", "identity":
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", enc)
	}

	if f.maxBodySize <= 0 {
		return io.ReadAll(r)
	}

	body, err := io.ReadAll(io.LimitReader(r, f.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", types.ErrBodyTooLarge, f.maxBodySize)
	}
	return body, nil
}

func (f *HTTPFetcher) fail(target string, status int, err error) error {
	f.stats.RequestsFailed.Add(1)
	f.logger.Debug("fetch failed", "url", target, "status", status, "error", err)
	return &types.FetchError{URL: target, StatusCode: status, Err: err}
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// Type returns the fetcher type identifier.
func (f *HTTPFetcher) Type() string {
	return "http"
}
