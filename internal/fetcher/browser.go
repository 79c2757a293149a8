package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// BrowserFetcher implements Fetcher using a headless Chromium driven by Rod.
// It is meant for pages that challenge plain HTTP clients.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.FetcherConfig
	stats   *observability.Stats
	logger  *slog.Logger
}

// NewBrowserFetcher launches a headless browser and connects to it.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger, stats *observability.Stats) (*BrowserFetcher, error) {
	bf := &BrowserFetcher{
		cfg:    &cfg.Fetcher,
		stats:  stats,
		logger: logger.With("component", "browser_fetcher"),
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")
	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	bf.browser = browser

	bf.logger.Debug("browser fetcher ready", "stealth", cfg.Fetcher.Stealth)
	return bf, nil
}

// Fetch opens req in a fresh tab, waits for the load event and returns the
// rendered DOM.
func (bf *BrowserFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	bf.stats.RequestsTotal.Add(1)
	target := req.URLString()
	start := time.Now()

	tab, err := bf.newPage()
	if err != nil {
		return nil, bf.fail(target, err)
	}
	defer func() { _ = tab.Close() }()

	page, release := boundPage(ctx, tab, bf.cfg.RequestTimeout)
	defer release()
	if ua := bf.cfg.UserAgent; ua != "" {
		override := &proto.NetworkSetUserAgentOverride{UserAgent: ua, AcceptLanguage: "en-US,en;q=0.9"}
		if err := page.SetUserAgent(override); err != nil {
			bf.logger.Warn("user agent override failed", "error", err)
		}
	}

	bf.logger.Debug("navigating", "url", target, "tag", req.Tag)
	if err := page.Navigate(target); err != nil {
		return nil, bf.fail(target, fmt.Errorf("navigate: %w", err))
	}
	if err := page.WaitLoad(); err != nil {
		return nil, bf.fail(target, fmt.Errorf("wait load: %w", err))
	}

	html, err := page.HTML()
	if err != nil {
		return nil, bf.fail(target, fmt.Errorf("read DOM: %w", err))
	}
	if html == "" {
		return nil, bf.fail(target, types.ErrEmptyResponse)
	}

	finalURL := target
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	elapsed := time.Since(start)
	bf.stats.BytesDownloaded.Add(int64(len(html)))
	bf.logger.Debug("rendered", "url", target, "final_url", finalURL, "bytes", len(html), "elapsed", elapsed)

	// The document status code is not observable here; a loaded page counts as 200.
	return types.NewBrowserResponse(req, http.StatusOK, []byte(html), finalURL, elapsed), nil
}

func (bf *BrowserFetcher) fail(target string, err error) error {
	bf.stats.RequestsFailed.Add(1)
	return &types.FetchError{URL: target, Err: err}
}

// Close shuts down the browser.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// Type returns the fetcher type identifier.
func (bf *BrowserFetcher) Type() string {
	return "browser"
}

// boundPage returns page bound to ctx and, when d is positive, to a deadline d
// from now. The returned func stops the deadline timer.
func boundPage(ctx context.Context, page *rod.Page, d time.Duration) (*rod.Page, func()) {
	page = page.Context(ctx)
	if d <= 0 {
		return page, func() {}
	}
	timed := page.Timeout(d)
	return timed, func() { timed.CancelTimeout() }
}

func (bf *BrowserFetcher) newPage() (*rod.Page, error) {
	if bf.cfg.Stealth {
		page, err := stealth.Page(bf.browser)
		if err != nil {
			return nil, fmt.Errorf("stealth page: %w", err)
		}
		return page, nil
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}
