package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Fetcher is the interface for all page fetcher implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given request's URL.
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}

// New creates the fetcher selected by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger, stats *observability.Stats) (Fetcher, error) {
	switch cfg.Fetcher.Type {
	case "http", "":
		return NewHTTPFetcher(cfg, logger, stats)
	case "browser":
		return NewBrowserFetcher(cfg, logger, stats)
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", cfg.Fetcher.Type)
	}
}
