package observability

import (
	"log/slog"
	"sync/atomic"
)

// Stats tracks counters for a single report run.
type Stats struct {
	// Fetch metrics
	RequestsTotal   atomic.Int64
	RequestsFailed  atomic.Int64
	BytesDownloaded atomic.Int64

	// Extraction metrics
	AchievementsExtracted atomic.Int64
	DifficultiesExtracted atomic.Int64
	FallbackUsed          atomic.Int64

	// Merge, filter, render metrics
	RecordsMatched  atomic.Int64
	RecordsFiltered atomic.Int64
	RenderSkipped   atomic.Int64
	RecordsStored   atomic.Int64

	logger *slog.Logger
}

// NewStats creates a new Stats instance.
func NewStats(logger *slog.Logger) *Stats {
	return &Stats{
		logger: logger.With("component", "stats"),
	}
}

// Snapshot returns all counters as a map.
func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests_total":         s.RequestsTotal.Load(),
		"requests_failed":        s.RequestsFailed.Load(),
		"bytes_downloaded":       s.BytesDownloaded.Load(),
		"achievements_extracted": s.AchievementsExtracted.Load(),
		"difficulties_extracted": s.DifficultiesExtracted.Load(),
		"fallback_used":          s.FallbackUsed.Load(),
		"records_matched":        s.RecordsMatched.Load(),
		"records_filtered":       s.RecordsFiltered.Load(),
		"render_skipped":         s.RenderSkipped.Load(),
		"records_stored":         s.RecordsStored.Load(),
	}
}

// Log writes the current counters at debug level.
func (s *Stats) Log() {
	snap := s.Snapshot()
	args := make([]any, 0, len(snap)*2)
	for _, key := range []string{
		"requests_total", "requests_failed", "bytes_downloaded",
		"achievements_extracted", "difficulties_extracted", "fallback_used",
		"records_matched", "records_filtered", "render_skipped", "records_stored",
	} {
		args = append(args, key, snap[key])
	}
	s.logger.Debug("run stats", args...)
}
