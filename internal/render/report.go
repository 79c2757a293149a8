package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// ReportOptions selects how a report is written.
type ReportOptions struct {
	Format string // "text" or "table"
	Random bool
	Quiet  bool
}

// Report writes the final listing to an output stream.
type Report struct {
	out      io.Writer
	opts     ReportOptions
	renderer *Renderer
	rng      *rand.Rand
	stats    *observability.Stats
	logger   *slog.Logger
}

// NewReport creates a Report writing to out.
func NewReport(out io.Writer, opts ReportOptions, renderer *Renderer, stats *observability.Stats, logger *slog.Logger) *Report {
	return &Report{
		out:      out,
		opts:     opts,
		renderer: renderer,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		stats:    stats,
		logger:   logger.With("component", "report"),
	}
}

// WithRand replaces the random source used in random-pick mode.
func (r *Report) WithRand(rng *rand.Rand) *Report {
	r.rng = rng
	return r
}

// NoAchievements reports that the profile yielded nothing at all.
func (r *Report) NoAchievements(user string) error {
	r.logger.Info("no achievements found", "user", user)
	return r.printf("No achievements found for the user: %s...\n", user)
}

// Write prints the records. In random mode it prints one record picked
// uniformly and returns it; otherwise it returns nil. Quiet mode performs the
// same selection and rendering but prints nothing.
func (r *Report) Write(records []*types.Record) (*types.Record, error) {
	if r.opts.Random {
		return r.writeRandom(records)
	}

	if r.opts.Format == "table" {
		if r.opts.Quiet {
			return nil, nil
		}
		return nil, r.renderer.Table(r.out, records)
	}

	if err := r.printf("Total: %d\n", len(records)); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := r.writeRecord(rec); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (r *Report) writeRandom(records []*types.Record) (*types.Record, error) {
	pool := records
	if r.opts.Format != "table" {
		// Text blocks need a tier, so only those records are candidates.
		pool = make([]*types.Record, 0, len(records))
		for _, rec := range records {
			if rec.HasDifficulty() {
				pool = append(pool, rec)
			}
		}
		r.stats.RenderSkipped.Add(int64(len(records) - len(pool)))
	}

	if len(pool) == 0 {
		r.logger.Info("random pick from an empty selection", "selected", len(records))
		return nil, r.printf("No achievements match the selected filters.\n")
	}

	picked := pool[r.rng.IntN(len(pool))]
	r.logger.Info("random pick", "title", picked.Title, "of", len(pool))

	if r.opts.Format == "table" {
		if r.opts.Quiet {
			return picked, nil
		}
		return picked, r.renderer.Table(r.out, []*types.Record{picked})
	}
	return picked, r.writeRecord(picked)
}

// writeRecord prints one text block. Records that cannot be rendered are
// logged and skipped.
func (r *Report) writeRecord(rec *types.Record) error {
	block, err := r.renderer.Record(rec)
	if err != nil {
		if errors.Is(err, types.ErrMissingDifficulty) {
			r.stats.RenderSkipped.Add(1)
			r.logger.Debug("record skipped", "title", rec.Title, "error", err)
			return nil
		}
		return err
	}
	return r.printf("%s\n", block)
}

func (r *Report) printf(format string, args ...any) error {
	if r.opts.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(r.out, format, args...)
	return err
}
