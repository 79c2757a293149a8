package pipeline

import (
	"log/slog"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Middleware decides the fate of a single record. Returning nil drops it.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process returns the record to keep, or nil to drop it.
	Process(rec *types.Record) *types.Record
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Run applies each middleware stage to the whole list in order, keeping the
// relative order of surviving records.
func (p *Pipeline) Run(records []*types.Record) []*types.Record {
	current := records

	for _, mw := range p.middlewares {
		kept := make([]*types.Record, 0, len(current))
		for _, rec := range current {
			if out := mw.Process(rec); out != nil {
				kept = append(kept, out)
			}
		}
		p.logger.Debug("stage applied", "stage", mw.Name(), "in", len(current), "out", len(kept))
		current = kept
	}

	return current
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
