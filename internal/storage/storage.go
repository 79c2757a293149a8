package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Storage is the interface for all export backends.
type Storage interface {
	// Store persists a batch of records.
	Store(records []*types.Record) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// TypeFromPath infers a file storage type from an output path extension.
func TypeFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return "json", nil
	case ".jsonl", ".ndjson":
		return "jsonl", nil
	case ".csv":
		return "csv", nil
	default:
		return "", fmt.Errorf("cannot infer export format from extension %q (use .json, .jsonl or .csv)", ext)
	}
}

// New creates the export backend selected by cfg.Storage. It returns nil, nil
// when export is disabled. user is recorded alongside MongoDB documents.
func New(ctx context.Context, cfg *config.Config, user string, logger *slog.Logger) (Storage, error) {
	switch cfg.Storage.Type {
	case "":
		return nil, nil
	case "mongodb":
		return NewMongoStorage(ctx, cfg.Storage.Mongo, user, logger)
	default:
		return NewFileStorage(cfg.Storage.Type, cfg.Storage.OutputPath, logger)
	}
}
