// Package filestore implements the fallback store as a single JSON file,
// optionally gzip-compressed. Writes go through a temp file and rename so a
// crash mid-save never leaves a half-written slot.
package filestore

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Backend persists the slot as a JSON document on disk.
type Backend struct {
	path     string
	compress bool
	log      *slog.Logger
}

// New creates a file-backed store at path. The parent directory is created
// if missing.
func New(path string, compress bool, log *slog.Logger) (*Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("file store requires a path")
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Backend{path: path, compress: compress, log: log}, nil
}

// Save overwrites the slot with rec.
func (b *Backend) Save(rec core.StoredSimulation) error {
	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".slot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var gz *gzip.Writer
	if b.compress {
		gz = gzip.NewWriter(tmp)
		w = gz
	}

	if err := json.NewEncoder(w).Encode(rec); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode slot: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to flush gzip stream: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("failed to replace slot file: %w", err)
	}

	b.log.Debug("fallback slot saved", "simulation", rec.SimulationID, "backend", "file", "path", b.path)
	return nil
}

// Load returns the slot contents, or (nil, nil) when the file is missing or
// unreadable as a slot.
func (b *Backend) Load() (*core.StoredSimulation, error) {
	f, err := os.Open(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open slot file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if b.compress {
		gz, err := gzip.NewReader(f)
		if err != nil {
			b.log.Warn("fallback slot file is corrupted, ignoring", "error", err)
			return nil, nil
		}
		defer gz.Close()
		r = gz
	}

	var rec core.StoredSimulation
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		b.log.Warn("fallback slot file is corrupted, ignoring", "error", err)
		return nil, nil
	}
	return &rec, nil
}

// Close is a no-op; the file is opened per operation.
func (b *Backend) Close() error {
	return nil
}
