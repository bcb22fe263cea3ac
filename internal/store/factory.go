package store

import (
	"fmt"
	"log/slog"

	"github.com/shivam675/sky-guardian-planner/internal/config"
	filestore "github.com/shivam675/sky-guardian-planner/internal/store/file"
	memorystore "github.com/shivam675/sky-guardian-planner/internal/store/memory"
	sqlitestore "github.com/shivam675/sky-guardian-planner/internal/store/sqlite"
)

// NewBackend creates a fallback store backend based on configuration.
func NewBackend(cfg config.StorageConfig, logger *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "sqlite":
		return sqlitestore.New(cfg.Sqlite.Path, logger)
	case "file":
		return filestore.New(cfg.File.Path, cfg.File.CompressOutput, logger)
	case "memory":
		return memorystore.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
