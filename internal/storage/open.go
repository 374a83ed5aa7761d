package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/snipshare/internal/config"
	"github.com/sakif/snipshare/internal/repository"
	"github.com/sakif/snipshare/internal/repository/memory"
	"github.com/sakif/snipshare/internal/repository/sqlite"
)

// Open builds the backend named by cfg.Type and wraps it.
func Open(cfg config.StorageConfig, logger *slog.Logger) (*Storage, error) {
	var backend repository.Backend
	switch cfg.Type {
	case "memory":
		backend = memory.New()
	case "sqlite":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, fmt.Errorf("storage: creating data directory: %w", err)
			}
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		backend = db
	default:
		return nil, fmt.Errorf("storage: unknown backend type %q", cfg.Type)
	}

	logger.Info("storage opened", slog.String("type", cfg.Type), slog.String("path", cfg.Path))
	return New(backend, logger), nil
}
