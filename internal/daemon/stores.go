package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/flash"
	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/toast"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenFlash creates the flash store selected by cfg.Flash.Backend. The
// returned closer releases it.
func OpenFlash(ctx context.Context, cfg *config.Config, logger *slog.Logger) (toast.FlashStore, io.Closer, error) {
	switch cfg.Flash.Backend {
	case config.FlashBackendMemory:
		return flash.NewMemoryStore(), nopCloser{}, nil

	case config.FlashBackendRedis:
		rc := flash.RedisConfig{
			URL:            cfg.Flash.RedisURL,
			RetryAttempts:  3,
			RetryInterval:  500 * time.Millisecond,
			ConnectTimeout: 5 * time.Second,
			KeyPrefix:      cfg.Flash.RedisPrefix,
			TTL:            cfg.Flash.TTL.Duration(),
		}
		client, err := flash.ConnectRedis(ctx, rc)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect flash redis: %w", err)
		}
		logger.Info("flash store ready", "backend", "redis")
		s := flash.NewRedisStore(client, rc)
		return s, s, nil

	default:
		s := flash.NewFileStore(cfg.FlashFile(), logger)
		logger.Info("flash store ready", "backend", "file", "path", s.Path())
		return s, s, nil
	}
}

// OpenHistory opens the history log. It returns nil when history is disabled.
// It never compacts: only the daemon trims the shared file, via CompactHistory.
func OpenHistory(cfg *config.Config, logger *slog.Logger) (*history.Log, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	log, err := history.Open(cfg.HistoryFile(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return log, nil
}

// CompactHistory trims log to cfg.History.MaxEntries. Failures only log.
func CompactHistory(log *history.Log, cfg *config.Config, logger *slog.Logger) {
	if log == nil || cfg.History.MaxEntries <= 0 {
		return
	}
	removed, err := log.Compact(cfg.History.MaxEntries)
	if err != nil {
		logger.Warn("failed to compact history", "error", err)
	} else if removed > 0 {
		logger.Info("compacted history", "removed", removed)
	}
}
