package audio

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Manager plays the configured category sound when a toast is activated.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool
	sounds  map[toast.Category]string

	// play runs playback off the caller's goroutine; replaced in tests.
	play func(fn func())
}

// NewManager creates a manager for cfg. A nil sink uses the system speaker.
func NewManager(cfg *config.Config, sink Sink, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	player := NewPlayer(sink, logger)
	m := &Manager{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(player, logger),
		play:    func(fn func()) { go fn() },
	}
	m.apply(cfg)
	return m
}

func (m *Manager) apply(cfg *config.Config) {
	sounds := make(map[toast.Category]string, len(cfg.Audio.Sounds))
	for category := range cfg.Audio.Sounds {
		if path := cfg.SoundForCategory(category); path != "" {
			sounds[toast.ParseCategory(category)] = path
		}
	}

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.sounds = sounds
	m.mu.Unlock()

	m.player.SetVolume(float64(cfg.Audio.Volume) / 100)
}

// Start preloads the sounds and watches them for changes.
func (m *Manager) Start(ctx context.Context) error {
	m.preload()
	if err := m.watcher.Start(ctx); err != nil {
		return err
	}
	m.logger.Info("audio manager started", "sounds", len(m.Sounds()))
	return nil
}

// Stop stops the watcher and closes the output.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
}

// Sounds returns a copy of the category to file mapping.
func (m *Manager) Sounds() map[toast.Category]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[toast.Category]string, len(m.sounds))
	for k, v := range m.sounds {
		out[k] = v
	}
	return out
}

// UpdateConfig applies a reloaded config.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.apply(cfg)
	m.player.ClearCache()
	m.preload()
	m.logger.Debug("audio config updated")
}

func (m *Manager) preload() {
	for category, path := range m.Sounds() {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "category", category, "path", path, "error", err)
		}
		if err := m.watcher.Watch(path); err != nil {
			m.logger.Debug("not watching sound", "path", path, "error", err)
		}
	}
}

// Observe plays the activated toast's category sound. Register it with
// toast.WithObserver; playback never blocks the caller.
func (m *Manager) Observe(ev toast.Event) {
	if ev.Kind != toast.EventActivated {
		return
	}

	m.mu.RLock()
	enabled := m.enabled
	path, ok := m.sounds[ev.Notification.Category()]
	m.mu.RUnlock()
	if !enabled || !ok {
		return
	}

	m.play(func() {
		if err := m.player.Play(path); err != nil {
			m.logger.Warn("failed to play sound", "path", path, "error", err)
		}
	})
}
