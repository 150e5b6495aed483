package daemon

import (
	"context"

	"github.com/jmylchreest/toasty/internal/config"
)

// watchConfig reloads the config file on change. A file that cannot be
// watched only disables hot reload.
func (d *Daemon) watchConfig(ctx context.Context) {
	w, err := config.NewWatcher(d.opts.ConfigPath, d.Config(), d.logger.With("component", "config"))
	if err != nil {
		d.logger.Warn("config hot reload disabled", "error", err)
		return
	}
	w.SetReloadCallback(func(cfg *config.Config) {
		d.center.Post(func() { d.ApplyConfig(cfg) })
	})
	w.SetErrorCallback(d.notifier.NotifyConfigError)

	if err := w.Start(ctx); err != nil {
		d.logger.Warn("config hot reload disabled", "error", err)
		_ = w.Stop()
		return
	}
	d.watcher = w
}

// ApplyConfig switches to cfg. Call it on the executor.
//
// Flash backend, history location, D-Bus and HTTP settings are read once at
// start and need a restart to change.
func (d *Daemon) ApplyConfig(cfg *config.Config) {
	d.mu.Lock()
	old := d.cfg
	d.cfg = cfg
	d.mu.Unlock()

	d.center.SetDefaultDuration(cfg.Toast.DefaultDuration.Duration())
	d.transitions.SetDelay(cfg.Toast.ExitAnimation.Duration())
	d.audio.UpdateConfig(cfg)
	if d.opts.OnConfig != nil {
		d.opts.OnConfig(cfg)
	}

	if restartNeeded(old, cfg) {
		d.logger.Warn("some config changes take effect after a restart")
	}
	d.logger.Info("config applied",
		"default_duration", cfg.Toast.DefaultDuration.Duration(),
		"exit_animation", cfg.Toast.ExitAnimation.Duration(),
	)
	d.notifier.NotifyConfigReloaded()
}

func restartNeeded(old, cfg *config.Config) bool {
	if old == nil {
		return false
	}
	return old.Flash.Backend != cfg.Flash.Backend ||
		old.FlashFile() != cfg.FlashFile() ||
		old.Flash.RedisURL != cfg.Flash.RedisURL ||
		old.History.Enabled != cfg.History.Enabled ||
		old.HistoryFile() != cfg.HistoryFile() ||
		old.DBus != cfg.DBus ||
		old.HTTP != cfg.HTTP ||
		old.Display.Renderer != cfg.Display.Renderer
}
