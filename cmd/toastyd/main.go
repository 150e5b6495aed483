// Package main is the entry point for the toastyd daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/daemon"
	"github.com/jmylchreest/toasty/internal/display"
	"github.com/jmylchreest/toasty/internal/terminal"
	"github.com/jmylchreest/toasty/internal/theme"
	"github.com/jmylchreest/toasty/internal/toast"
)

const appID = "io.github.jmylchreest.toastyd"

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var opts struct {
	verbose    bool
	configPath string
	renderer   string
	replace    bool
}

var rootCmd = &cobra.Command{
	Use:   "toastyd",
	Short: "Toast notification daemon",
	Long: `toastyd shows toasts one at a time and queues the rest.

It owns org.freedesktop.Notifications on the session bus, serves the
optional HTTP control API and shows flashes parked for the next start.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.Flags().StringVar(&opts.configPath, "config", "",
		"Path to config file (default: ~/.config/toasty/toastyd.toml)")
	rootCmd.Flags().StringVar(&opts.renderer, "renderer", "",
		"Override the configured renderer (gtk, terminal, none)")
	rootCmd.Flags().BoolVar(&opts.replace, "replace", false,
		"Replace a running notification daemon on the session bus")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func run(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.renderer != "" {
		cfg.Display.Renderer = opts.renderer
	}
	if opts.replace {
		cfg.DBus.Replace = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting toastyd", "version", version, "renderer", cfg.Display.Renderer)
	if cfg.Display.Renderer == config.RendererGTK {
		return runGTK(ctx, cfg, logger)
	}
	return runLoop(ctx, cfg, logger)
}

func daemonOptions(cfg *config.Config, logger *slog.Logger) daemon.Options {
	return daemon.Options{
		Config:     cfg,
		ConfigPath: opts.configPath,
		Version:    version,
		Logger:     logger,
	}
}

// runLoop serves toasts from a plain goroutine, drawing them on stderr or
// nowhere.
func runLoop(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	loop := toast.NewLoop()

	o := daemonOptions(cfg, logger)
	o.Executor = loop
	if cfg.Display.Renderer == config.RendererTerminal {
		o.Renderer = terminal.NewRenderer(os.Stderr, terminal.WithErase(true))
	}

	d, err := daemon.New(ctx, o)
	if err != nil {
		return err
	}
	if err := d.Start(ctx); err != nil {
		_ = d.Stop(context.Background())
		return err
	}

	err = loop.Run(ctx)
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if stopErr := d.Stop(shutdownCtx); stopErr != nil {
		return stopErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runGTK serves toasts as layer-shell popups on the GLib main loop.
func runGTK(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	app := adw.NewApplication(appID, 0)
	renderer := display.NewRenderer(&app.Application, cfg.Display, logger.With("component", "display"))
	themes := theme.NewLoader(config.ThemesPath(), display.GlibExecutor{}, logger.With("component", "theme"))

	var (
		d        *daemon.Daemon
		startErr error
		running  atomic.Bool
	)

	applyDisplay := func(c *config.Config) {
		renderer.SetConfig(c.Display)
		if cur := themes.Current(); cur == nil || cur.Name != c.Display.Theme {
			themes.Load(c.Display.Theme)
			if err := themes.Watch(ctx); err != nil {
				logger.Warn("theme hot reload disabled", "error", err)
			}
		}
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		glib.IdleAdd(func() {
			if running.Load() {
				app.Release()
			}
			app.Quit()
		})
	}()

	app.ConnectActivate(func() {
		if running.Load() {
			logger.Warn("application already running")
			return
		}

		if err := renderer.Start(); err != nil {
			startErr = err
			app.Quit()
			return
		}
		applyDisplay(cfg)
		themes.Apply(nil)

		o := daemonOptions(cfg, logger)
		o.Executor = display.GlibExecutor{}
		o.Clock = display.GlibClock{}
		o.Renderer = renderer
		o.OnConfig = applyDisplay

		var err error
		if d, err = daemon.New(ctx, o); err != nil {
			startErr = err
			app.Quit()
			return
		}
		if err := d.Start(ctx); err != nil {
			startErr = err
			app.Quit()
			return
		}

		// Popups come and go; the application lives until shutdown.
		app.Hold()
		running.Store(true)
	})

	app.ConnectShutdown(func() {
		themes.Stop()
		if d != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := d.Stop(shutdownCtx); err != nil {
				logger.Warn("error stopping daemon", "error", err)
			}
		}
		running.Store(false)
	})

	if status := app.Run([]string{os.Args[0]}); status != 0 {
		return fmt.Errorf("application exited with status %d", status)
	}
	return startErr
}
