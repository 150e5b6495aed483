package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmylchreest/toasty/internal/api"
	"github.com/jmylchreest/toasty/internal/audio"
	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/dbus"
	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/metrics"
	"github.com/jmylchreest/toasty/internal/toast"
)

// HistorySource is the source recorded for toasts that did not arrive over
// D-Bus.
const HistorySource = "toastyd"

// Options configures a Daemon. Renderer and Executor decide where toasts
// appear and which goroutine owns the center.
type Options struct {
	Config     *config.Config
	ConfigPath string // empty = default location
	Version    string

	Renderer toast.Renderer // nil renders nothing
	Executor toast.Executor
	Clock    toast.Clock // nil = system clock

	// OnConfig runs on the executor after a config reload, for renderer
	// specific settings.
	OnConfig func(*config.Config)

	AudioSink audio.Sink           // nil = system speaker
	Registry  *prometheus.Registry // nil = private registry
	Logger    *slog.Logger
}

// Daemon wires the center to its stores, observers and bridges.
type Daemon struct {
	logger  *slog.Logger
	opts    Options
	version string

	mu  sync.Mutex
	cfg *config.Config

	center      *toast.Center
	transitions *toast.DelayTransitions
	metrics     *metrics.Metrics
	registry    *prometheus.Registry

	flash       toast.FlashStore
	flashCloser io.Closer
	history     *history.Log
	recorder    *history.Recorder
	audio       *audio.Manager
	notifier    *Notifier

	dbus    *dbus.Server
	http    *http.Server
	watcher *config.Watcher

	cancel context.CancelFunc
	bg     sync.WaitGroup
}

// New opens the stores and builds the center. Nothing is started.
func New(ctx context.Context, opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Executor == nil {
		return nil, errors.New("daemon requires an executor")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = toast.SystemClock()
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	d := &Daemon{
		logger:      logger,
		opts:        opts,
		version:     opts.Version,
		cfg:         cfg,
		registry:    registry,
		transitions: toast.NewDelayTransitions(clock, cfg.Toast.ExitAnimation.Duration()),
		metrics:     metrics.New(metrics.WithRegistry(registry)),
		audio:       audio.NewManager(cfg, opts.AudioSink, logger.With("component", "audio")),
	}

	store, closer, err := OpenFlash(ctx, cfg, logger.With("component", "flash"))
	if err != nil {
		return nil, err
	}
	d.flash = d.metrics.InstrumentFlash(store)
	d.flashCloser = closer

	historyLogger := logger.With("component", "history")
	d.history, err = OpenHistory(cfg, historyLogger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	CompactHistory(d.history, cfg, historyLogger)

	centerOpts := []toast.Option{
		toast.WithLogger(logger.With("component", "center")),
		toast.WithClock(clock),
		toast.WithTransitions(d.transitions),
		toast.WithDefaultDuration(cfg.Toast.DefaultDuration.Duration()),
		toast.WithFlashStore(d.flash),
		toast.WithObserver(d.metrics.Observe),
		toast.WithObserver(d.audio.Observe),
	}
	if d.history != nil {
		d.recorder = history.NewRecorder(d.history, HistorySource, logger)
		centerOpts = append(centerOpts, toast.WithObserver(d.recorder.Observe))
	}
	if cfg.DBus.Enabled {
		d.dbus = dbus.NewServer(logger.With("component", "dbus"))
		d.dbus.SetReplace(cfg.DBus.Replace)
		info := dbus.DefaultServerInfo()
		if opts.Version != "" {
			info.Version = opts.Version
		}
		d.dbus.SetServerInfo(info)
		d.dbus.SetNotifyHandler(d.handleNotify)
		centerOpts = append(centerOpts, toast.WithObserver(d.dbus.Observe))
	}

	d.center = toast.NewCenter(opts.Renderer, opts.Executor, centerOpts...)
	d.notifier = NewNotifier(d.center, d.recorder, logger)
	return d, nil
}

// Center returns the daemon's center.
func (d *Daemon) Center() *toast.Center { return d.center }

// Flash returns the instrumented flash store.
func (d *Daemon) Flash() toast.FlashStore { return d.flash }

// Notifier returns the notifier for internal toasts.
func (d *Daemon) Notifier() *Notifier { return d.notifier }

// Config returns the current configuration.
func (d *Daemon) Config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Handler returns the HTTP control API.
func (d *Daemon) Handler() http.Handler {
	return api.NewHandler(api.Options{
		Center:  d.center,
		Flash:   d.flash,
		Metrics: metrics.Handler(d.registry),
		Logger:  d.logger.With("component", "http"),
	})
}

// Start brings up the bridges and watchers, then takes the on-start
// flashes. A D-Bus failure is fatal; audio and config watching only log.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, d.cancel = context.WithCancel(ctx)
	cfg := d.Config()

	if d.dbus != nil {
		if err := d.dbus.Start(); err != nil {
			return fmt.Errorf("failed to start dbus server: %w", err)
		}
	}

	if cfg.HTTP.Enabled {
		if err := d.serveHTTP(cfg.HTTP.Listen); err != nil {
			d.stopDBus()
			return err
		}
	}

	if err := d.audio.Start(ctx); err != nil {
		d.logger.Warn("failed to start audio", "error", err)
	}
	d.watchConfig(ctx)

	d.takeOnStart(ctx, cfg.Flash.OnStart)
	d.logger.Info("toastyd started", "version", d.version)
	return nil
}

func (d *Daemon) serveHTTP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	d.http = &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := d.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("http server stopped", "error", err)
		}
	}()
	d.logger.Info("http api listening", "addr", ln.Addr().String())
	return nil
}

// takeOnStart shows the flashes parked for the next start. Store IO runs on
// its own goroutine; only the show is posted to the executor.
func (d *Daemon) takeOnStart(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	d.bg.Add(1)
	go func() {
		defer d.bg.Done()
		for _, key := range keys {
			e, ok, err := d.flash.Take(ctx, key)
			switch {
			case err != nil:
				d.logger.Warn("failed to take flash", "key", key, "error", err)
				d.notifier.NotifyFlashError(key, err)
			case ok:
				d.center.Post(func() {
					n := d.center.Show(e.Category, e.Content, e.Duration)
					d.logger.Debug("showing flash", "key", key, "id", n.ID())
				})
			}
		}
	}()
}

// handleNotify turns a D-Bus Notify call into a toast. It runs on the bus
// goroutine.
func (d *Daemon) handleNotify(req *dbus.Request, id uint32) {
	d.center.Post(func() {
		n := d.center.New(req.Content(), req.Category()).SetDuration(req.Duration())
		if d.recorder != nil {
			if req.Transient() {
				d.recorder.Skip(n)
			} else {
				d.recorder.Tag(n, req.Source())
			}
		}
		d.dbus.Track(n.ID(), id)
		n.Show()
	})
}

func (d *Daemon) stopDBus() {
	if d.dbus == nil {
		return
	}
	if err := d.dbus.Stop(); err != nil {
		d.logger.Warn("error stopping dbus server", "error", err)
	}
}

// Stop shuts everything down. Toasts still visible or queued are dropped.
func (d *Daemon) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}
	d.bg.Wait()
	var errs []error

	if d.http != nil {
		if err := d.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop http server: %w", err))
		}
	}
	d.stopDBus()
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	d.audio.Stop()

	if d.history != nil {
		if err := d.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close history: %w", err))
		}
	}
	if err := d.flashCloser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close flash store: %w", err))
	}

	d.logger.Info("toastyd stopped")
	return errors.Join(errs...)
}
