package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Renderer creates a layer-shell window per active toast. It must only be
// used from the GTK main thread.
type Renderer struct {
	app    *gtk.Application
	cfg    config.DisplayConfig
	layout *Layout
	logger *slog.Logger
}

var _ toast.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer. Call Start before the first toast.
func NewRenderer(app *gtk.Application, cfg config.DisplayConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{app: app, cfg: cfg, logger: logger}
}

// Start binds the renderer to the default display.
func (r *Renderer) Start() error {
	display := gdk.DisplayGetDefault()
	if display == nil {
		return &DisplayError{Message: "no display available"}
	}
	r.layout = NewLayout(display, r.logger)
	r.logger.Info("display renderer started", "position", r.cfg.Position)
	return nil
}

// SetConfig applies new display settings to toasts created afterwards.
func (r *Renderer) SetConfig(cfg config.DisplayConfig) {
	r.cfg = cfg
}

// Create builds the window for n.
func (r *Renderer) Create(n *toast.Notification) toast.Element {
	if r.layout == nil {
		r.layout = NewLayout(nil, r.logger)
	}
	r.logger.Debug("creating toast window", "id", n.ID(), "category", n.Category())
	return newPopup(r.app, n, r.cfg, r.layout, r.logger)
}

// DisplayError reports a failure to set up the display.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
