package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/config"
)

// edge is a screen edge a toast is anchored to, with its margin.
type edge struct {
	edge   layershell.LayerShellEdge
	margin int
}

// anchors returns the edges a toast at pos is pinned to. Centered positions
// anchor only vertically and let the compositor center horizontally.
func anchors(pos config.Position, offsetX, offsetY int) []edge {
	switch pos {
	case config.PositionTopLeft:
		return []edge{{layershell.LayerShellEdgeTop, offsetY}, {layershell.LayerShellEdgeLeft, offsetX}}
	case config.PositionTopCenter:
		return []edge{{layershell.LayerShellEdgeTop, offsetY}}
	case config.PositionBottomLeft:
		return []edge{{layershell.LayerShellEdgeBottom, offsetY}, {layershell.LayerShellEdgeLeft, offsetX}}
	case config.PositionBottomRight:
		return []edge{{layershell.LayerShellEdgeBottom, offsetY}, {layershell.LayerShellEdgeRight, offsetX}}
	case config.PositionBottomCenter:
		return []edge{{layershell.LayerShellEdgeBottom, offsetY}}
	default:
		return []edge{{layershell.LayerShellEdgeTop, offsetY}, {layershell.LayerShellEdgeRight, offsetX}}
	}
}

// Layout places toast windows on screen.
type Layout struct {
	display *gdk.Display
	logger  *slog.Logger
}

// NewLayout creates a layout for display.
func NewLayout(display *gdk.Display, logger *slog.Logger) *Layout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Layout{display: display, logger: logger}
}

// Place anchors window according to cfg and selects its monitor.
func (l *Layout) Place(window *gtk.Window, cfg config.DisplayConfig) {
	for _, e := range []layershell.LayerShellEdge{
		layershell.LayerShellEdgeTop,
		layershell.LayerShellEdgeBottom,
		layershell.LayerShellEdgeLeft,
		layershell.LayerShellEdgeRight,
	} {
		layershell.SetAnchor(window, e, false)
	}
	for _, a := range anchors(config.Position(cfg.Position), cfg.OffsetX, cfg.OffsetY) {
		layershell.SetAnchor(window, a.edge, true)
		layershell.SetMargin(window, a.edge, a.margin)
	}

	if m := l.monitor(cfg.Monitor); m != nil {
		layershell.SetMonitor(window, m)
	}
}

// monitor returns the 1-indexed monitor n, the first monitor when n is out
// of range, or nil for n == 0 to let the compositor choose.
func (l *Layout) monitor(n int) *gdk.Monitor {
	if n == 0 || l.display == nil {
		return nil
	}
	monitors := l.display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}

	index := uint(n - 1)
	if index >= monitors.NItems() {
		l.logger.Warn("configured monitor not available, using first",
			"configured", n,
			"available", monitors.NItems(),
		)
		index = 0
	}
	return wrapMonitor(monitors.Item(index))
}

// wrapMonitor converts a list item into a *gdk.Monitor. gotk4 does not export
// its wrapper, but gdk.Monitor is layout-compatible with this struct.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	return (*gdk.Monitor)(unsafe.Pointer(&monitor{Object: obj}))
}
