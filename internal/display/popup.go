package display

import (
	"log/slog"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Popup is the window for one active toast.
type Popup struct {
	window *gtk.Window
	box    *gtk.Box
	logger *slog.Logger
	id     string
	closed bool
}

var _ toast.Element = (*Popup)(nil)

func newPopup(app *gtk.Application, n *toast.Notification, cfg config.DisplayConfig, layout *Layout, logger *slog.Logger) *Popup {
	p := &Popup{logger: logger, id: n.ID()}

	p.window = gtk.NewWindow()
	if app != nil {
		p.window.SetApplication(app)
	}
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(cfg.Width, -1)
	p.window.SetSizeRequest(cfg.Width, -1)
	if cfg.Opacity < 1 {
		p.window.SetOpacity(cfg.Opacity)
	}

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "toasty")
	layout.Place(p.window, cfg)

	p.box = buildBox(n)
	p.box.AddCSSClass(colorSchemeClass(config.ColorScheme(cfg.ColorScheme)))
	if cfg.Opacity < 1 {
		p.box.AddCSSClass("translucent")
	}
	p.box.AddCSSClass("entering")
	p.window.SetChild(p.box)

	return p
}

func buildBox(n *toast.Notification) *gtk.Box {
	box := gtk.NewBox(gtk.OrientationVertical, 4)
	box.AddCSSClass("toast")
	if class := sanitizeClassName(string(n.Category())); class != "" {
		box.AddCSSClass("category-" + class)
	}

	header := gtk.NewBox(gtk.OrientationHorizontal, 6)
	header.AddCSSClass("toast-header")

	icon := gtk.NewImage()
	icon.AddCSSClass("toast-icon")
	icon.SetFromIconName(iconName(n.Category()))
	header.Append(icon)

	category := gtk.NewLabel(string(n.Category()))
	category.AddCSSClass("toast-category")
	category.SetXAlign(0)
	header.Append(category)
	box.Append(header)

	content := gtk.NewLabel(n.Content())
	content.AddCSSClass("toast-content")
	content.SetXAlign(0)
	content.SetWrap(true)
	content.SetWrapMode(2) // PANGO_WRAP_WORD_CHAR
	content.SetMaxWidthChars(50)
	box.Append(content)

	return box
}

// Insert presents the window.
func (p *Popup) Insert() {
	p.window.Present()
}

// MarkEntering drops the entering class on the next idle so the theme's
// transition runs from the entering style to the resting one.
func (p *Popup) MarkEntering() {
	glib.IdleAdd(func() {
		if !p.closed {
			p.box.RemoveCSSClass("entering")
		}
	})
}

// MarkExiting starts the theme's exit transition.
func (p *Popup) MarkExiting() {
	p.box.AddCSSClass("hide")
}

// Remove closes the window.
func (p *Popup) Remove() {
	if p.closed {
		return
	}
	p.closed = true
	p.window.Close()
	p.logger.Debug("closed toast window", "id", p.id)
}

func iconName(c toast.Category) string {
	switch c {
	case toast.Warning:
		return "dialog-warning-symbolic"
	case toast.Success:
		return "emblem-ok-symbolic"
	case toast.Error:
		return "dialog-error-symbolic"
	default:
		return "dialog-information-symbolic"
	}
}

// sanitizeClassName lowercases name and collapses anything outside [a-z0-9]
// into single hyphens.
func sanitizeClassName(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func colorSchemeClass(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		if adw.StyleManagerGetDefault().Dark() {
			return "dark"
		}
		return "light"
	}
}
