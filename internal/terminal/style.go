// Package terminal renders toasts as boxes in a terminal using lipgloss.
package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toasty/internal/toast"
)

// Colors per category.
var (
	colorWarning = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#E5C07B"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#98C379"}
	colorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#E06C75"}
	colorInfo    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#61AFEF"}
	colorOther   = lipgloss.AdaptiveColor{Light: "#616161", Dark: "#ABB2BF"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#5C6370"}
)

var icons = map[toast.Category]string{
	toast.Warning: "!",
	toast.Success: "✓",
	toast.Error:   "✗",
	toast.Info:    "i",
}

// Color returns the accent color for a category.
func Color(c toast.Category) lipgloss.TerminalColor {
	switch c {
	case toast.Warning:
		return colorWarning
	case toast.Success:
		return colorSuccess
	case toast.Error:
		return colorError
	case toast.Info:
		return colorInfo
	default:
		return colorOther
	}
}

// Icon returns a one-character marker for a category.
func Icon(c toast.Category) string {
	if icon, ok := icons[c]; ok {
		return icon
	}
	return "•"
}

// BoxStyle returns the style of a toast box.
func BoxStyle(c toast.Category, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Color(c)).
		Padding(0, 1).
		Width(width)
}

// Box renders content as a toast box. exiting dims the text.
func Box(c toast.Category, content string, width int, exiting bool) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(Color(c)).
		Render(Icon(c) + " " + string(c))

	body := lipgloss.NewStyle()
	if exiting {
		body = body.Foreground(colorMuted)
	}

	return BoxStyle(c, width).Render(lipgloss.JoinVertical(lipgloss.Left, label, body.Render(content)))
}
