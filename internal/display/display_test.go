package display

import (
	"errors"
	"testing"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/toast"
)

func TestSanitizeClassName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"error", "error"},
		{"Build Failed", "build-failed"},
		{"a..b//c", "a-b-c"},
		{"--x--", "x"},
		{"deploy_v2", "deploy-v2"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeClassName(tt.in))
		})
	}
}

func TestIconName(t *testing.T) {
	assert.Equal(t, "dialog-warning-symbolic", iconName(toast.Warning))
	assert.Equal(t, "emblem-ok-symbolic", iconName(toast.Success))
	assert.Equal(t, "dialog-error-symbolic", iconName(toast.Error))
	assert.Equal(t, "dialog-information-symbolic", iconName(toast.Info))
	assert.Equal(t, "dialog-information-symbolic", iconName("deploy"))
}

func TestAnchors(t *testing.T) {
	top, bottom := layershell.LayerShellEdgeTop, layershell.LayerShellEdgeBottom
	left, right := layershell.LayerShellEdgeLeft, layershell.LayerShellEdgeRight

	tests := []struct {
		pos  config.Position
		want []edge
	}{
		{config.PositionTopRight, []edge{{top, 20}, {right, 10}}},
		{config.PositionTopLeft, []edge{{top, 20}, {left, 10}}},
		{config.PositionTopCenter, []edge{{top, 20}}},
		{config.PositionBottomRight, []edge{{bottom, 20}, {right, 10}}},
		{config.PositionBottomLeft, []edge{{bottom, 20}, {left, 10}}},
		{config.PositionBottomCenter, []edge{{bottom, 20}}},
		{"", []edge{{top, 20}, {right, 10}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			assert.Equal(t, tt.want, anchors(tt.pos, 10, 20))
		})
	}
}

func TestColorSchemeClass_Explicit(t *testing.T) {
	assert.Equal(t, "light", colorSchemeClass(config.ColorSchemeLight))
	assert.Equal(t, "dark", colorSchemeClass(config.ColorSchemeDark))
}

func TestDisplayError(t *testing.T) {
	cause := errors.New("wayland socket missing")
	err := &DisplayError{Message: "no display available", Cause: cause}

	assert.Equal(t, "no display available: wayland socket missing", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no display available", (&DisplayError{Message: "no display available"}).Error())
}
