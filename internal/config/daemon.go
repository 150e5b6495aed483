package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "1500ms", "2s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Try parsing as integer (milliseconds)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '1500ms', '2s', '1m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Milliseconds returns the duration in milliseconds.
func (d Duration) Milliseconds() int {
	return int(time.Duration(d).Milliseconds())
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the configuration shared by toasty and toastyd.
type Config struct {
	Toast   ToastConfig   `toml:"toast"`
	Display DisplayConfig `toml:"display"`
	Flash   FlashConfig   `toml:"flash"`
	History HistoryConfig `toml:"history"`
	Audio   AudioConfig   `toml:"audio"`
	HTTP    HTTPConfig    `toml:"http"`
	DBus    DBusConfig    `toml:"dbus"`
	TUI     TUIConfig     `toml:"tui"`
}

// ToastConfig contains scheduling settings.
type ToastConfig struct {
	DefaultDuration Duration `toml:"default_duration"` // used when a toast has no duration
	ExitAnimation   Duration `toml:"exit_animation"`   // time the hide transition takes, 0 = immediate
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	Renderer    string  `toml:"renderer"`     // "gtk", "terminal" or "none"
	Position    string  `toml:"position"`     // "top-right", "top-left", etc.
	OffsetX     int     `toml:"offset_x"`     // Pixels from screen edge
	OffsetY     int     `toml:"offset_y"`     // Pixels from screen edge
	Width       int     `toml:"width"`        // Popup width in pixels
	Opacity     float64 `toml:"opacity"`      // 0.0-1.0
	Theme       string  `toml:"theme"`        // Theme name without .css extension
	ColorScheme string  `toml:"color_scheme"` // "system", "light", or "dark"
	Monitor     int     `toml:"monitor"`      // 0 = compositor default, 1+ = specific monitor
}

// FlashConfig selects and configures the flash store.
type FlashConfig struct {
	Backend     string   `toml:"backend"`      // "file", "redis" or "memory"
	Path        string   `toml:"path"`         // file backend, empty = default
	RedisURL    string   `toml:"redis_url"`    // redis backend
	RedisPrefix string   `toml:"redis_prefix"` // key prefix, empty = "toasty:flash:"
	TTL         Duration `toml:"ttl"`          // redis expiry, 0 = never
	OnStart     []string `toml:"on_start"`     // keys taken and shown when toastyd starts
}

// HistoryConfig controls the log of finished toasts.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`        // empty = default
	MaxEntries int    `toml:"max_entries"` // entries kept on compaction, 0 = unlimited
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool              `toml:"enabled"`
	Volume  int               `toml:"volume"` // 0-100
	Sounds  map[string]string `toml:"sounds"` // category -> sound file
}

// HTTPConfig controls the HTTP control API.
type HTTPConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// DBusConfig controls the org.freedesktop.Notifications bridge.
type DBusConfig struct {
	Enabled bool `toml:"enabled"`
	Replace bool `toml:"replace"` // take the name from a running notification daemon
}

// TUIConfig holds TUI-specific settings.
type TUIConfig struct {
	HistorySize      int    `toml:"history_size"`      // finished toasts listed
	ClipboardCommand string `toml:"clipboard_command"` // Auto-detected if empty
}

// Renderer names.
const (
	RendererGTK      = "gtk"
	RendererTerminal = "terminal"
	RendererNone     = "none"
)

// Flash backend names.
const (
	FlashBackendFile   = "file"
	FlashBackendRedis  = "redis"
	FlashBackendMemory = "memory"
)

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// Position represents a popup position on screen.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopRight     Position = "top-right"
	PositionTopCenter    Position = "top-center"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomCenter Position = "bottom-center"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionTopCenter,
		PositionBottomLeft,
		PositionBottomRight,
		PositionBottomCenter,
	}
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Toast: ToastConfig{
			DefaultDuration: Duration(1500 * time.Millisecond),
			ExitAnimation:   Duration(200 * time.Millisecond),
		},
		Display: DisplayConfig{
			Renderer:    RendererGTK,
			Position:    string(PositionTopRight),
			OffsetX:     10,
			OffsetY:     10,
			Width:       350,
			Opacity:     1.0,
			Theme:       "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Flash: FlashConfig{
			Backend: FlashBackendFile,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
			Sounds:  map[string]string{},
		},
		HTTP: HTTPConfig{
			Enabled: false,
			Listen:  "127.0.0.1:7272",
		},
		DBus: DBusConfig{
			Enabled: true,
		},
		TUI: TUIConfig{
			HistorySize: 50,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Toast.DefaultDuration <= 0 {
		return fmt.Errorf("toast.default_duration must be positive, got %s", c.Toast.DefaultDuration.Duration())
	}
	if c.Toast.ExitAnimation < 0 {
		return fmt.Errorf("toast.exit_animation cannot be negative, got %s", c.Toast.ExitAnimation.Duration())
	}

	renderers := []string{RendererGTK, RendererTerminal, RendererNone}
	if !slices.Contains(renderers, c.Display.Renderer) {
		return fmt.Errorf("invalid renderer %q, must be one of: %v", c.Display.Renderer, renderers)
	}
	if !slices.Contains(ValidPositions(), Position(c.Display.Position)) {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Display.Position, ValidPositions())
	}
	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}
	if c.Display.Opacity < 0 || c.Display.Opacity > 1 {
		return fmt.Errorf("opacity must be between 0.0 and 1.0, got %v", c.Display.Opacity)
	}
	if c.Display.Monitor < 0 {
		return fmt.Errorf("monitor must be >= 0, got %d", c.Display.Monitor)
	}
	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Display.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Display.ColorScheme, ValidColorSchemes())
	}

	switch c.Flash.Backend {
	case FlashBackendFile, FlashBackendMemory:
	case FlashBackendRedis:
		if c.Flash.RedisURL == "" {
			return fmt.Errorf("flash.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid flash backend %q, must be one of: file, redis, memory", c.Flash.Backend)
	}
	if c.Flash.TTL < 0 {
		return fmt.Errorf("flash.ttl cannot be negative")
	}
	for _, key := range c.Flash.OnStart {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("flash.on_start contains an empty key")
		}
	}

	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries cannot be negative, got %d", c.History.MaxEntries)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if c.TUI.HistorySize < 0 {
		return fmt.Errorf("tui.history_size cannot be negative, got %d", c.TUI.HistorySize)
	}

	if c.HTTP.Enabled && c.HTTP.Listen == "" {
		return fmt.Errorf("http.listen is required when http is enabled")
	}

	return nil
}

// FlashFile returns the configured flash file path or the default.
func (c *Config) FlashFile() string {
	if c.Flash.Path != "" {
		return expandPath(c.Flash.Path)
	}
	return FlashPath()
}

// HistoryFile returns the configured history path or the default.
func (c *Config) HistoryFile() string {
	if c.History.Path != "" {
		return expandPath(c.History.Path)
	}
	return HistoryPath()
}

// SoundForCategory returns the sound file for the given category, or "".
// Expands ~ to home directory.
func (c *Config) SoundForCategory(category string) string {
	return expandPath(c.Audio.Sounds[category])
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
