package tui

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

var errNoClipboard = errors.New("no clipboard command available")

// clipboardCommands are tried in order: Wayland first, then X11.
var clipboardCommands = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// copyText pipes text into the configured clipboard command, or the first
// one found on PATH.
func copyText(text, configured string) error {
	argv := clipboardCommand(configured)
	if len(argv) == 0 {
		return errNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

func clipboardCommand(configured string) []string {
	if argv := strings.Fields(configured); len(argv) > 0 {
		return argv
	}
	for _, argv := range clipboardCommands {
		if _, err := exec.LookPath(argv[0]); err == nil {
			return argv
		}
	}
	return nil
}
