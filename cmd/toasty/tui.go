package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/daemon"
	"github.com/jmylchreest/toasty/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive toast playground",
	Long: `Launch a terminal playground for the toast queue.

Compose toasts, watch them activate one at a time while the rest wait in
line, park a flash and take it back. Finished toasts are written to the
history file.

Key bindings:
  enter         Show the composed toast
  tab/S-tab     Next/previous category
  ctrl+↑/↓      Longer/shorter duration
  ctrl+f        Park the composed toast as a flash
  ctrl+t        Take the parked flash
  ctrl+x        Hide the active toast now
  ctrl+y        Copy the active toast
  ctrl+l        Clear the recent list
  ctrl+g        Show help
  esc           Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	opts := tui.Options{
		Config: cfg,
		Logger: logger,
	}

	store, closer, err := openFlash(cmd)
	if err != nil {
		logger.Warn("flash disabled", "error", err)
	} else {
		defer closer.Close()
		opts.Flash = store
	}

	log, err := daemon.OpenHistory(cfg, logger)
	if err != nil {
		logger.Warn("history disabled", "error", err)
	} else if log != nil {
		defer log.Close()
		opts.History = log
	}

	return tui.Run(opts)
}
