package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/toast"
)

var showOpts struct {
	category string
	duration time.Duration
}

var showCmd = &cobra.Command{
	Use:   "show CONTENT...",
	Short: "Show toasts in this terminal",
	Long: `Show one toast per argument in this terminal, in order, and exit once the
last one has hidden.

Examples:
  toasty show "build finished"
  toasty show --category error --duration 3s "deploy failed"
  toasty show first second third`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showLocal(cmd, toast.ParseCategory(showOpts.category), showOpts.duration, args)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showOpts.category, "category", "c", string(toast.Info),
		"Toast category (warning, success, error, info or any label)")
	showCmd.Flags().DurationVarP(&showOpts.duration, "duration", "d", 0,
		"How long each toast stays visible (0 = configured default)")

	for _, category := range toast.Categories() {
		rootCmd.AddCommand(shortcutCmd(category))
	}
}

// shortcutCmd builds "toasty warn", "toasty success" and friends.
func shortcutCmd(category toast.Category) *cobra.Command {
	name := string(category)
	if category == toast.Warning {
		name = "warn"
	}

	var d time.Duration
	cmd := &cobra.Command{
		Use:   name + " CONTENT...",
		Short: "Show " + string(category) + " toasts in this terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showLocal(cmd, category, d, args)
		},
	}
	cmd.Flags().DurationVarP(&d, "duration", "d", 0,
		"How long each toast stays visible (0 = configured default)")
	return cmd
}

func showLocal(cmd *cobra.Command, category toast.Category, d time.Duration, contents []string) error {
	if d < 0 {
		return fmt.Errorf("duration must be positive")
	}
	l := newLocal(nil)
	return l.run(cmd.Context(), func(c *toast.Center) (*toast.Notification, error) {
		var last *toast.Notification
		for _, content := range contents {
			last = c.Show(category, content, d)
		}
		return last, nil
	})
}
