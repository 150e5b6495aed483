package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/config"
	"github.com/jmylchreest/toasty/internal/daemon"
	"github.com/jmylchreest/toasty/internal/toast"
)

var flashOpts struct {
	category string
	duration time.Duration
}

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Park toasts for later",
	Long: `A flash is a toast stored under a key and shown when it is taken. Keys
listed in [flash].on_start are taken by toastyd when it starts.

The store is selected by [flash].backend (file, redis or memory).`,
}

var flashSetCmd = &cobra.Command{
	Use:   "set KEY CONTENT...",
	Short: "Store a toast under KEY",
	Long: `Store a toast under KEY, replacing anything already stored there.

Examples:
  toasty flash set login "welcome back"
  toasty flash set deploy -c error -d 5s "rollback finished"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFlashSet,
}

var flashTakeCmd = &cobra.Command{
	Use:   "take KEY",
	Short: "Show and clear the toast stored under KEY",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlashTake,
}

func init() {
	rootCmd.AddCommand(flashCmd)
	flashCmd.AddCommand(flashSetCmd, flashTakeCmd)

	flashSetCmd.Flags().StringVarP(&flashOpts.category, "category", "c", string(toast.Info),
		"Toast category (warning, success, error, info or any label)")
	flashSetCmd.Flags().DurationVarP(&flashOpts.duration, "duration", "d", 0,
		"How long the toast stays visible (0 = default when shown)")
}

func openFlash(cmd *cobra.Command) (toast.FlashStore, io.Closer, error) {
	return daemon.OpenFlash(cmd.Context(), cfg, logger)
}

func runFlashSet(cmd *cobra.Command, args []string) error {
	if flashOpts.duration < 0 {
		return fmt.Errorf("duration must be positive")
	}
	if cfg.Flash.Backend == config.FlashBackendMemory {
		logger.Warn("memory flash store does not outlive this command")
	}

	store, closer, err := openFlash(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	// Storing shows nothing, so no renderer or loop is needed.
	center := toast.NewCenter(nil, toast.Inline{}, toast.WithFlashStore(store), toast.WithLogger(logger))
	return center.Flash(cmd.Context(), args[0], toast.ParseCategory(flashOpts.category),
		strings.Join(args[1:], " "), flashOpts.duration)
}

func runFlashTake(cmd *cobra.Command, args []string) error {
	store, closer, err := openFlash(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	key := args[0]
	l := newLocal(store)
	return l.run(cmd.Context(), func(c *toast.Center) (*toast.Notification, error) {
		n, ok, err := c.TakeFlash(cmd.Context(), key)
		if err == nil && !ok {
			fmt.Fprintf(os.Stderr, "nothing stored under %q\n", key)
		}
		return n, err
	})
}
