package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/dbus"
	"github.com/jmylchreest/toasty/internal/toast"
)

var sendOpts struct {
	category string
	duration time.Duration
	appName  string
	printID  bool
}

var sendCmd = &cobra.Command{
	Use:   "send CONTENT...",
	Short: "Send a toast to the notification daemon",
	Long: `Send a toast over D-Bus to toastyd, or to whichever notification daemon
owns org.freedesktop.Notifications. The arguments are joined with spaces.

Examples:
  toasty send "backup complete"
  toasty send -c error -d 5s "disk almost full"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.category, "category", "c", string(toast.Info),
		"Toast category (warning, success, error, info or any label)")
	sendCmd.Flags().DurationVarP(&sendOpts.duration, "duration", "d", 0,
		"How long the toast stays visible (0 = daemon default)")
	sendCmd.Flags().StringVarP(&sendOpts.appName, "app-name", "a", "toasty",
		"Application name sent with the toast")
	sendCmd.Flags().BoolVarP(&sendOpts.printID, "print-id", "p", false,
		"Print the notification ID assigned by the daemon")
}

func runSend(cmd *cobra.Command, args []string) error {
	if sendOpts.duration < 0 {
		return fmt.Errorf("duration must be positive")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	client, err := dbus.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	category := toast.ParseCategory(sendOpts.category)
	req := dbus.NewRequest(sendOpts.appName, category, strings.Join(args, " "), sendOpts.duration)
	id, err := client.Notify(ctx, req)
	if err != nil {
		return err
	}
	logger.Debug("sent toast", "id", id, "category", string(category))

	if sendOpts.printID {
		fmt.Println(id)
	}
	return nil
}
