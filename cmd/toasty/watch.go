package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/dbus"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Mirror desktop notifications as terminal toasts",
	Long: `Watch the session bus for notifications sent to the running notification
daemon (dunst, mako, toastyd, ...) and show each one as a toast in this
terminal. Nothing is claimed on the bus; press Ctrl-C to stop.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := newLocal(nil)
	defer l.close()

	monitor := dbus.NewMonitor(logger)
	monitor.SetNotifyHandler(func(req *dbus.Request, id uint32) {
		l.center.Post(func() {
			n := l.center.New(req.Content(), req.Category()).SetDuration(req.Duration())
			// Mirrored toasts keep the sender as their source.
			if l.rec != nil {
				l.rec.Tag(n, req.Source())
			}
			logger.Debug("mirroring notification", "id", id, "source", req.Source())
			n.Show()
		})
	})
	if err := monitor.Start(); err != nil {
		return err
	}
	defer monitor.Stop()

	if err := l.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
