package main

import (
	"context"
	"errors"
	"os"

	"github.com/jmylchreest/toasty/internal/daemon"
	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/terminal"
	"github.com/jmylchreest/toasty/internal/toast"
)

// historySource marks toasts shown by the CLI itself.
const historySource = "toasty"

// local is a center drawing on stderr, run on its own loop.
type local struct {
	center *toast.Center
	loop   *toast.Loop
	log    *history.Log
	rec    *history.Recorder // nil when history is disabled
}

// newLocal builds a terminal center. flash may be nil.
func newLocal(flash toast.FlashStore) *local {
	loop := toast.NewLoop()
	opts := []toast.Option{
		toast.WithLogger(logger),
		toast.WithDefaultDuration(cfg.Toast.DefaultDuration.Duration()),
		toast.WithTransitions(toast.NewDelayTransitions(nil, cfg.Toast.ExitAnimation.Duration())),
	}
	if flash != nil {
		opts = append(opts, toast.WithFlashStore(flash))
	}

	l := &local{loop: loop}
	log, err := daemon.OpenHistory(cfg, logger)
	if err != nil {
		logger.Warn("history disabled", "error", err)
	} else if log != nil {
		l.log = log
		l.rec = history.NewRecorder(log, historySource, logger)
		opts = append(opts, toast.WithObserver(l.rec.Observe))
	}

	l.center = toast.NewCenter(terminal.NewRenderer(os.Stderr, terminal.WithErase(true)), loop, opts...)
	return l
}

// run starts the loop, calls fn on it and waits for every toast fn shows
// to finish. fn returning nil shows nothing.
func (l *local) run(ctx context.Context, fn func(c *toast.Center) (*toast.Notification, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer l.close()

	errCh := make(chan error, 1)
	go func() { errCh <- l.loop.Run(ctx) }()

	type result struct {
		n   *toast.Notification
		err error
	}
	res, err := toast.Call(ctx, l.loop, func() result {
		n, err := fn(l.center)
		return result{n, err}
	})
	if err == nil {
		err = res.err
	}

	// The queue is FIFO, so the last toast finishing means all have.
	if err == nil && res.n != nil {
		select {
		case <-res.n.Done():
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	cancel()
	if loopErr := <-errCh; loopErr != nil && !errors.Is(loopErr, context.Canceled) && err == nil {
		err = loopErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (l *local) close() {
	if l.log != nil {
		if err := l.log.Close(); err != nil {
			logger.Warn("failed to close history", "error", err)
		}
		l.log = nil
	}
}
