package toast_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/toast"
)

func TestLoop_RunsInOrder(t *testing.T) {
	loop := toast.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		loop.Post(func() { got = append(got, i) })
	}
	loop.Post(func() { close(done) })

	go func() { _ = loop.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not drain")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_PostFromLoopDoesNotBlock(t *testing.T) {
	loop := toast.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	done := make(chan struct{})
	loop.Post(func() {
		for i := 0; i < 100; i++ {
			loop.Post(func() {})
		}
		loop.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("nested posts did not run")
	}
}

func TestLoop_StopsOnCancel(t *testing.T) {
	loop := toast.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestCall(t *testing.T) {
	v, err := toast.Call(context.Background(), toast.Inline{}, func() int { return 42 })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCenter_OnRealLoop(t *testing.T) {
	loop := toast.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	c := toast.NewCenter(nil, loop, toast.WithDefaultDuration(10*time.Millisecond))

	ns, err := toast.Call(ctx, loop, func() []*toast.Notification {
		return []*toast.Notification{
			c.Info("a", 0),
			c.Info("b", 0),
			c.Info("c", 0),
		}
	})
	require.NoError(t, err)

	for _, n := range ns {
		select {
		case <-n.Done():
		case <-time.After(2 * time.Second):
			t.Fatalf("%s never finished", n.Content())
		}
	}

	idle, err := toast.Call(ctx, loop, c.Idle)
	require.NoError(t, err)
	assert.True(t, idle)
}
