package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
	"github.com/jmylchreest/toasty/internal/toast/toasttest"
)

type sliceAppender struct {
	records []model.Record
	err     error
}

func (s *sliceAppender) Append(r model.Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

func TestRecorder_RecordsDoneToasts(t *testing.T) {
	out := &sliceAppender{}
	rec := NewRecorder(out, "toastyd", nil)
	clock := toasttest.NewFakeClock()
	c := toast.NewCenter(toasttest.NewRecorder(), toast.Inline{},
		toast.WithClock(clock),
		toast.WithObserver(rec.Observe),
	)

	a := c.Show(toast.Success, "A", time.Second)
	b := c.Error("B", 0)
	rec.Tag(b, "dbus:firefox")

	assert.Empty(t, out.records, "nothing recorded until done")

	clock.Advance(time.Second)
	require.Len(t, out.records, 1)
	ra := out.records[0]
	assert.Equal(t, a.ID(), ra.ID)
	assert.Equal(t, "toastyd", ra.Source)
	assert.Equal(t, "success", ra.Category)
	assert.Equal(t, "A", ra.Content)
	assert.Equal(t, int64(1000), ra.DurationMS)
	assert.Equal(t, time.Second, ra.Visible())
	require.NoError(t, ra.Validate())

	clock.Advance(toast.DefaultDuration)
	require.Len(t, out.records, 2)
	rb := out.records[1]
	assert.Equal(t, b.ID(), rb.ID)
	assert.Equal(t, "dbus:firefox", rb.Source)
	assert.Equal(t, int64(1500), rb.DurationMS)
	assert.Equal(t, toast.DefaultDuration, rb.Visible())
}

func TestRecorder_AppendErrorIsLogged(t *testing.T) {
	out := &sliceAppender{err: errors.New("disk full")}
	rec := NewRecorder(out, "toastyd", nil)
	clock := toasttest.NewFakeClock()
	c := toast.NewCenter(nil, toast.Inline{}, toast.WithClock(clock), toast.WithObserver(rec.Observe))

	c.Info("x", time.Millisecond)
	clock.Advance(time.Millisecond)

	assert.True(t, c.Idle(), "scheduling continues despite history errors")
}

func TestRecorder_Skip(t *testing.T) {
	out := &sliceAppender{}
	rec := NewRecorder(out, "toastyd", nil)
	clock := toasttest.NewFakeClock()
	c := toast.NewCenter(nil, toast.Inline{}, toast.WithClock(clock), toast.WithObserver(rec.Observe))

	transient := c.Info("volume 40%", 100*time.Millisecond)
	rec.Skip(transient)
	c.Info("kept", 100*time.Millisecond)

	clock.Advance(200 * time.Millisecond)
	require.Len(t, out.records, 1)
	assert.Equal(t, "kept", out.records[0].Content)
}
