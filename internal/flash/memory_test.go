package flash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/toast"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "k", toast.FlashEntry{Category: "custom", Content: "hi"}))
	assert.Equal(t, 1, s.Len())

	e, ok, err := s.Take(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, toast.Category("custom"), e.Category)
	assert.Equal(t, 0, s.Len())

	_, ok, err = s.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.Put(ctx, "", toast.FlashEntry{}), ErrEmptyKey)
}
