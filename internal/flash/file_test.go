package flash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/toast"
	"github.com/jmylchreest/toasty/internal/toast/toasttest"
)

func TestFileStore_PutTake(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "flash.json")
	s := NewFileStore(path, nil)

	require.NoError(t, s.Put(ctx, "k", toast.FlashEntry{Category: toast.Error, Content: "oops", Duration: 2 * time.Second}))

	_, err := os.Stat(path)
	require.NoError(t, err, "file should be created with parent directories")

	e, ok, err := s.Take(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, toast.Error, e.Category)
	assert.Equal(t, "oops", e.Content)
	assert.Equal(t, 2*time.Second, e.Duration)

	_, ok, err = s.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "second take must yield nothing")
}

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)

	_, ok, err := s.Take(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flash.json")

	writer := NewFileStore(path, nil)
	require.NoError(t, writer.Put(ctx, "deploy", toast.FlashEntry{Category: toast.Success, Content: "shipped"}))

	reader := NewFileStore(path, nil)
	e, ok, err := reader.Take(ctx, "deploy")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "shipped", e.Content)
	assert.Zero(t, e.Duration)
}

func TestFileStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)

	require.NoError(t, s.Put(ctx, "k", toast.FlashEntry{Category: toast.Info, Content: "first"}))
	require.NoError(t, s.Put(ctx, "k", toast.FlashEntry{Category: toast.Warning, Content: "second"}))

	e, ok, err := s.Take(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", e.Content)
	assert.Equal(t, toast.Warning, e.Category)
}

func TestFileStore_Keys(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)

	require.NoError(t, s.Put(ctx, "a", toast.FlashEntry{Content: "1"}))
	require.NoError(t, s.Put(ctx, "b", toast.FlashEntry{Content: "2"}))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestFileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flash.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := NewFileStore(path, nil)
	_, ok, err := s.Take(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "k", toast.FlashEntry{Content: "recovered"}))
	e, ok, err := s.Take(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "recovered", e.Content)
}

func TestFileStore_EmptyKey(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)

	assert.ErrorIs(t, s.Put(context.Background(), "", toast.FlashEntry{}), ErrEmptyKey)
	_, _, err := s.Take(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestFileStore_Closed(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Put(context.Background(), "k", toast.FlashEntry{}), ErrStoreClosed)
	_, _, err := s.Take(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestFileStore_NoTempFileLeft(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "flash.json"), nil)
	require.NoError(t, s.Put(context.Background(), "k", toast.FlashEntry{Content: "x"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"flash.json", "flash.json.lock"}, names)
}

func TestFileStore_ConcurrentStoresOnOnePath(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flash.json")
	stores := []*FileStore{NewFileStore(path, nil), NewFileStore(path, nil)}

	const perStore = 50
	var wg sync.WaitGroup
	for i, s := range stores {
		for j := range perStore {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key := fmt.Sprintf("s%d-%d", i, j)
				assert.NoError(t, s.Put(ctx, key, toast.FlashEntry{Content: key}))
			}()
		}
	}
	wg.Wait()

	keys, err := NewFileStore(path, nil).Keys()
	require.NoError(t, err)
	assert.Len(t, keys, len(stores)*perStore)
}

func TestFileStore_ConcurrentTakeAcrossStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flash.json")
	require.NoError(t, NewFileStore(path, nil).Put(ctx, "k", toast.FlashEntry{Content: "once"}))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// A store per goroutine, like separate processes.
			_, ok, err := NewFileStore(path, nil).Take(ctx, "k")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, taken)
}

func TestFileStore_ConcurrentTakeOnce(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)
	require.NoError(t, s.Put(ctx, "k", toast.FlashEntry{Content: "once"}))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		taken int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := s.Take(ctx, "k")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, taken)
}

func TestFileStore_WithCenter(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "flash.json"), nil)
	c := toast.NewCenter(nil, toast.Inline{}, toast.WithFlashStore(s), toast.WithClock(toasttest.NewFakeClock()))

	require.NoError(t, c.Flash(ctx, "k", toast.Error, "oops", 2000*time.Millisecond))

	n, ok, err := c.TakeFlash(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, toast.Error, n.Category())
	assert.Equal(t, "oops", n.Content())
	assert.Equal(t, 2000*time.Millisecond, n.Duration())
	assert.Equal(t, toast.Active, n.State())

	n, ok, err = c.TakeFlash(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, n)
}
