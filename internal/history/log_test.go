package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
)

func testRecord(content string) model.Record {
	return model.Record{
		ID:         ulid.Make().String(),
		Source:     "test",
		Category:   "info",
		Content:    content,
		DurationMS: 1500,
		CreatedAt:  time.Now().UnixMilli(),
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")

	l, err := Open(path, nil)
	require.NoError(t, err)
	defer l.Close()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "toasty_schema_version")
}

func TestLog_AppendAndLoad(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.jsonl"), nil)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Append(testRecord("first")))
	require.NoError(t, l.Append(testRecord("second")))

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Content)
	assert.Equal(t, "second", records[1].Content)

	// Appending still works after a load.
	require.NoError(t, l.Append(testRecord("third")))
	records, err = l.Load()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLog_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	l, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, l.Append(testRecord("kept")))
	require.NoError(t, l.Close())

	l, err = Open(path, nil)
	require.NoError(t, err)
	defer l.Close()

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Content)
}

func TestLog_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	l, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, l.Append(testRecord("good")))
	require.NoError(t, l.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{broken\n{\"id\":\"\",\"created_at\":1}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Content)
}

func TestLog_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"toasty_schema_version\":99,\"created_at\":1}\n"), 0600))

	_, err := ReadFile(path)
	assert.Error(t, err)
}

func TestLog_Compact(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.jsonl"), nil)
	require.NoError(t, err)
	defer l.Close()

	for _, c := range []string{"a", "b", "c", "d"} {
		require.NoError(t, l.Append(testRecord(c)))
	}

	removed, err := l.Compact(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	records, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].Content)
	assert.Equal(t, "d", records[1].Content)

	removed, err = l.Compact(0)
	require.NoError(t, err)
	assert.Zero(t, removed)

	require.NoError(t, l.Append(testRecord("e")))
	records, err = l.Load()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLog_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	l, err := Open(path, nil)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Append(testRecord("gone")))
	require.NoError(t, l.Clear())

	records, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err), "backup should be removed")
}

func TestLog_Closed(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "history.jsonl"), nil)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.ErrorIs(t, l.Append(testRecord("x")), ErrLogClosed)
	_, err = l.Load()
	assert.ErrorIs(t, err, ErrLogClosed)
}

func TestReadFile_Missing(t *testing.T) {
	records, err := ReadFile(filepath.Join(t.TempDir(), "none.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLog_AppendFollowsRewriteByOtherHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	daemonLog, err := Open(path, nil)
	require.NoError(t, err)
	defer daemonLog.Close()
	for i := range 5 {
		require.NoError(t, daemonLog.Append(testRecord(fmt.Sprintf("d%d", i))))
	}

	cliLog, err := Open(path, nil)
	require.NoError(t, err)
	removed, err := cliLog.Compact(3)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	require.NoError(t, cliLog.Close())

	require.NoError(t, daemonLog.Append(testRecord("after")))

	records, err := ReadFile(path)
	require.NoError(t, err)
	var contents []string
	for _, r := range records {
		contents = append(contents, r.Content)
	}
	assert.Equal(t, []string{"d2", "d3", "d4", "after"}, contents)

	loaded, err := daemonLog.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 4)
}

func TestLog_RewriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(filepath.Join(dir, "history.jsonl"), nil)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Append(testRecord("a")))
	require.NoError(t, l.Clear())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history.jsonl", entries[0].Name())

	records, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}
