// Package history records finished toasts in a JSONL file and lists them.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
)

// SchemaVersion is the current history file schema version.
const SchemaVersion = 1

// ErrLogClosed is returned when operations are attempted on a closed log.
var ErrLogClosed = errors.New("history log is closed")

// schemaHeader is the first line of the JSONL file.
type schemaHeader struct {
	ToastySchemaVersion int   `json:"toasty_schema_version"`
	CreatedAt           int64 `json:"created_at"`
}

// Log is an append-only JSONL file of toast records.
type Log struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger *slog.Logger
	closed bool
}

// Open opens or creates the log at path, creating parent directories.
func Open(path string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	l := &Log{path: path, file: file, logger: logger}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := l.writeHeader(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return l, nil
}

// Path returns the file path.
func (l *Log) Path() string { return l.path }

func encodeHeader() ([]byte, error) {
	data, err := json.Marshal(schemaHeader{
		ToastySchemaVersion: SchemaVersion,
		CreatedAt:           time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (l *Log) writeHeader() error {
	data, err := encodeHeader()
	if err != nil {
		return err
	}
	_, err = l.file.Write(data)
	return err
}

// Append writes one record.
func (l *Log) Append(r model.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLogClosed
	}

	if err := l.followPath(); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return l.file.Sync()
}

// Load returns every valid record in file order. Malformed lines are skipped.
func (l *Log) Load() ([]model.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrLogClosed
	}

	if err := l.followPath(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", l.path, err)
	}
	records, err := decode(l.file, l.logger)

	// Seek back to end for appending
	if _, serr := l.file.Seek(0, io.SeekEnd); serr != nil && err == nil {
		err = serr
	}
	return records, err
}

// Compact keeps only the newest keep records. keep <= 0 keeps everything.
// Returns the number of records removed.
func (l *Log) Compact(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	records, err := l.Load()
	if err != nil {
		return 0, err
	}
	if len(records) <= keep {
		return 0, nil
	}

	removed := len(records) - keep
	return removed, l.Rewrite(records[removed:])
}

// Rewrite replaces the file contents with records. The new contents are
// written to a temp file and renamed over the path, so other handles on the
// file follow it on their next Append or Load.
func (l *Log) Rewrite(records []model.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLogClosed
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), "history-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	err = writeRecords(tmp, records)
	if serr := tmp.Sync(); err == nil {
		err = serr
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), l.path)
	}
	if err != nil {
		if rerr := os.Remove(tmp.Name()); rerr != nil && !os.IsNotExist(rerr) {
			l.logger.Warn("failed to remove history temp file", "path", tmp.Name(), "error", rerr)
		}
		return fmt.Errorf("failed to rewrite history: %w", err)
	}

	return l.reopen()
}

func writeRecords(w io.Writer, records []model.Record) error {
	header, err := encodeHeader()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// followPath reopens the log when the file at path is no longer the one
// held open, after another process rewrote or removed it.
func (l *Log) followPath() error {
	pathInfo, err := os.Stat(l.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil {
		fileInfo, err := l.file.Stat()
		if err != nil {
			return err
		}
		if os.SameFile(pathInfo, fileInfo) {
			return nil
		}
	}
	l.logger.Debug("history file replaced, reopening", "path", l.path)
	return l.reopen()
}

// reopen swaps the held handle for a fresh one on path.
func (l *Log) reopen() error {
	file, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", l.path, err)
	}
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			l.logger.Warn("failed to close replaced history file", "error", err)
		}
	}
	l.file = file

	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return l.writeHeader()
	}
	return nil
}

// Clear removes all records.
func (l *Log) Clear() error {
	return l.Rewrite(nil)
}

// Close releases the file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// ReadFile loads records from path without keeping it open. A missing file
// yields no records.
func ReadFile(path string) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	return decode(file, slog.Default())
}

func decode(r io.Reader, logger *slog.Logger) ([]model.Record, error) {
	var records []model.Record

	scanner := bufio.NewScanner(r)
	const maxLineSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var header schemaHeader
			if err := json.Unmarshal(line, &header); err == nil && header.ToastySchemaVersion > 0 {
				if header.ToastySchemaVersion > SchemaVersion {
					return nil, fmt.Errorf("unsupported schema version %d (max: %d)",
						header.ToastySchemaVersion, SchemaVersion)
				}
				continue
			}
		}

		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			logger.Debug("skipping malformed history line", "line", lineNum, "error", err)
			continue
		}
		if err := rec.Validate(); err != nil {
			logger.Debug("skipping invalid history record", "line", lineNum, "error", err)
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("error reading history: %w", err)
	}
	return records, nil
}
