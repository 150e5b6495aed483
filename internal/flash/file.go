package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// fileSchemaVersion is written into every flash file.
const fileSchemaVersion = 1

type fileContents struct {
	SchemaVersion int                    `json:"schema_version"`
	Entries       map[string]model.Flash `json:"entries"`
}

// FileStore keeps flashes in a single JSON file. Every Put and Take holds an
// flock on path+".lock" while it reads the file, modifies it and renames a
// fresh copy over it, so separate processes (toasty and toastyd) can share it.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a store backed by path. The file is created lazily.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Put stores e under key, replacing any previous entry.
func (s *FileStore) Put(_ context.Context, key string, e toast.FlashEntry) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	return s.locked(func() error {
		contents, err := s.load()
		if err != nil {
			return err
		}
		contents.Entries[key] = toRecord(e, time.Now())
		return s.save(contents)
	})
}

// Take removes and returns the entry under key.
func (s *FileStore) Take(_ context.Context, key string) (toast.FlashEntry, bool, error) {
	if key == "" {
		return toast.FlashEntry{}, false, ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return toast.FlashEntry{}, false, ErrStoreClosed
	}

	var (
		r  model.Flash
		ok bool
	)
	err := s.locked(func() error {
		contents, err := s.load()
		if err != nil {
			return err
		}
		if r, ok = contents.Entries[key]; !ok {
			return nil
		}
		delete(contents.Entries, key)
		return s.save(contents)
	})
	if err != nil || !ok {
		return toast.FlashEntry{}, false, err
	}
	return fromRecord(r), true, nil
}

// Keys returns the keys currently stored.
func (s *FileStore) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var contents *fileContents
	err := s.locked(func() (err error) {
		contents, err = s.load()
		return err
	})
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(contents.Entries))
	for k := range contents.Entries {
		keys = append(keys, k)
	}
	return keys, nil
}

// Close marks the store closed. Later calls return ErrStoreClosed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// locked runs fn while holding the cross-process lock.
func (s *FileStore) locked(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create flash directory: %w", err)
	}
	lock := newFileLock(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock flash file: %w", err)
	}
	err := fn()
	if uerr := lock.Unlock(); uerr != nil {
		s.logger.Warn("failed to unlock flash file", "path", s.path, "error", uerr)
	}
	return err
}

// load reads the file. A missing file is empty; a corrupt one is logged and
// treated as empty so a bad write never wedges flashes forever.
func (s *FileStore) load() (*fileContents, error) {
	contents := &fileContents{
		SchemaVersion: fileSchemaVersion,
		Entries:       make(map[string]model.Flash),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return contents, nil
		}
		return nil, fmt.Errorf("failed to read flash file: %w", err)
	}

	if err := json.Unmarshal(data, contents); err != nil {
		s.logger.Warn("discarding corrupt flash file", "path", s.path, "error", err)
		return &fileContents{SchemaVersion: fileSchemaVersion, Entries: make(map[string]model.Flash)}, nil
	}
	if contents.Entries == nil {
		contents.Entries = make(map[string]model.Flash)
	}
	return contents, nil
}

// save replaces the file through a unique temp file. Call it under the lock.
func (s *FileStore) save(contents *fileContents) error {
	contents.SchemaVersion = fileSchemaVersion
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode flash file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "flash-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create flash temp file: %w", err)
	}
	_, err = tmp.Write(data)
	if serr := tmp.Sync(); err == nil {
		err = serr
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), s.path)
	}
	if err != nil {
		if rerr := os.Remove(tmp.Name()); rerr != nil && !os.IsNotExist(rerr) {
			s.logger.Warn("failed to remove flash temp file", "path", tmp.Name(), "error", rerr)
		}
		return fmt.Errorf("failed to write flash file: %w", err)
	}
	return nil
}
