package flash

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Errors returned by all stores.
var (
	ErrEmptyKey    = errors.New("flash key cannot be empty")
	ErrStoreClosed = errors.New("flash store is closed")
)

// DataDir returns the toasty data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/toasty.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "toasty"), nil
}

// DefaultPath returns the default location of the flash file.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flash.json"), nil
}

func toRecord(e toast.FlashEntry, now time.Time) model.Flash {
	return model.Flash{
		Category:   string(e.Category),
		Content:    e.Content,
		DurationMS: e.Duration.Milliseconds(),
		StoredAt:   now.UnixMilli(),
	}
}

func fromRecord(r model.Flash) toast.FlashEntry {
	return toast.FlashEntry{
		Category: toast.Category(r.Category),
		Content:  r.Content,
		Duration: time.Duration(r.DurationMS) * time.Millisecond,
	}
}
