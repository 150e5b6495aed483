package toast

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoFlashStore is returned by Flash and TakeFlash when the center has no store.
var ErrNoFlashStore = errors.New("no flash store configured")

// FlashEntry is a toast saved for display after a restart.
type FlashEntry struct {
	Category Category
	Content  string
	Duration time.Duration // zero means the default
}

// FlashStore keeps flash entries by key. Take removes the entry it returns.
type FlashStore interface {
	Put(ctx context.Context, key string, e FlashEntry) error
	Take(ctx context.Context, key string) (FlashEntry, bool, error)
}

// Flash saves a toast under key for a later TakeFlash. Nothing is shown.
func (c *Center) Flash(ctx context.Context, key string, category Category, content string, d time.Duration) error {
	if c.flash == nil {
		return ErrNoFlashStore
	}
	if err := c.flash.Put(ctx, key, FlashEntry{Category: category, Content: content, Duration: d}); err != nil {
		return fmt.Errorf("failed to store flash %q: %w", key, err)
	}
	c.logger.Debug("stored flash", "key", key, "category", string(category))
	return nil
}

// TakeFlash retrieves and clears the entry under key and shows it.
// It returns false when nothing was stored.
func (c *Center) TakeFlash(ctx context.Context, key string) (*Notification, bool, error) {
	if c.flash == nil {
		return nil, false, ErrNoFlashStore
	}
	e, ok, err := c.flash.Take(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to take flash %q: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	c.logger.Debug("took flash", "key", key, "category", string(e.Category))
	return c.Show(e.Category, e.Content, e.Duration), true, nil
}
