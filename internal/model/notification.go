// Package model defines the serialized forms of toasts used by storage and APIs.
package model

import (
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

// Record is a finished toast as written to the history file.
// Timestamps are Unix milliseconds.
type Record struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Category   string `json:"category"`
	Content    string `json:"content"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  int64  `json:"created_at"`
	ShownAt    int64  `json:"shown_at,omitempty"`
	DoneAt     int64  `json:"done_at,omitempty"`
}

// Flash is a toast parked under a key until it is taken.
type Flash struct {
	Category   string `json:"category"`
	Content    string `json:"content"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	StoredAt   int64  `json:"stored_at"`
}

// Validation errors.
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrInvalidID        = errors.New("id must be a ULID")
	ErrInvalidTimestamp = errors.New("created_at must be greater than 0")
	ErrInvalidDuration  = errors.New("duration_ms cannot be negative")
)

// NewRecord creates a record with a fresh ULID.
func NewRecord(source string) *Record {
	now := time.Now()
	return &Record{
		ID:        ulid.Make().String(),
		Source:    source,
		CreatedAt: now.UnixMilli(),
	}
}

// Validate checks the fields a history line needs to be usable.
// Category and content are free-form and never rejected.
func (r *Record) Validate() error {
	if r.ID == "" {
		return ErrEmptyID
	}
	if _, err := ulid.ParseStrict(r.ID); err != nil {
		return ErrInvalidID
	}
	if r.CreatedAt <= 0 {
		return ErrInvalidTimestamp
	}
	if r.DurationMS < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Duration returns the configured display duration.
func (r *Record) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// CreatedTime returns CreatedAt as a time.Time.
func (r *Record) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt)
}

// Visible returns how long the toast was on screen, including its exit
// transition. Zero if it never finished.
func (r *Record) Visible() time.Duration {
	if r.ShownAt == 0 || r.DoneAt < r.ShownAt {
		return 0
	}
	return time.Duration(r.DoneAt-r.ShownAt) * time.Millisecond
}

// RelativeTime returns a human-readable age, e.g. "3 minutes ago".
func (r *Record) RelativeTime() string {
	ts := r.DoneAt
	if ts == 0 {
		ts = r.CreatedAt
	}
	return humanize.Time(time.UnixMilli(ts))
}

// ContentTruncated returns the content collapsed to one line and cut to maxLen
// characters, with "..." appended when cut.
func (r *Record) ContentTruncated(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	content := []rune(strings.Join(strings.Fields(r.Content), " "))
	if len(content) <= maxLen {
		return string(content)
	}
	if maxLen <= 3 {
		return string(content[:maxLen])
	}
	return string(content[:maxLen-3]) + "..."
}

// Clone returns a copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	return &clone
}
