package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *Record {
	r := NewRecord("test")
	r.Category = "success"
	r.Content = "saved"
	r.DurationMS = 1500
	return r
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("toastyd")

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "toastyd", r.Source)
	assert.Greater(t, r.CreatedAt, int64(0))
	require.NoError(t, r.Validate())
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Record)
		wantErr error
	}{
		{
			name:    "valid record",
			modify:  func(r *Record) {},
			wantErr: nil,
		},
		{
			name:    "unknown category is fine",
			modify:  func(r *Record) { r.Category = "anything-goes" },
			wantErr: nil,
		},
		{
			name:    "empty content is fine",
			modify:  func(r *Record) { r.Content = "" },
			wantErr: nil,
		},
		{
			name:    "empty id",
			modify:  func(r *Record) { r.ID = "" },
			wantErr: ErrEmptyID,
		},
		{
			name:    "malformed id",
			modify:  func(r *Record) { r.ID = "not-a-ulid" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "missing created_at",
			modify:  func(r *Record) { r.CreatedAt = 0 },
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "negative duration",
			modify:  func(r *Record) { r.DurationMS = -1 },
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.modify(r)
			err := r.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecord_Visible(t *testing.T) {
	r := validRecord()
	assert.Zero(t, r.Visible())

	r.ShownAt = 1000
	r.DoneAt = 2800
	assert.Equal(t, 1800*time.Millisecond, r.Visible())

	r.DoneAt = 500
	assert.Zero(t, r.Visible())
}

func TestRecord_Duration(t *testing.T) {
	r := validRecord()
	assert.Equal(t, 1500*time.Millisecond, r.Duration())
}

func TestRecord_RelativeTime(t *testing.T) {
	r := validRecord()
	r.DoneAt = time.Now().Add(-3 * time.Minute).UnixMilli()
	assert.Equal(t, "3 minutes ago", r.RelativeTime())

	r.DoneAt = 0
	r.CreatedAt = time.Now().Add(-2 * time.Hour).UnixMilli()
	assert.Equal(t, "2 hours ago", r.RelativeTime())
}

func TestRecord_ContentTruncated(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"tiny", "hello", 2, "he"},
		{"zero", "hello", 0, ""},
		{"whitespace collapsed", "a\n\n  b\tc", 10, "a b c"},
		{"multibyte", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{Content: tt.content}
			assert.Equal(t, tt.want, r.ContentTruncated(tt.maxLen))
		})
	}
}

func TestRecord_Clone(t *testing.T) {
	r := validRecord()
	c := r.Clone()
	c.Content = "changed"
	assert.Equal(t, "saved", r.Content)
}
