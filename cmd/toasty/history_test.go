package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toasty/internal/model"
)

func TestPrune(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(ago time.Duration) int64 { return now.Add(-ago).UnixMilli() }
	records := []model.Record{
		{ID: "a", CreatedAt: at(10 * 24 * time.Hour)},
		{ID: "b", CreatedAt: at(3 * 24 * time.Hour)},
		{ID: "c", CreatedAt: at(time.Hour)},
		{ID: "d", CreatedAt: at(time.Minute)},
	}
	ids := func(rs []model.Record) []string {
		var out []string
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name      string
		olderThan string
		keep      int
		kept      []string
	}{
		{"older than", "7d", 0, []string{"b", "c", "d"}},
		{"keep", "", 2, []string{"c", "d"}},
		{"both", "2h", 3, []string{"c", "d"}},
		{"nothing matches", "30d", 0, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, removed, err := prune(records, tt.olderThan, tt.keep, now)
			require.NoError(t, err)
			assert.Equal(t, tt.kept, ids(kept))
			assert.Len(t, removed, len(records)-len(tt.kept))
		})
	}

	_, _, err := prune(records, "soon", 0, now)
	assert.Error(t, err)
}
