package history

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/toasty/internal/model"
)

// FilterOptions specifies criteria for listing records.
type FilterOptions struct {
	Since    time.Duration // newer than now-since (0=all)
	Category string        // exact match (empty=any)
	Source   string        // prefix match (empty=any)
	Contains string        // case-insensitive substring of content
	Limit    int           // maximum results (0=unlimited)
	Newest   bool          // newest first
}

// Filter returns the records matching opts. The input is not modified.
func Filter(records []model.Record, opts FilterOptions) []model.Record {
	now := time.Now()
	needle := strings.ToLower(opts.Contains)
	result := make([]model.Record, 0, len(records))

	for _, r := range records {
		if opts.Since > 0 && r.CreatedTime().Before(now.Add(-opts.Since)) {
			continue
		}
		if opts.Category != "" && r.Category != opts.Category {
			continue
		}
		if opts.Source != "" && !strings.HasPrefix(r.Source, opts.Source) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Content), needle) {
			continue
		}
		result = append(result, r)
	}

	// The log is in completion order; sort by creation so queue order shows.
	slices.SortStableFunc(result, func(a, b model.Record) int {
		if opts.Newest {
			return cmp.Compare(b.CreatedAt, a.CreatedAt)
		}
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

// ParseSince parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseSince(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if s == "0" || s == "" {
		return 0, nil
	}

	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}
