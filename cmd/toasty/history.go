package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/history"
	"github.com/jmylchreest/toasty/internal/model"
)

var historyOpts struct {
	since      string
	category   string
	source     string
	search     string
	limit      int
	format     string
	template   string
	oldest     bool
	maxContent int
}

var pruneOpts struct {
	olderThan string
	keep      int
	dryRun    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished toasts",
	Long: `List toasts that have finished showing, newest first.

Examples:
  # Errors from the last day
  toasty history --since 24h --category error

  # Everything forwarded from Firefox, as JSON
  toasty history --source dbus:firefox --format json

  # Pick a past toast with fuzzel
  toasty history --format dmenu | fuzzel --dmenu`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old toasts from history",
	Long: `Remove old toasts from the history file.

Examples:
  # Remove toasts older than 7 days
  toasty history prune --older-than 7d

  # Keep only the 100 most recent toasts
  toasty history prune --keep 100

  # Preview what would be removed (dry run)
  toasty history prune --older-than 48h --dry-run`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringVar(&historyOpts.since, "since", "",
		"Only toasts from the last duration (e.g., 48h, 7d, 1w)")
	historyCmd.Flags().StringVarP(&historyOpts.category, "category", "c", "",
		"Only toasts of this category")
	historyCmd.Flags().StringVar(&historyOpts.source, "source", "",
		"Only toasts whose source starts with this prefix")
	historyCmd.Flags().StringVarP(&historyOpts.search, "search", "s", "",
		"Only toasts whose content contains this text")
	historyCmd.Flags().IntVarP(&historyOpts.limit, "limit", "n", 0,
		"Maximum number of toasts (0=unlimited)")
	historyCmd.Flags().StringVarP(&historyOpts.format, "format", "f", "plain",
		"Output format (plain, json, yaml, dmenu)")
	historyCmd.Flags().StringVarP(&historyOpts.template, "template", "t", "",
		"Go template for each line, overrides --format (e.g. '{{.Index}} {{.Content}}')")
	historyCmd.Flags().BoolVar(&historyOpts.oldest, "oldest", false,
		"List oldest first")
	historyCmd.Flags().IntVar(&historyOpts.maxContent, "max-content", 80,
		"Truncate content in plain output (0=unlimited)")

	historyPruneCmd.Flags().StringVar(&pruneOpts.olderThan, "older-than", "",
		"Remove toasts older than this duration (e.g., 48h, 7d, 1w)")
	historyPruneCmd.Flags().IntVar(&pruneOpts.keep, "keep", 0,
		"Keep only the N most recent toasts (0=unlimited)")
	historyPruneCmd.Flags().BoolVar(&pruneOpts.dryRun, "dry-run", false,
		"Show what would be removed without actually removing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := history.ParseFormat(historyOpts.format)
	if err != nil {
		return err
	}
	since, err := history.ParseSince(historyOpts.since)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	records, err := history.ReadFile(cfg.HistoryFile())
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	records = history.Filter(records, history.FilterOptions{
		Since:    since,
		Category: historyOpts.category,
		Source:   historyOpts.source,
		Contains: historyOpts.search,
		Limit:    historyOpts.limit,
		Newest:   !historyOpts.oldest,
	})
	if historyOpts.template != "" {
		tmpl, err := history.ParseTemplate(historyOpts.template)
		if err != nil {
			return err
		}
		return history.WriteTemplate(os.Stdout, records, tmpl)
	}
	return history.Write(os.Stdout, records, format, historyOpts.maxContent)
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneOpts.olderThan == "" && pruneOpts.keep == 0 {
		return fmt.Errorf("specify --older-than or --keep")
	}

	log, err := history.Open(cfg.HistoryFile(), logger)
	if err != nil {
		return err
	}
	defer log.Close()

	records, err := log.Load()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No toasts in history")
		return nil
	}

	kept, removed, err := prune(records, pruneOpts.olderThan, pruneOpts.keep, time.Now())
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Println("No toasts to remove")
		return nil
	}

	if pruneOpts.dryRun {
		fmt.Printf("Would remove %d toast(s):\n", len(removed))
		for i, r := range removed {
			if i >= 10 {
				fmt.Printf("  ... and %d more\n", len(removed)-10)
				break
			}
			fmt.Printf("  - [%s] %s (%s)\n", r.Category, r.Content, r.RelativeTime())
		}
		return nil
	}

	if err := log.Rewrite(kept); err != nil {
		return err
	}
	fmt.Printf("Removed %d toast(s)\n", len(removed))
	return nil
}

// prune splits records into those kept and those removed. Records are in
// file order, oldest first.
func prune(records []model.Record, olderThan string, keep int, now time.Time) (kept, removed []model.Record, err error) {
	var cutoff time.Time
	if olderThan != "" {
		d, err := history.ParseSince(olderThan)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid duration: %w", err)
		}
		if d > 0 {
			cutoff = now.Add(-d)
		}
	}

	newest := history.Filter(records, history.FilterOptions{Newest: true})
	keepSet := make(map[string]bool, len(newest))
	for i, r := range newest {
		if keep > 0 && i >= keep {
			break
		}
		if !cutoff.IsZero() && r.CreatedTime().Before(cutoff) {
			continue
		}
		keepSet[r.ID] = true
	}

	for _, r := range records {
		if keepSet[r.ID] {
			kept = append(kept, r)
		} else {
			removed = append(removed, r)
		}
	}
	return kept, removed, nil
}
