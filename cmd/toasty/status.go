package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toasty/internal/toast"
)

var statusOpts struct {
	addr string
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text       string `json:"text"`
	Alt        string `json:"alt,omitempty"`
	Tooltip    string `json:"tooltip,omitempty"`
	Class      string `json:"class,omitempty"`
	Percentage int    `json:"percentage,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output toastyd's queue in Waybar's custom module JSON format. Requires the
HTTP API ([http].enabled).

  "custom/toasty": {
    "exec": "toasty status",
    "interval": 2,
    "return-type": "json"
  }

The output includes:
  - text: number of toasts showing or waiting
  - alt/class: category of the active toast, "empty" or "error"
  - tooltip: the active toast and the queue`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusOpts.addr, "addr", "",
		"toastyd HTTP address (default: [http].listen)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
	defer cancel()

	addr := statusOpts.addr
	if addr == "" {
		addr = cfg.HTTP.Listen
	}

	st, err := fetchStatus(ctx, addr)
	if err != nil {
		logger.Debug("failed to fetch status", "error", err)
		return outputStatus(WaybarStatus{Alt: "error", Class: "error", Tooltip: err.Error()})
	}
	return outputStatus(waybarStatus(st))
}

func fetchStatus(ctx context.Context, addr string) (toast.Status, error) {
	var st toast.Status
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("failed to decode status: %w", err)
	}
	return st, nil
}

// waybarStatus turns a queue snapshot into the module output.
func waybarStatus(st toast.Status) WaybarStatus {
	if st.Active == nil && len(st.Queued) == 0 {
		return WaybarStatus{Alt: "empty", Class: "empty"}
	}

	var lines []string
	class := "queued"
	total := len(st.Queued)
	if st.Active != nil {
		total++
		class = string(st.Active.Category)
		lines = append(lines, fmt.Sprintf("Showing: [%s] %s", st.Active.Category, st.Active.Content))
	}
	if n := len(st.Queued); n > 0 {
		lines = append(lines, fmt.Sprintf("Waiting: %d", n))
		for i, s := range st.Queued {
			if i >= 5 {
				lines = append(lines, fmt.Sprintf("  ... and %d more", n-5))
				break
			}
			lines = append(lines, fmt.Sprintf("  [%s] %s", s.Category, s.Content))
		}
	}

	return WaybarStatus{
		Text:       fmt.Sprintf("%d", total),
		Alt:        class,
		Tooltip:    strings.Join(lines, "\n"),
		Class:      class,
		Percentage: min(total, 100),
	}
}

// outputStatus writes the status as JSON.
func outputStatus(status WaybarStatus) error {
	return json.NewEncoder(os.Stdout).Encode(status)
}
