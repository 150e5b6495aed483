package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toasty/internal/model"
)

// Format is an output format for listing records.
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatDmenu Format = "dmenu"
)

// ParseFormat parses a format name. Unknown names are an error.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPlain, FormatJSON, FormatYAML, FormatDmenu:
		return f, nil
	case "":
		return FormatPlain, nil
	default:
		return "", fmt.Errorf("unknown format %q (use plain, json, yaml or dmenu)", s)
	}
}

// yamlRecord mirrors model.Record with YAML keys and readable durations.
type yamlRecord struct {
	ID       string `yaml:"id"`
	Source   string `yaml:"source"`
	Category string `yaml:"category"`
	Content  string `yaml:"content"`
	Duration string `yaml:"duration"`
	Visible  string `yaml:"visible,omitempty"`
	Finished string `yaml:"finished"`
}

// Write renders records to w in the given format. maxContent limits the
// content shown by the plain format, 0 = unlimited.
func Write(w io.Writer, records []model.Record, format Format, maxContent int) error {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []model.Record{}
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)

	case FormatYAML:
		out := make([]yamlRecord, 0, len(records))
		for _, r := range records {
			yr := yamlRecord{
				ID:       r.ID,
				Source:   r.Source,
				Category: r.Category,
				Content:  r.Content,
				Duration: r.Duration().String(),
				Finished: r.RelativeTime(),
			}
			if v := r.Visible(); v > 0 {
				yr.Visible = v.String()
			}
			out = append(out, yr)
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(out); err != nil {
			return err
		}
		return encoder.Close()

	case FormatDmenu:
		return writeDmenu(w, records, maxContent)

	default:
		for i, r := range records {
			content := r.Content
			if maxContent > 0 {
				content = r.ContentTruncated(maxContent)
			}
			line := fmt.Sprintf("[%d] %-8s %s (%s)\n", i+1, r.Category, content, r.RelativeTime())
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}
