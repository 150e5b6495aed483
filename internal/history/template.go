package history

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/toasty/internal/model"
)

// templateData is what a custom line template sees.
type templateData struct {
	Index int
	*model.Record
}

// templateFuncs returns the helpers available to line templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			if maxLen <= 0 || len(s) <= maxLen {
				return s
			}
			if maxLen <= 3 {
				return s[:maxLen]
			}
			return s[:maxLen-3] + "..."
		},
		"oneline": oneLine,
		"upper":   strings.ToUpper,
	}
}

// ParseTemplate parses a line template. Fields of model.Record are available
// along with Index, RelativeTime and ContentTruncated.
//
//	{{.Index}} {{.Category | upper}} {{.Content | oneline | truncate 40}}
func ParseTemplate(text string) (*template.Template, error) {
	tmpl, err := template.New("line").Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid template: %w", err)
	}
	return tmpl, nil
}

// WriteTemplate renders one line per record.
func WriteTemplate(w io.Writer, records []model.Record, tmpl *template.Template) error {
	for i := range records {
		var buf strings.Builder
		if err := tmpl.Execute(&buf, templateData{Index: i + 1, Record: &records[i]}); err != nil {
			return fmt.Errorf("failed to render record %s: %w", records[i].ID, err)
		}
		buf.WriteByte('\n')
		if _, err := io.WriteString(w, buf.String()); err != nil {
			return err
		}
	}
	return nil
}

// writeDmenu writes "index | age | source | content" lines for dmenu, rofi
// or fuzzel. The index maps a picked line back to its record.
func writeDmenu(w io.Writer, records []model.Record, maxContent int) error {
	for i, r := range records {
		content := oneLine(r.Content)
		if maxContent > 0 {
			content = r.ContentTruncated(maxContent)
		}
		if _, err := fmt.Fprintf(w, "%d | %s | %s | %s\n", i+1, r.RelativeTime(), r.Source, content); err != nil {
			return err
		}
	}
	return nil
}

// oneLine collapses whitespace runs, newlines included, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
