package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importPattern matches @import "a.css"; @import 'a.css'; and @import url("a.css");
var importPattern = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet.
type Theme struct {
	Name    string
	Path    string // empty for bundled themes
	CSS     string
	ModTime time.Time
}

// Bundled reports whether the theme came from the embedded set.
func (t *Theme) Bundled() bool {
	return t.Path == ""
}

// Open reads a theme file and inlines its imports.
func Open(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat theme: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme: %w", err)
	}
	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     Inline(string(data), filepath.Dir(path)),
		ModTime: info.ModTime(),
	}, nil
}

// OpenBundled returns a bundled theme with its imports inlined.
func OpenBundled(name string) (*Theme, bool) {
	css, ok := Bundled(name)
	if !ok {
		return nil, false
	}
	return &Theme{Name: name, CSS: Inline(css, "")}, true
}

// Reload re-reads a file-backed theme if it changed on disk and reports
// whether the CSS differs from before.
func (t *Theme) Reload() (bool, error) {
	if t.Bundled() {
		return false, nil
	}

	fresh, err := Open(t.Name, t.Path)
	if err != nil {
		return false, err
	}
	changed := fresh.CSS != t.CSS
	t.CSS = fresh.CSS
	t.ModTime = fresh.ModTime
	return changed, nil
}

// Inline replaces @import statements with the imported CSS. Relative imports
// resolve against baseDir; anything not found on disk is looked up among the
// bundled partials and themes. Each file is inlined at most once.
func Inline(css, baseDir string) string {
	return inline(css, baseDir, make(map[string]bool))
}

func inline(css, baseDir string, seen map[string]bool) string {
	return importPattern.ReplaceAllStringFunc(css, func(stmt string) string {
		m := importPattern.FindStringSubmatch(stmt)
		if len(m) < 2 {
			return stmt
		}
		ref := m[1]

		full := ref
		if !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, ref)
		}
		if seen[full] {
			return "/* skipped repeated import: " + ref + " */"
		}
		seen[full] = true

		data, err := os.ReadFile(full)
		if err == nil {
			return "/* imported: " + ref + " */\n" + inline(string(data), filepath.Dir(full), seen)
		}

		base := filepath.Base(ref)
		if strings.HasPrefix(base, "_") {
			if css, ok := BundledPartial(base); ok {
				return "/* imported (bundled): " + ref + " */\n" + css
			}
		}
		if css, ok := Bundled(strings.TrimSuffix(base, ".css")); ok {
			return "/* imported (bundled): " + ref + " */\n" + inline(css, "", seen)
		}
		return "/* import failed: " + ref + " - " + err.Error() + " */"
	})
}

// Info describes an available theme.
type Info struct {
	Name    string
	Path    string
	Bundled bool
}

// List returns the bundled themes followed by the user themes in dir. A user
// theme shadowing a bundled one is reported once, with its path.
func List(dir string) ([]Info, error) {
	var out []Info
	index := make(map[string]int)
	for _, name := range BundledNames() {
		index[name] = len(out)
		out = append(out, Info{Name: name, Bundled: true})
	}

	if dir == "" {
		return out, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("failed to read themes dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".css" || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".css")
		info := Info{Name: name, Path: filepath.Join(dir, e.Name())}
		if i, ok := index[name]; ok {
			out[i] = info
			continue
		}
		index[name] = len(out)
		out = append(out, info)
	}
	return out, nil
}
