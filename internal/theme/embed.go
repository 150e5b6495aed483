package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed themes/*.css
var bundled embed.FS

// DefaultName is the theme used when none is configured or the configured
// one cannot be found.
const DefaultName = "default"

// Bundled returns the CSS of a bundled theme. Imports are not resolved.
func Bundled(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "_") {
		return "", false
	}
	return readBundled(name + ".css")
}

// BundledPartial returns a bundled partial. Partials are files whose name
// starts with an underscore and are only meant to be imported.
func BundledPartial(name string) (string, bool) {
	name = strings.TrimSuffix(name, ".css")
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	return readBundled(name + ".css")
}

func readBundled(file string) (string, bool) {
	data, err := bundled.ReadFile(path.Join("themes", file))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// BundledNames lists the bundled themes, partials excluded.
func BundledNames() []string {
	entries, err := fs.ReadDir(bundled, "themes")
	if err != nil {
		return []string{DefaultName}
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "_") || path.Ext(name) != ".css" {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".css"))
	}
	return names
}
