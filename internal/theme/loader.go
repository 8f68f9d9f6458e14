package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "whiteboard", "themes"),
		SystemDir: "/usr/share/whiteboard/themes",
	}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Check embedded themes.
// 3. Check ConfigDir.
// 4. Check SystemDir.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return parseFile(name)
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return parseFile(path)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

// Names lists the embedded themes and those found in the search
// directories, sorted and without duplicates.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	add := func(name string) {
		if strings.HasSuffix(name, ".theme") {
			seen[strings.TrimSuffix(name, ".theme")] = true
		}
	}
	if entries, err := fs.ReadDir(EmbeddedThemes, "defaults"); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
