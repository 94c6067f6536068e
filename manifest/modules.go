package manifest

import (
	"fmt"
	"path/filepath"
	"slices"
)

// ModulePaths expands the configured module globs into absolute paths of
// bridge descriptions, sorted and without duplicates. A glob that matches
// nothing is not an error.
func (m *Manifest) ModulePaths() ([]string, error) {
	var paths []string
	for _, pattern := range m.Bridge.Modules {
		matches, err := filepath.Glob(m.abs(pattern))
		if err != nil {
			return nil, fmt.Errorf("bad module pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return slices.Compact(paths), nil
}
