// Package typelist works out which concrete types get a sidebar link.
package typelist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ziadkadry99/concrete-docs/internal/walker"
)

// IndexPage is the module index generated next to the type pages. It never
// appears in the type list.
const IndexPage = "index.html"

// Discover returns the names of the HTML pages directly inside dir, without
// extension and sorted alphabetically. The index page is left out, as are
// pages rejected by the include and exclude globs.
func Discover(dir string, include, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !walker.IsHTML(name) || strings.EqualFold(name, IndexPage) {
			continue
		}
		if !walker.MatchesInclude(name, include) || walker.MatchesExclude(name, exclude) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(names)
	return names, nil
}

// Resolve picks the list to render: the configured one when it has entries,
// otherwise the discovered one. Order is kept as given.
func Resolve(configured, discovered []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return discovered
}
