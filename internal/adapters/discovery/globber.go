// Package discovery implements glob-based source-file discovery used by
// the reference firmware-graph builder. It is an out-of-scope
// collaborator: the core engine never imports this package.
package discovery

import (
	"fmt"
	"path/filepath"
	"sort"

	"go.trai.ch/zerr"

	"github.com/kilnbuild/kiln/internal/core/domain"
)

// Globber implements ports.SourceDiscoverer using filepath.Glob.
type Globber struct{}

// New creates a new Globber.
func New() *Globber { return &Globber{} }

// Discover resolves patterns relative to root into a sorted,
// deduplicated list of matching file paths. A pattern that matches
// nothing is an error, since the caller asked for specific sources.
func (g *Globber) Discover(root string, patterns []string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, pattern := range patterns {
		path := filepath.Join(root, pattern)
		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", path)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, path)
		}
		for _, m := range matches {
			unique[m] = struct{}{}
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	sort.Strings(result)
	return result, nil
}
