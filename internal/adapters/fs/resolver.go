package fs

import (
	"errors"
	iofs "io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mattn/go-zglob"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements ports.InputResolver with recursive glob support.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs expands each input against root. Plain paths are joined with root,
// glob patterns are replaced by their sorted matches and a glob without matches is
// kept as a literal path. Duplicates are dropped, first occurrence wins.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	seen := make(map[string]struct{}, len(inputs))
	result := make([]string, 0, len(inputs))

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}

	for _, input := range inputs {
		path := input
		if !filepath.IsAbs(path) && root != "" {
			path = filepath.Join(root, path)
		}

		if !isGlob(input) {
			add(filepath.Clean(path))
			continue
		}

		matches, err := zglob.Glob(path)
		if err != nil && !isNotExist(err) {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrGlobFailed.Error()), "pattern", input)
		}
		if len(matches) == 0 {
			add(filepath.Clean(path))
			continue
		}

		slices.Sort(matches)
		for _, m := range matches {
			add(filepath.Clean(m))
		}
	}

	return result, nil
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// zglob reports an empty match set as a not-exist error.
func isNotExist(err error) bool {
	return errors.Is(err, iofs.ErrNotExist)
}
