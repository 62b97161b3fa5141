// Package cas implements the build-state stores kept in the state directory.
package cas

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigHashStore = (*Store)(nil)

// Store implements ports.ConfigHashStore using one file per output set.
// The file is named after the key and holds a single digest line.
type Store struct{}

// NewStore creates a new ConfigHashStore.
func NewStore() *Store {
	return &Store{}
}

// Get returns the digest stored under key, or "" when there is none.
func (s *Store) Get(stateDir, key string) (string, error) {
	filename := domain.HashCachePath(stateDir, key)
	//nolint:gosec // Path is constructed from the state directory and a hashed key
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrHashCacheReadFailed.Error()), "path", filename)
	}

	line, _, _ := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	return strings.TrimSpace(string(line)), nil
}

// Put writes digest under key, creating the state directory when needed.
func (s *Store) Put(stateDir, key, digest string) error {
	filename := domain.HashCachePath(stateDir, key)
	if err := os.MkdirAll(filepath.Dir(filename), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStateDirCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from the state directory and a hashed key
	if err := os.WriteFile(filename, []byte(digest), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrHashCacheWriteFailed.Error()), "path", filename)
	}

	return nil
}
