package cas

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.OutputStore = (*OutputStore)(nil)

// OutputStore implements ports.OutputStore as a YAML sequence in .alltargets.yml.
type OutputStore struct{}

// NewOutputStore creates a new OutputStore.
func NewOutputStore() *OutputStore {
	return &OutputStore{}
}

// Load reads the persisted identifiers. A missing file yields nil.
func (s *OutputStore) Load(stateDir string) ([]string, error) {
	filename := domain.AllTargetsPath(stateDir)
	//nolint:gosec // Path is constructed from the state directory
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOutputListReadFailed.Error()), "path", filename)
	}

	var ids []string
	if err := yaml.Unmarshal(data, &ids); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrOutputListReadFailed.Error()), "path", filename)
	}
	return ids, nil
}

// Save writes ids sorted and de-duplicated.
func (s *OutputStore) Save(stateDir string, ids []string) error {
	if err := os.MkdirAll(stateDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStateDirCreateFailed.Error())
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	if sorted == nil {
		sorted = []string{}
	}

	data, err := yaml.Marshal(sorted)
	if err != nil {
		return zerr.Wrap(err, domain.ErrOutputListWriteFailed.Error())
	}

	filename := domain.AllTargetsPath(stateDir)
	//nolint:gosec // Path is constructed from the state directory
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputListWriteFailed.Error()), "path", filename)
	}
	return nil
}
