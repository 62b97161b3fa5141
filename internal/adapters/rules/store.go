package rules

import (
	"bytes"
	"os"
	"path/filepath"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RuleStore = (*Store)(nil)

// Store implements ports.RuleStore on the local file system.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Load parses the rule file at path.
func (s *Store) Load(path string) ([]domain.Rule, error) {
	// #nosec G304 -- the rule file path is chosen by the user
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRuleFileReadFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	rules, err := Decode(f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return rules, nil
}

// Save writes the rule file and its YAML companion, a map of name to rule.
func (s *Store) Save(path string, rules []domain.Rule) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrDirCreateFailed.Error()), "path", path)
	}

	companion := make(map[string]domain.Rule, len(rules))
	for _, r := range rules {
		companion[r.Name] = r
	}
	var yml bytes.Buffer
	if err := encodeYAML(&yml, companion); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", path+domain.RulesCompanionExt)
	}
	if err := os.WriteFile(path+domain.RulesCompanionExt, yml.Bytes(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", path+domain.RulesCompanionExt)
	}

	var text bytes.Buffer
	if err := Encode(&text, rules); err != nil {
		return zerr.With(err, "path", path)
	}
	if err := os.WriteFile(path, text.Bytes(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", path)
	}
	return nil
}
