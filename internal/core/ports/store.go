package ports

import "go.trai.ch/maestro/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// ConfigHashStore persists the configuration digest recorded for a set of outputs.
type ConfigHashStore interface {
	// Get returns the digest stored under key.
	// Returns "", nil if nothing is stored.
	Get(stateDir, key string) (string, error)

	// Put stores digest under key.
	Put(stateDir, key, digest string) error
}

// OutputStore persists the list of every identifier ever provided.
type OutputStore interface {
	// Load returns the persisted identifiers.
	// Returns nil, nil if no list exists.
	Load(stateDir string) ([]string, error)

	// Save replaces the persisted identifiers.
	Save(stateDir string, ids []string) error
}

// RuleStore reads and writes the textual rule file.
type RuleStore interface {
	// Load parses the rule file at path.
	Load(path string) ([]domain.Rule, error)

	// Save writes rules to path together with its YAML companion.
	Save(path string, rules []domain.Rule) error
}
