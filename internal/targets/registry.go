// Package targets provides the concrete target kinds and the registry that builds them from rules.
package targets

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

// Env holds the collaborators and locations shared by every target of a run.
type Env struct {
	// Root is the directory relative identifiers are resolved against.
	Root string
	// StateDir is the build-state directory holding virtual target markers.
	StateDir string
	FS       ports.FileSystem
	Runner   ports.CommandRunner
	Logger   ports.Logger
}

// Path maps a rule identifier onto a filesystem path.
// Virtual identifiers (@id) become marker files in the state directory and relative
// paths are joined to Root.
func (e *Env) Path(id string) string {
	if v, ok := strings.CutPrefix(id, domain.VirtualTargetPrefix); ok {
		return domain.VirtualTargetPath(e.StateDir, v)
	}
	if filepath.IsAbs(id) || e.Root == "" {
		return id
	}
	return filepath.Join(e.Root, id)
}

// ID maps a path back onto the identifier Path accepts. Marker files become @id, paths
// below Root become relative with forward slashes, and anything else is returned as is.
func (e *Env) ID(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	if e.StateDir != "" {
		if rel, ok := below(domain.VirtualTargetPath(e.StateDir, ""), path); ok && rel != "." {
			return domain.VirtualTargetPrefix + filepath.ToSlash(rel)
		}
	}
	if e.Root != "" {
		if rel, ok := below(e.Root, path); ok {
			return filepath.ToSlash(rel)
		}
	}
	return path
}

func below(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func (e *Env) ids(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = e.ID(p)
	}
	return out
}

func (e *Env) paths(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = e.Path(id)
	}
	return out
}

// Factory builds a target from a rule whose identifiers are already mapped to paths.
type Factory func(env *Env, rule domain.Rule) (domain.Target, error)

// Registry maps rule type tags to target factories.
type Registry struct {
	env       *Env
	factories map[string]Factory
}

// NewRegistry creates a Registry holding every built-in kind.
func NewRegistry(env *Env) *Registry {
	r := &Registry{
		env:       env,
		factories: make(map[string]Factory),
	}
	r.Register(CommandKind, newCommand)
	r.Register(CopyFileKind, newCopyFile)
	r.Register(MoveFileKind, newMoveFile)
	r.Register(ReplaceTextKind, newReplaceText)
	r.Register(ConcatenateKind, newConcatenate)
	r.Register(CopyFilesKind, newCopyFiles)
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// Kinds returns the registered type tags in lexical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Env returns the environment handed to every factory.
func (r *Registry) Env() *Env {
	return r.env
}

// New builds the target described by rule.
func (r *Registry) New(rule domain.Rule) (domain.Target, error) {
	f, ok := r.factories[rule.Type]
	if !ok {
		return nil, zerr.With(zerr.With(domain.ErrUnknownTargetType, "type", rule.Type), "target", rule.Name)
	}
	rule.Provides = r.env.paths(rule.Provides)
	rule.Dependencies = r.env.paths(rule.Dependencies)
	rule.Files = r.env.paths(rule.Files)
	t, err := f(r.env, rule)
	if err != nil {
		return nil, zerr.With(err, "type", rule.Type)
	}
	return t, nil
}

// Describe serializes t into a rule with identifiers relative to Root, so the rule file
// stays valid when the project moves.
func (r *Registry) Describe(t domain.Target) (domain.Rule, error) {
	rule, err := domain.Describe(t)
	if err != nil {
		return rule, err
	}
	rule.Provides = r.env.ids(rule.Provides)
	rule.Dependencies = r.env.ids(rule.Dependencies)
	rule.Files = r.env.ids(rule.Files)
	return rule, nil
}
