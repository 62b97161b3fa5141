// Package config provides the buildfile loader for maestro.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	Resolver ports.InputResolver
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, resolver ports.InputResolver) *Loader {
	return &Loader{Logger: logger, Resolver: resolver}
}

// Load finds the buildfile by walking up from cwd and decodes it.
func (l *Loader) Load(cwd string) (*domain.Buildfile, error) {
	path, err := findBuildfile(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(path)
}

// DiscoverRoot returns the directory holding the nearest buildfile at or above cwd.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	path, err := findBuildfile(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// LoadFile decodes the buildfile at path.
// Relative paths in names, provides, dependencies and files are resolved against the
// buildfile directory; file globs are expanded. Virtual identifiers are kept as written.
func (l *Loader) LoadFile(path string) (*domain.Buildfile, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	// #nosec G304 -- the buildfile path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file Buildfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	root := filepath.Dir(path)
	bf := &domain.Buildfile{
		Path:     path,
		Root:     root,
		StateDir: resolvePath(root, file.StateDir),
		Rules:    make([]domain.Rule, 0, len(file.Targets)),
	}
	if file.StateDir == "" {
		bf.StateDir = filepath.Join(root, domain.DefaultStateDir())
	}

	for i, rule := range file.Targets {
		if rule.Type == "" {
			return nil, zerr.With(zerr.With(domain.ErrInvalidRule, "index", i), "reason", "missing type")
		}
		if rule.Name == "" && len(rule.Provides) == 0 {
			return nil, zerr.With(zerr.With(domain.ErrNoProvides, "index", i), "type", rule.Type)
		}
		resolved, err := l.resolveRule(root, rule)
		if err != nil {
			return nil, zerr.With(err, "target", rule.Name)
		}
		bf.Rules = append(bf.Rules, resolved)
	}

	l.Logger.Debug(fmt.Sprintf("loaded %d target(s) from %s", len(bf.Rules), path))
	return bf, nil
}

func (l *Loader) resolveRule(root string, rule domain.Rule) (domain.Rule, error) {
	if len(rule.Provides) == 0 {
		rule.Provides = []string{rule.Name}
	}
	rule.Provides = resolvePaths(root, rule.Provides)
	rule.Dependencies = resolvePaths(root, rule.Dependencies)

	files := make([]string, 0, len(rule.Files))
	for _, f := range rule.Files {
		if isVirtual(f) {
			files = append(files, f)
			continue
		}
		matches, err := l.Resolver.ResolveInputs([]string{f}, root)
		if err != nil {
			return rule, err
		}
		files = append(files, matches...)
	}
	rule.Files = files
	return rule, nil
}

func findBuildfile(cwd string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
	}

	for {
		candidate := filepath.Join(dir, domain.BuildFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		dir = parent
	}
}

func isVirtual(id string) bool {
	return strings.HasPrefix(id, domain.VirtualTargetPrefix)
}

func resolvePath(root, p string) string {
	if p == "" || isVirtual(p) || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func resolvePaths(root string, ps []string) []string {
	if len(ps) == 0 {
		return nil
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = resolvePath(root, p)
	}
	return out
}
