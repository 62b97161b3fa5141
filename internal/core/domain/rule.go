package domain

import (
	"maps"
	"slices"
)

// Rule is the serialized form of a target, used by the rule file and the buildfile.
type Rule struct {
	// Type is the kind tag that selects the target factory.
	Type string `yaml:"type"`
	// Name is the target name.
	Name string `yaml:"name"`
	// Dependencies are the explicit and linked dependency identifiers.
	Dependencies []string `yaml:"dependencies"`
	// Provides are every identifier the target produces.
	Provides []string `yaml:"provides"`
	// Files are the resolved staleness inputs.
	Files []string `yaml:"files"`
	// Fields hold kind-specific values.
	Fields map[string]any `yaml:",inline"`
}

// Describe serializes a target into a Rule. Deferred files are resolved.
func Describe(t Target) (Rule, error) {
	files, err := ResolveAll(t.Files())
	if err != nil {
		return Rule{}, err
	}
	r := Rule{
		Type:         t.Kind(),
		Name:         t.Name(),
		Dependencies: slices.Clone(t.Dependencies()),
		Provides:     slices.Clone(t.Provides()),
		Files:        files,
	}
	if fields := t.Fields(); len(fields) > 0 {
		r.Fields = maps.Clone(fields)
	}
	return r, nil
}

// ExtraProvides returns the provides other than the rule name.
func (r *Rule) ExtraProvides() []string {
	out := make([]string, 0, len(r.Provides))
	for _, p := range r.Provides {
		if p != r.Name {
			out = append(out, p)
		}
	}
	return out
}

// Field returns the named field and whether it is present.
func (r *Rule) Field(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Buildfile is the decoded maestro.yaml.
type Buildfile struct {
	// Path is the location the buildfile was loaded from.
	Path string
	// Root is the directory containing the buildfile.
	Root string
	// StateDir is the build-state directory, relative to Root unless absolute.
	StateDir string
	// Rules are the declared targets in declaration order.
	Rules []Rule
}
