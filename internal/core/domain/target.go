package domain

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// TargetState is the lifecycle position of a target within one run.
type TargetState uint8

const (
	// StatePending is the state of a freshly constructed target.
	StatePending TargetState = iota
	// StateLinked means implicit dependencies have been folded into the dependency list.
	StateLinked
	// StateBuilt means try-build has finished, whether the build ran or was skipped.
	StateBuilt
)

func (s TargetState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLinked:
		return "linked"
	case StateBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// Target is a named unit of build work.
//
// Concrete kinds embed *BaseTarget, which supplies identity, inputs, dependencies and
// lifecycle state, and implement Kind and Build.
type Target interface {
	// Core returns the shared target state.
	Core() *BaseTarget
	// Name is the human-readable name used in logs.
	Name() string
	// Kind is the short type tag used by the rule file.
	Kind() string
	// Label is the display label printed in progress entries.
	Label() string
	// Provides lists the identifiers this target produces. Never empty.
	Provides() []string
	// Files lists the staleness inputs.
	Files() []Resolvable
	// Dependencies lists identifiers that must be completed before this target builds.
	Dependencies() []string
	// Config is the build configuration hashed for staleness. Nil disables the hash check.
	Config() any
	// Fields are extra kind-specific values written to the rule file.
	Fields() map[string]any
	// Build performs the side-effecting work. Output of external tools goes to out.
	Build(ctx context.Context, out io.Writer) error
}

// MTimeChecker is the standard staleness check, exposed to targets that override it.
type MTimeChecker interface {
	// CheckMTimes reports whether outputs are stale relative to inputs and config.
	CheckMTimes(name string, inputs, outputs []string, config any) bool
}

// StaleChecker is implemented by targets with their own staleness rule.
type StaleChecker interface {
	IsStale(ctx context.Context, std MTimeChecker) (bool, error)
}

// BaseTarget carries the state shared by every target kind.
type BaseTarget struct {
	name         string
	provides     []string
	files        []Resolvable
	dependencies []string
	state        TargetState
	dirty        bool
}

// NewBaseTarget creates the shared part of a target.
// An empty name defaults to the first provide made relative to the working directory;
// empty provides default to the name.
func NewBaseTarget(name string, provides []string, files []Resolvable, dependencies []string) (*BaseTarget, error) {
	provides = slices.Clone(provides)
	if len(provides) == 0 {
		if name == "" {
			return nil, ErrNoProvides
		}
		provides = []string{name}
	}
	if name == "" {
		name = displayName(provides[0])
	}
	return &BaseTarget{
		name:         name,
		provides:     provides,
		files:        slices.Clone(files),
		dependencies: slices.Clone(dependencies),
	}, nil
}

func displayName(p string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(cwd, p)
	if err != nil || !filepath.IsAbs(p) {
		return p
	}
	return rel
}

// Core returns b itself so that embedding types satisfy Target.
func (b *BaseTarget) Core() *BaseTarget { return b }

// Name returns the target name.
func (b *BaseTarget) Name() string { return b.name }

// SetName overrides the display name.
func (b *BaseTarget) SetName(name string) { b.name = name }

// Provides returns the provided identifiers.
func (b *BaseTarget) Provides() []string { return b.provides }

// Files returns the file inputs.
func (b *BaseTarget) Files() []Resolvable { return b.files }

// Dependencies returns the dependency identifiers, including linked ones.
func (b *BaseTarget) Dependencies() []string { return b.dependencies }

// Config returns an empty configuration so the hash check runs for every target.
func (b *BaseTarget) Config() any { return map[string]any{} }

// Fields returns no extra fields.
func (b *BaseTarget) Fields() map[string]any { return nil }

// State returns the lifecycle state.
func (b *BaseTarget) State() TargetState { return b.state }

// Dirty reports whether the last try-build ran the build step.
func (b *BaseTarget) Dirty() bool { return b.dirty }

// Link folds every concrete file that another target provides into the dependency list.
// known is the set of all provided identifiers. It runs once; later calls do nothing.
func (b *BaseTarget) Link(known map[string]struct{}) {
	if b.state != StatePending {
		return
	}
	for i := range b.files {
		f := &b.files[i]
		if !f.IsConcrete() {
			continue
		}
		p, _ := f.Resolve()
		if _, ok := known[p]; !ok || slices.Contains(b.provides, p) {
			continue
		}
		if !slices.Contains(b.dependencies, p) {
			b.dependencies = append(b.dependencies, p)
		}
	}
	b.state = StateLinked
}

// CanBuild reports whether every dependency is in completed.
// The second result is the first missing dependency.
func (b *BaseTarget) CanBuild(completed map[string]struct{}) (bool, string) {
	for _, dep := range b.dependencies {
		if _, ok := completed[dep]; !ok {
			return false, dep
		}
	}
	return true, ""
}

// ResolveFiles resolves deferred entries of the file list and returns concrete paths.
func (b *BaseTarget) ResolveFiles() ([]string, error) {
	return ResolveAll(b.files)
}

// MarkBuilt records the outcome of try-build.
func (b *BaseTarget) MarkBuilt(dirty bool) {
	b.dirty = dirty
	b.state = StateBuilt
}

// Reset returns the target to the linked state for another run.
func (b *BaseTarget) Reset() {
	b.dirty = false
	if b.state == StateBuilt {
		b.state = StateLinked
	}
}

// DefaultLabel derives a display label from a kind tag.
func DefaultLabel(kind string) string {
	if kind == "" {
		return "-"
	}
	return strings.ToUpper(kind)
}
