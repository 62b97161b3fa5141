// Package maestro implements the target orchestrator: fixed-point dependency resolution,
// staleness checks and persistence of the build state.
package maestro

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultMaxPasses bounds the number of resolution passes of one run.
const DefaultMaxPasses = 1000

// TargetFactory builds targets from rules loaded out of a rule file.
type TargetFactory interface {
	New(rule domain.Rule) (domain.Target, error)
}

// Option configures a Maestro.
type Option func(*Maestro)

// WithVerbose switches progress entries to the "Running target" form.
func WithVerbose(verbose bool) Option {
	return func(m *Maestro) { m.verbose = verbose }
}

// WithMaxPasses overrides DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(m *Maestro) {
		if n > 0 {
			m.maxPasses = n
		}
	}
}

// Maestro owns the registered targets and drives them to completion.
type Maestro struct {
	stateDir  string
	fs        ports.FileSystem
	outputs   ports.OutputStore
	rules     ports.RuleStore
	tracer    ports.Tracer
	logger    ports.Logger
	staleness *Staleness

	verbose   bool
	maxPasses int

	targets    []domain.Target
	provides   map[string]struct{}
	labelWidth int

	completed    []string
	completedSet map[string]struct{}
	dirty        []string
}

// New creates a Maestro keeping its build state in stateDir.
func New(
	stateDir string,
	fs ports.FileSystem,
	hasher ports.Hasher,
	hashes ports.ConfigHashStore,
	outputs ports.OutputStore,
	rules ports.RuleStore,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) *Maestro {
	m := &Maestro{
		stateDir:     stateDir,
		fs:           fs,
		outputs:      outputs,
		rules:        rules,
		tracer:       tracer,
		logger:       logger,
		staleness:    NewStaleness(stateDir, fs, hasher, hashes, logger),
		maxPasses:    DefaultMaxPasses,
		provides:     make(map[string]struct{}),
		completedSet: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StateDir returns the build-state directory.
func (m *Maestro) StateDir() string { return m.stateDir }

// Add registers t. A provide already registered by another target is rejected.
func (m *Maestro) Add(t domain.Target) error {
	for _, p := range t.Provides() {
		if _, ok := m.provides[p]; ok {
			err := zerr.With(domain.ErrDuplicateProvider, "id", p)
			return zerr.With(err, "target", t.Name())
		}
	}
	for _, p := range t.Provides() {
		m.provides[p] = struct{}{}
	}
	m.targets = append(m.targets, t)
	m.labelWidth = max(m.labelWidth, len(t.Label()))
	return nil
}

// Targets returns the registered targets in registration order.
func (m *Maestro) Targets() []domain.Target {
	return slices.Clone(m.targets)
}

// Provides returns every registered identifier in lexical order.
func (m *Maestro) Provides() []string {
	ids := make([]string, 0, len(m.provides))
	for p := range m.provides {
		ids = append(ids, p)
	}
	slices.Sort(ids)
	return ids
}

// Completed returns the identifiers completed by the last run in completion order.
func (m *Maestro) Completed() []string {
	return slices.Clone(m.completed)
}

// Dirty returns the completed identifiers whose producer rebuilt during the last run.
func (m *Maestro) Dirty() []string {
	return slices.Clone(m.dirty)
}

// Unbuilt returns the names of targets the last run could not build.
func (m *Maestro) Unbuilt() []string {
	var names []string
	for _, t := range m.targets {
		if t.Core().State() != domain.StateBuilt {
			names = append(names, t.Name())
		}
	}
	return names
}

// Run builds every stale target once its dependencies are complete.
//
// Targets are visited in registration order, pass after pass, until every provide is
// complete, a pass builds nothing, or the pass limit is reached. The set of all provides
// is persisted before unbuilt targets are reported.
func (m *Maestro) Run(ctx context.Context) error {
	m.reset()
	m.emitPlan(ctx)

	total := len(m.provides)
	for pass := 0; len(m.completedSet) < total && pass < m.maxPasses; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		progressed, err := m.pass(ctx, total)
		if err != nil {
			return err
		}
		if !progressed {
			break
		}
	}

	if err := m.outputs.Save(m.stateDir, m.Provides()); err != nil {
		return err
	}

	if unbuilt := m.Unbuilt(); len(unbuilt) > 0 {
		m.reportUnbuilt()
		return zerr.With(domain.ErrUnresolvedDependencies, "targets", strings.Join(unbuilt, ", "))
	}
	return nil
}

func (m *Maestro) reset() {
	m.completed = m.completed[:0]
	m.completedSet = make(map[string]struct{}, len(m.provides))
	m.dirty = nil
	for _, t := range m.targets {
		core := t.Core()
		core.Reset()
		core.Link(m.provides)
	}
}

func (m *Maestro) emitPlan(ctx context.Context) {
	names := make([]string, len(m.targets))
	deps := make(map[string][]string, len(m.targets))
	for i, t := range m.targets {
		names[i] = t.Name()
		// Targets without dependencies map to nil.
		deps[t.Name()] = append([]string(nil), t.Dependencies()...)
	}
	m.tracer.EmitPlan(ctx, names, deps)
}

func (m *Maestro) pass(ctx context.Context, total int) (bool, error) {
	progressed := false
	for _, t := range m.targets {
		core := t.Core()
		if core.State() == domain.StateBuilt {
			continue
		}
		if ok, missing := core.CanBuild(m.completedSet); !ok {
			m.logger.Debug(fmt.Sprintf("%s is waiting on %s", t.Name(), missing))
			continue
		}
		if err := m.tryBuild(ctx, t, total); err != nil {
			return progressed, err
		}
		progressed = true
	}
	return progressed, nil
}

func (m *Maestro) tryBuild(ctx context.Context, t domain.Target, total int) error {
	stale, err := m.isStale(ctx, t)
	if err != nil {
		return errors.Join(domain.ErrTargetBuildFailed, zerr.With(err, "target", t.Name()))
	}

	if stale {
		m.logger.Info(m.progress(t, total))
		if err := m.build(ctx, t); err != nil {
			return errors.Join(domain.ErrTargetBuildFailed, zerr.With(err, "target", t.Name()))
		}
		m.staleness.Record(t.Provides(), t.Config())
		m.dirty = append(m.dirty, t.Provides()...)
	}
	t.Core().MarkBuilt(stale)

	for _, p := range t.Provides() {
		if _, ok := m.completedSet[p]; !ok {
			m.completedSet[p] = struct{}{}
			m.completed = append(m.completed, p)
		}
	}
	return nil
}

func (m *Maestro) isStale(ctx context.Context, t domain.Target) (bool, error) {
	if sc, ok := t.(domain.StaleChecker); ok {
		return sc.IsStale(ctx, m.staleness)
	}
	files, err := t.Core().ResolveFiles()
	if err != nil {
		return false, err
	}
	inputs := append(files, t.Dependencies()...)
	return m.staleness.CheckMTimes(t.Name(), inputs, t.Provides(), t.Config()), nil
}

func (m *Maestro) build(ctx context.Context, t domain.Target) error {
	ctx, span := m.tracer.Start(ctx, t.Name(), ports.WithKind(t.Kind()), ports.WithProvides(t.Provides()))
	defer span.End()

	if err := t.Build(ctx, span); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (m *Maestro) reportUnbuilt() {
	for _, t := range m.targets {
		core := t.Core()
		if core.State() == domain.StateBuilt {
			continue
		}
		_, missing := core.CanBuild(m.completedSet)
		msg := fmt.Sprintf("%s was not built, waiting on %s", t.Name(), missing)
		if rule, err := domain.Describe(t); err == nil {
			if data, err := yaml.Marshal(rule); err == nil {
				msg += "\n" + strings.TrimRight(string(data), "\n")
			}
		}
		m.logger.Warn(msg)
	}
}
