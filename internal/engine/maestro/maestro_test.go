package maestro_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/cas"
	"go.trai.ch/maestro/internal/adapters/fs"
	"go.trai.ch/maestro/internal/adapters/rules"
	"go.trai.ch/maestro/internal/adapters/telemetry"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/maestro/internal/core/ports/mocks"
	"go.trai.ch/maestro/internal/engine/maestro"
	"go.trai.ch/maestro/internal/targets"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root     string
	stateDir string
	fs       *fs.FileSystem
	log      *mocks.MockLogger
	runner   *mocks.MockCommandRunner
	infos    []string
	warnings []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	f := &fixture{
		root:     root,
		stateDir: filepath.Join(root, domain.StateDirName),
		fs:       fs.NewFileSystem(fs.NewWalker()),
		log:      mocks.NewMockLogger(ctrl),
		runner:   mocks.NewMockCommandRunner(ctrl),
	}
	f.runner.EXPECT().Which(gomock.Any()).Return("/bin/sh", true).AnyTimes()
	f.log.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.log.EXPECT().Info(gomock.Any()).Do(func(msg string) { f.infos = append(f.infos, msg) }).AnyTimes()
	f.log.EXPECT().Warn(gomock.Any()).Do(func(msg string) { f.warnings = append(f.warnings, msg) }).AnyTimes()
	return f
}

func (f *fixture) registry() *targets.Registry {
	return targets.NewRegistry(&targets.Env{
		Root:     f.root,
		StateDir: f.stateDir,
		FS:       f.fs,
		Runner:   f.runner,
		Logger:   f.log,
	})
}

func (f *fixture) maestro(opts ...maestro.Option) *maestro.Maestro {
	return maestro.New(
		f.stateDir,
		f.fs,
		fs.NewHasher(),
		cas.NewStore(),
		cas.NewOutputStore(),
		rules.NewStore(),
		telemetry.NewNoOpTracer(),
		f.log,
		opts...,
	)
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, rel)
}

// write creates rel with content and backdates it so that later outputs are strictly newer.
func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	p := f.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), domain.DirPerm))
	require.NoError(t, os.WriteFile(p, []byte(content), domain.FilePerm))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(p, past, past))
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(rel))
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) add(t *testing.T, m *maestro.Maestro, reg *targets.Registry, rule domain.Rule) domain.Target {
	t.Helper()
	if len(rule.Provides) == 0 {
		rule.Provides = []string{rule.Name}
	}
	tgt, err := reg.New(rule)
	require.NoError(t, err)
	require.NoError(t, m.Add(tgt))
	return tgt
}

func concatRule() domain.Rule {
	return domain.Rule{
		Type:  targets.ConcatenateKind,
		Name:  "out.txt",
		Files: []string{"a.txt", "b.txt"},
	}
}

func TestRun_Concatenate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	m := f.maestro()
	f.add(t, m, f.registry(), concatRule())

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, "12", f.read(t, "out.txt"))
	assert.Equal(t, []string{f.path("out.txt")}, m.Dirty())

	require.NoError(t, m.Run(context.Background()))
	assert.Empty(t, m.Dirty(), "second run must not rebuild")
	assert.Equal(t, []string{f.path("out.txt")}, m.Completed())

	require.NoError(t, os.WriteFile(f.path("b.txt"), []byte("3"), domain.FilePerm))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(f.path("b.txt"), future, future))

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, "13", f.read(t, "out.txt"))
	assert.Equal(t, []string{f.path("out.txt")}, m.Dirty())
}

func TestRun_FreshInstanceIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	first := f.maestro()
	f.add(t, first, f.registry(), concatRule())
	require.NoError(t, first.Run(context.Background()))

	second := f.maestro()
	f.add(t, second, f.registry(), concatRule())
	require.NoError(t, second.Run(context.Background()))
	assert.Empty(t, second.Dirty())
}

func TestRun_ConfigChangeRebuilds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	first := f.maestro()
	f.add(t, first, f.registry(), concatRule())
	require.NoError(t, first.Run(context.Background()))

	changed := concatRule()
	changed.Fields = map[string]any{"encoding": map[string]any{"read": "utf-8-sig"}}

	second := f.maestro()
	f.add(t, second, f.registry(), changed)
	require.NoError(t, second.Run(context.Background()))
	assert.Equal(t, []string{f.path("out.txt")}, second.Dirty())

	third := f.maestro()
	f.add(t, third, f.registry(), changed)
	require.NoError(t, third.Run(context.Background()))
	assert.Empty(t, third.Dirty())
}

func TestRun_DependencyOrdering(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "payload")

	m := f.maestro()
	reg := f.registry()
	// Registered consumer first; the link from c's input to b's provide orders them.
	f.add(t, m, reg, domain.Rule{Type: targets.CopyFileKind, Name: "c.txt", Files: []string{"b.txt"}})
	f.add(t, m, reg, domain.Rule{Type: targets.CopyFileKind, Name: "b.txt", Files: []string{"a.txt"}})

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{f.path("b.txt"), f.path("c.txt")}, m.Completed())
	assert.Equal(t, "payload", f.read(t, "c.txt"))

	var c domain.Target
	for _, tgt := range m.Targets() {
		if tgt.Name() == "c.txt" {
			c = tgt
		}
	}
	require.NotNil(t, c)
	assert.Equal(t, []string{f.path("b.txt")}, c.Dependencies())
}

// orderTarget writes its provides and records the order in which targets build.
type orderTarget struct {
	*domain.BaseTarget
	order *[]string
}

func (o *orderTarget) Kind() string {
	return "Order"
}

func (o *orderTarget) Label() string {
	return "ORDER"
}

func (o *orderTarget) Build(context.Context, io.Writer) error {
	*o.order = append(*o.order, o.Name())
	for _, p := range o.Provides() {
		if err := os.WriteFile(p, []byte(o.Name()), domain.FilePerm); err != nil {
			return err
		}
	}
	return nil
}

func TestRun_DeferredFilesDoNotOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.maestro()
	gen := f.path("gen.txt")

	var order []string
	newTarget := func(name string, provides []string, files []domain.Resolvable) {
		base, err := domain.NewBaseTarget(name, provides, files, nil)
		require.NoError(t, err)
		require.NoError(t, m.Add(&orderTarget{BaseTarget: base, order: &order}))
	}

	// Both consumers are declared before the producer. Only the concrete input is folded
	// into the dependencies; the deferred one resolves when its target is checked.
	resolved := 0
	newTarget("deferred", []string{f.path("deferred.txt")}, []domain.Resolvable{
		domain.Deferred(func() (string, error) {
			resolved++
			return gen, nil
		}),
	})
	newTarget("concrete", []string{f.path("concrete.txt")}, domain.Paths(gen))
	newTarget("producer", []string{gen}, nil)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"deferred", "producer", "concrete"}, order)
	assert.Equal(t, 1, resolved)
}

func TestRun_CycleIsReported(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.maestro()
	reg := f.registry()
	f.add(t, m, reg, domain.Rule{
		Type:         targets.CommandKind,
		Name:         "first",
		Provides:     []string{"@first"},
		Dependencies: []string{"@second"},
		Fields:       map[string]any{"cmd": "true"},
	})
	f.add(t, m, reg, domain.Rule{
		Type:         targets.CommandKind,
		Name:         "second",
		Provides:     []string{"@second"},
		Dependencies: []string{"@first"},
		Fields:       map[string]any{"cmd": "true"},
	})

	err := m.Run(context.Background())
	require.ErrorContains(t, err, domain.ErrUnresolvedDependencies.Error())
	assert.Equal(t, []string{"first", "second"}, m.Unbuilt())
	require.Len(t, f.warnings, 2)
	assert.Contains(t, f.warnings[0], "first was not built")
	assert.Contains(t, f.warnings[1], "second was not built")
	assert.FileExists(t, domain.AllTargetsPath(f.stateDir))
}

func TestRun_MissingDependency(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.maestro()
	f.add(t, m, f.registry(), domain.Rule{
		Type:         targets.CommandKind,
		Name:         "orphan",
		Provides:     []string{"@orphan"},
		Dependencies: []string{"@nobody"},
		Fields:       map[string]any{"cmd": "true"},
	})

	err := m.Run(context.Background())
	require.ErrorContains(t, err, domain.ErrUnresolvedDependencies.Error())
	assert.Equal(t, []string{"orphan"}, m.Unbuilt())
}

func TestRun_BuildFailureAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.maestro()
	reg := f.registry()
	f.add(t, m, reg, domain.Rule{
		Type:     targets.CommandKind,
		Name:     "broken",
		Provides: []string{"@broken"},
		Fields:   map[string]any{"cmd": "exit 1"},
	})
	f.add(t, m, reg, domain.Rule{
		Type:         targets.CommandKind,
		Name:         "after",
		Provides:     []string{"@after"},
		Dependencies: []string{"@broken"},
		Fields:       map[string]any{"cmd": "true"},
	})

	f.runner.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(ports.Result{ExitCode: 1}, errors.New("exit status 1")).
		Times(1)

	err := m.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrTargetBuildFailed)
	assert.Empty(t, m.Completed())
	assert.NoFileExists(t, domain.AllTargetsPath(f.stateDir))
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")
	m := f.maestro()
	f.add(t, m, f.registry(), concatRule())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, m.Run(ctx), context.Canceled)
	assert.NoFileExists(t, f.path("out.txt"))
}

func TestAdd_DuplicateProvider(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	m := f.maestro()
	reg := f.registry()
	f.add(t, m, reg, concatRule())

	dup, err := reg.New(domain.Rule{
		Type:     targets.CopyFileKind,
		Name:     "out.txt",
		Provides: []string{"out.txt"},
		Files:    []string{"a.txt"},
	})
	require.NoError(t, err)
	require.ErrorContains(t, m.Add(dup), domain.ErrDuplicateProvider.Error())
	assert.Len(t, m.Targets(), 1)
}

func TestRun_ProgressEntries(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	m := f.maestro()
	reg := f.registry()
	f.add(t, m, reg, domain.Rule{Type: targets.CopyFileKind, Name: "copy.txt", Files: []string{"a.txt"}})
	f.add(t, m, reg, concatRule())

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{
		"[  0%] COPY   copy.txt",
		"[ 50%] CONCAT out.txt",
	}, f.infos)
}

func TestRun_VerboseProgress(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	m := f.maestro(maestro.WithVerbose(true))
	f.add(t, m, f.registry(), concatRule())

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"Running target out.txt..."}, f.infos)
}

func TestRun_TracesBuiltTargets(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	m := maestro.New(
		f.stateDir,
		f.fs,
		fs.NewHasher(),
		cas.NewStore(),
		cas.NewOutputStore(),
		rules.NewStore(),
		tracer,
		f.log,
	)
	f.add(t, m, f.registry(), concatRule())

	gomock.InOrder(
		tracer.EXPECT().EmitPlan(gomock.Any(), []string{"out.txt"}, map[string][]string{"out.txt": nil}),
		tracer.EXPECT().Start(gomock.Any(), "out.txt", gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
				return ctx, span
			}),
		span.EXPECT().End(),
	)

	require.NoError(t, m.Run(context.Background()))
}

func TestClean(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")
	f.write(t, "unrelated.txt", "keep")

	m := f.maestro()
	f.add(t, m, f.registry(), concatRule())
	require.NoError(t, m.Run(context.Background()))
	require.FileExists(t, f.path("out.txt"))

	require.NoError(t, m.Clean(context.Background()))
	assert.NoFileExists(t, f.path("out.txt"))
	assert.NoDirExists(t, f.stateDir)
	assert.FileExists(t, f.path("a.txt"))
	assert.FileExists(t, f.path("unrelated.txt"))
	assert.Contains(t, f.infos, "RM "+f.path("out.txt"))
	assert.Contains(t, f.infos, "RMTREE "+f.stateDir)
}

func TestClean_NothingPersisted(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.maestro().Clean(context.Background()))
	assert.Empty(t, f.infos)
}

func TestSaveLoadRules(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.registry()
	m := f.maestro()
	f.add(t, m, reg, concatRule())
	f.add(t, m, reg, domain.Rule{
		Type:     targets.CommandKind,
		Name:     "generate",
		Provides: []string{"@gen", "gen.txt"},
		Fields:   map[string]any{"cmd": []any{"sh", "gen.sh"}, "show-output": true},
	})

	path := filepath.Join(f.stateDir, "rules.txt")
	require.NoError(t, m.SaveRules(path, reg))
	assert.FileExists(t, path+domain.RulesCompanionExt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.NotContains(t, text, f.root, "identifiers are written relative to the root")
	assert.Contains(t, text, "[Concatenate out.txt]: \n> a.txt\n> b.txt\n")
	assert.Contains(t, text, "< @gen\n< gen.txt\n")

	loaded := f.maestro()
	require.NoError(t, loaded.LoadRules(path, reg))
	assert.Equal(t, m.Provides(), loaded.Provides())

	names := make(map[string]string)
	for _, tgt := range loaded.Targets() {
		names[tgt.Name()] = tgt.Kind()
	}
	assert.Equal(t, map[string]string{
		"out.txt":  targets.ConcatenateKind,
		"generate": targets.CommandKind,
	}, names)
}

func TestLoadRules_UnknownType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	path := filepath.Join(f.root, "rules.txt")
	require.NoError(t, os.WriteFile(path, []byte("[Bogus thing]: \n"), domain.FilePerm))

	err := f.maestro().LoadRules(path, f.registry())
	require.ErrorContains(t, err, domain.ErrUnknownTargetType.Error())
}
