package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/cas"
	"go.trai.ch/maestro/internal/adapters/config"
	"go.trai.ch/maestro/internal/adapters/detector"
	"go.trai.ch/maestro/internal/adapters/fs"
	"go.trai.ch/maestro/internal/adapters/rules"
	"go.trai.ch/maestro/internal/adapters/shell"
	"go.trai.ch/maestro/internal/app"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/maestro/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const concatBuildfile = `
targets:
  - type: Concatenate
    name: out.txt
    files: [a.txt, b.txt]
`

type fixture struct {
	root    string
	app     *app.App
	watcher *mocks.MockWatcher
	stdout  bytes.Buffer
	stderr  bytes.Buffer

	mu    sync.Mutex
	infos []string
}

func newFixture(t *testing.T, buildfile string) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	f := &fixture{
		root:    t.TempDir(),
		watcher: mocks.NewMockWatcher(ctrl),
	}

	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		f.mu.Lock()
		f.infos = append(f.infos, msg)
		f.mu.Unlock()
	}).AnyTimes()

	f.app = app.New(
		config.NewLoader(log, fs.NewResolver()),
		fs.NewFileSystem(fs.NewWalker()),
		fs.NewHasher(),
		cas.NewStore(),
		cas.NewOutputStore(),
		rules.NewStore(),
		shell.NewRunner(log),
		f.watcher,
		log,
	).
		WithWorkDir(f.root).
		WithOutput(&f.stdout, &f.stderr).
		WithEnvironment(detector.Environment{})

	if buildfile != "" {
		f.write(t, domain.BuildFileName, buildfile)
	}
	return f
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.root, name)
}

// write creates name with content and moves its mtime an hour into the past.
func (f *fixture) write(t *testing.T, name, content string) {
	t.Helper()
	p := f.path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), domain.DirPerm))
	require.NoError(t, os.WriteFile(p, []byte(content), domain.FilePerm))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(p, past, past))
}

func (f *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(name))
	require.NoError(t, err)
	return string(data)
}

func (f *fixture) takeInfos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	infos := f.infos
	f.infos = nil
	return infos
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t, concatBuildfile)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	require.NoError(t, f.app.Run(context.Background(), app.RunOptions{}))
	assert.Equal(t, "12", f.read(t, "out.txt"))
	assert.Equal(t, []string{"[  0%] CONCAT out.txt"}, f.takeInfos())
	assert.FileExists(t, domain.AllTargetsPath(f.path(domain.StateDirName)))

	// Nothing changed, so the second run builds nothing.
	require.NoError(t, f.app.Run(context.Background(), app.RunOptions{}))
	assert.Empty(t, f.takeInfos())
}

func TestApp_Run_Rebuild(t *testing.T) {
	f := newFixture(t, concatBuildfile)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	require.NoError(t, f.app.Run(context.Background(), app.RunOptions{}))
	f.takeInfos()

	require.NoError(t, f.app.Run(context.Background(), app.RunOptions{Rebuild: true}))
	infos := f.takeInfos()
	assert.Contains(t, infos, "RM "+f.path("out.txt"))
	assert.Contains(t, infos, "[  0%] CONCAT out.txt")
	assert.Equal(t, "12", f.read(t, "out.txt"))
}

func TestApp_Run_ExplicitFileAndStateDir(t *testing.T) {
	f := newFixture(t, "")
	f.write(t, filepath.Join("conf", "other.yaml"), `
targets:
  - type: CopyFile
    name: dst.txt
    files: [src.txt]
`)
	f.write(t, filepath.Join("conf", "src.txt"), "payload")

	err := f.app.Run(context.Background(), app.RunOptions{
		File:     filepath.Join("conf", "other.yaml"),
		StateDir: "state",
	})
	require.NoError(t, err)
	assert.Equal(t, "payload", f.read(t, filepath.Join("conf", "dst.txt")))
	assert.FileExists(t, domain.AllTargetsPath(f.path("state")))
	assert.NoDirExists(t, f.path(filepath.Join("conf", domain.StateDirName)))
}

func TestApp_Run_ConfigNotFound(t *testing.T) {
	f := newFixture(t, "")

	err := f.app.Run(context.Background(), app.RunOptions{})
	require.ErrorContains(t, err, "failed to load configuration")
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
	assert.False(t, app.IsBuildFailure(err))
}

func TestApp_Run_UnknownType(t *testing.T) {
	f := newFixture(t, "targets:\n  - type: Bogus\n    name: x\n")

	err := f.app.Run(context.Background(), app.RunOptions{})
	require.ErrorContains(t, err, domain.ErrUnknownTargetType.Error())
}

func TestApp_Run_BuildFailure(t *testing.T) {
	f := newFixture(t, `
targets:
  - type: Command
    name: fail
    provides: ["@fail"]
    cmd: "exit 3"
`)

	err := f.app.Run(context.Background(), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrTargetBuildFailed)
	assert.True(t, app.IsBuildFailure(err))
	assert.NoFileExists(t, domain.AllTargetsPath(f.path(domain.StateDirName)))
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t, concatBuildfile)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	require.NoError(t, f.app.Run(context.Background(), app.RunOptions{}))
	require.FileExists(t, f.path("out.txt"))

	require.NoError(t, f.app.Clean(context.Background(), app.RunOptions{}))
	assert.NoFileExists(t, f.path("out.txt"))
	assert.NoDirExists(t, f.path(domain.StateDirName))
	assert.FileExists(t, f.path("a.txt"))
}

func TestApp_SaveRules(t *testing.T) {
	f := newFixture(t, concatBuildfile)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	require.NoError(t, f.app.SaveRules(context.Background(), "rules.txt", app.RunOptions{}))
	assert.Contains(t, f.takeInfos(), "wrote "+f.path("rules.txt"))
	require.FileExists(t, f.path("rules.txt"))
	require.FileExists(t, f.path("rules.txt"+domain.RulesCompanionExt))
	assert.NotContains(t, f.read(t, "rules.txt"), f.root)

	// The buildfile is not consulted when building from a rule file.
	require.NoError(t, os.Remove(f.path(domain.BuildFileName)))

	require.NoError(t, f.app.Run(context.Background(), app.RunOptions{RulesFile: "rules.txt"}))
	assert.Equal(t, "12", f.read(t, "out.txt"))
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t, concatBuildfile)
	f.write(t, "a.txt", "1")
	f.write(t, "b.txt", "2")

	events := make(chan ports.WatchEvent)
	f.watcher.EXPECT().Start(gomock.Any(), f.root).Return(nil)
	f.watcher.EXPECT().Events().Return(func(yield func(ports.WatchEvent) bool) {
		for e := range events {
			if !yield(e) {
				return
			}
		}
	})
	f.watcher.EXPECT().Stop().DoAndReturn(func() error {
		close(events)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, app.RunOptions{})
	}()

	// Writes to outputs are ignored; the send only returns once the watch loop runs.
	events <- ports.WatchEvent{Path: f.path("out.txt"), Operation: ports.OpWrite}
	assert.Equal(t, "12", f.read(t, "out.txt"))

	require.NoError(t, os.WriteFile(f.path("b.txt"), []byte("3"), domain.FilePerm))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(f.path("b.txt"), future, future))
	events <- ports.WatchEvent{Path: f.path("b.txt"), Operation: ports.OpWrite}

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(f.path("out.txt"))
		return err == nil && string(data) == "13"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Contains(t, f.takeInfos(), "watching "+f.root+" for changes")
}

func TestApp_Watch_ConfigNotFound(t *testing.T) {
	f := newFixture(t, "")

	err := f.app.Watch(context.Background(), app.RunOptions{})
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}
