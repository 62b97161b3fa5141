package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/config"
	"go.trai.ch/maestro/internal/adapters/fs"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(log, fs.NewResolver())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "1")
	writeFile(t, filepath.Join(root, "src", "x.txt"), "x")
	writeFile(t, filepath.Join(root, "src", "nested", "y.txt"), "y")
	writeFile(t, filepath.Join(root, domain.BuildFileName), `
targets:
  - type: Concatenate
    name: out.txt
    files: [a.txt, "src/**/*.txt", "missing/*.txt"]
    encoding:
      read: utf-8
      write: latin1
  - type: Command
    name: generate
    provides: ["@gen", gen.txt]
    dependencies: [out.txt]
    cmd: [touch, gen.txt]
`)

	bf, err := newLoader(t).Load(filepath.Join(root, "src"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, domain.BuildFileName), bf.Path)
	assert.Equal(t, root, bf.Root)
	assert.Equal(t, filepath.Join(root, ".build"), bf.StateDir)
	require.Len(t, bf.Rules, 2)

	concat := bf.Rules[0]
	assert.Equal(t, "Concatenate", concat.Type)
	assert.Equal(t, "out.txt", concat.Name)
	assert.Equal(t, []string{filepath.Join(root, "out.txt")}, concat.Provides)
	assert.Equal(t, []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "src", "nested", "y.txt"),
		filepath.Join(root, "src", "x.txt"),
		filepath.Join(root, "missing", "*.txt"),
	}, concat.Files)
	assert.Equal(t, map[string]any{"read": "utf-8", "write": "latin1"}, concat.Fields["encoding"])

	cmd := bf.Rules[1]
	assert.Equal(t, []string{"@gen", filepath.Join(root, "gen.txt")}, cmd.Provides)
	assert.Equal(t, []string{filepath.Join(root, "out.txt")}, cmd.Dependencies)
	assert.Equal(t, []any{"touch", "gen.txt"}, cmd.Fields["cmd"])
}

func TestLoader_StateDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.BuildFileName), "stateDir: var/state\ntargets: []\n")

	bf, err := newLoader(t).Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "var", "state"), bf.StateDir)
	assert.Empty(t, bf.Rules)
}

func TestLoader_LoadFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "other.yaml")
	writeFile(t, path, "targets:\n  - type: CopyFile\n    name: dst.txt\n    files: [src.txt]\n")

	bf, err := newLoader(t).LoadFile(path)
	require.NoError(t, err)
	require.Len(t, bf.Rules, 1)
	assert.Equal(t, []string{filepath.Join(root, "src.txt")}, bf.Rules[0].Files)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"invalid yaml", "targets: [", domain.ErrConfigParseFailed},
		{"missing type", "targets:\n  - name: out.txt\n", domain.ErrInvalidRule},
		{"no name or provides", "targets:\n  - type: Command\n", domain.ErrNoProvides},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			writeFile(t, filepath.Join(root, domain.BuildFileName), tt.content)

			_, err := newLoader(t).Load(root)
			require.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestLoader_NotFound(t *testing.T) {
	t.Parallel()

	loader := newLoader(t)
	_, err := loader.Load(t.TempDir())
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())

	_, err = loader.DiscoverRoot(t.TempDir())
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())

	_, err = loader.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoader_DiscoverRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, domain.BuildFileName), "targets: []\n")
	deep := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(deep, domain.DirPerm))

	got, err := newLoader(t).DiscoverRoot(deep)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}
