package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/adapters/fs"
)

func TestResolver_ResolveInputs_Glob(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	for _, f := range []string{"b.txt", "a.txt", "c.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("content"), 0o600))
	}

	resolver := fs.NewResolver()

	resolved, err := resolver.ResolveInputs([]string{"*.txt"}, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.txt"),
		filepath.Join(tmpDir, "b.txt"),
	}, resolved)
}

func TestResolver_ResolveInputs_Recursive(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src", "deep"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "one.txt"), []byte("1"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "deep", "two.txt"), []byte("2"), 0o600))

	resolver := fs.NewResolver()

	resolved, err := resolver.ResolveInputs([]string{"src/**/*.txt"}, tmpDir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(tmpDir, "src", "one.txt"),
		filepath.Join(tmpDir, "src", "deep", "two.txt"),
	}, resolved)
}

func TestResolver_ResolveInputs_KeepsOrderAndLiterals(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	resolver := fs.NewResolver()

	// Plain paths need not exist; they may be produced by other targets.
	resolved, err := resolver.ResolveInputs([]string{"z.txt", "a.txt", "z.txt", "/abs/file"}, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "z.txt"),
		filepath.Join(tmpDir, "a.txt"),
		"/abs/file",
	}, resolved)
}

func TestResolver_ResolveInputs_NoMatches(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	resolver := fs.NewResolver()

	resolved, err := resolver.ResolveInputs([]string{"*.go"}, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tmpDir, "*.go")}, resolved)
}
