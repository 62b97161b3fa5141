package domain_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/maestro/internal/core/domain"
)

type fakeTarget struct {
	*domain.BaseTarget
	fields map[string]any
}

func (f *fakeTarget) Kind() string {
	return "Fake"
}

func (f *fakeTarget) Label() string {
	return domain.DefaultLabel(f.Kind())
}

func (f *fakeTarget) Fields() map[string]any {
	return f.fields
}

func (f *fakeTarget) Build(context.Context, io.Writer) error {
	return nil
}

func TestNewBaseTarget(t *testing.T) {
	t.Parallel()

	t.Run("provides default to the name", func(t *testing.T) {
		t.Parallel()

		b, err := domain.NewBaseTarget("out.txt", nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "out.txt", b.Name())
		assert.Equal(t, []string{"out.txt"}, b.Provides())
		assert.Equal(t, domain.StatePending, b.State())
		assert.Equal(t, map[string]any{}, b.Config())
		assert.Nil(t, b.Fields())
	})

	t.Run("name defaults to the first provide", func(t *testing.T) {
		t.Parallel()

		b, err := domain.NewBaseTarget("", []string{"@gen", "gen.txt"}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "@gen", b.Name())
	})

	t.Run("requires a name or provides", func(t *testing.T) {
		t.Parallel()

		_, err := domain.NewBaseTarget("", nil, nil, nil)
		require.ErrorIs(t, err, domain.ErrNoProvides)
	})

	t.Run("copies its inputs", func(t *testing.T) {
		t.Parallel()

		provides := []string{"a"}
		deps := []string{"b"}
		b, err := domain.NewBaseTarget("a", provides, nil, deps)
		require.NoError(t, err)
		provides[0] = "changed"
		deps[0] = "changed"
		assert.Equal(t, []string{"a"}, b.Provides())
		assert.Equal(t, []string{"b"}, b.Dependencies())
	})
}

func TestBaseTarget_Link(t *testing.T) {
	t.Parallel()

	calls := 0
	files := []domain.Resolvable{
		domain.Path("/src/generated.c"),
		domain.Path("/src/plain.c"),
		domain.Path("/out/self.o"),
		domain.Path("/src/dep.h"),
		domain.Deferred(func() (string, error) {
			calls++
			return "/src/late.h", nil
		}),
	}
	b, err := domain.NewBaseTarget("obj", []string{"/out/self.o"}, files, []string{"/src/dep.h"})
	require.NoError(t, err)

	known := map[string]struct{}{
		"/src/generated.c": {},
		"/out/self.o":      {},
		"/src/dep.h":       {},
		"/src/late.h":      {},
	}
	b.Link(known)

	assert.Equal(t, []string{"/src/dep.h", "/src/generated.c"}, b.Dependencies())
	assert.Equal(t, domain.StateLinked, b.State())
	assert.Zero(t, calls, "deferred files are not resolved by linking")

	// A second link is a no-op.
	known["/src/plain.c"] = struct{}{}
	b.Link(known)
	assert.Equal(t, []string{"/src/dep.h", "/src/generated.c"}, b.Dependencies())
}

func TestBaseTarget_CanBuild(t *testing.T) {
	t.Parallel()

	b, err := domain.NewBaseTarget("x", nil, nil, []string{"a", "b"})
	require.NoError(t, err)

	ok, missing := b.CanBuild(map[string]struct{}{"a": {}})
	assert.False(t, ok)
	assert.Equal(t, "b", missing)

	ok, missing = b.CanBuild(map[string]struct{}{"a": {}, "b": {}})
	assert.True(t, ok)
	assert.Empty(t, missing)
}

func TestBaseTarget_Lifecycle(t *testing.T) {
	t.Parallel()

	b, err := domain.NewBaseTarget("x", nil, nil, nil)
	require.NoError(t, err)

	b.Link(nil)
	b.MarkBuilt(true)
	assert.Equal(t, domain.StateBuilt, b.State())
	assert.True(t, b.Dirty())

	b.Reset()
	assert.Equal(t, domain.StateLinked, b.State())
	assert.False(t, b.Dirty())
	assert.Equal(t, "linked", b.State().String())
}

func TestBaseTarget_ResolveFiles(t *testing.T) {
	t.Parallel()

	calls := 0
	b, err := domain.NewBaseTarget("x", nil, []domain.Resolvable{
		domain.Path("a"),
		domain.Deferred(func() (string, error) {
			calls++
			return "b", nil
		}),
	}, nil)
	require.NoError(t, err)

	for range 2 {
		files, err := b.ResolveFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, files)
	}
	assert.Equal(t, 1, calls)
}

func TestResolvable_Error(t *testing.T) {
	t.Parallel()

	r := domain.Deferred(func() (string, error) { return "", errors.New("boom") })
	_, err := r.Resolve()
	require.ErrorContains(t, err, domain.ErrDeferredResolveFailed.Error())
	assert.False(t, r.IsConcrete())

	_, err = domain.ResolveAll([]domain.Resolvable{domain.Path("a"), r})
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	b, err := domain.NewBaseTarget("out.txt", []string{"out.txt", "@extra"}, []domain.Resolvable{
		domain.Path("a.txt"),
		domain.Deferred(func() (string, error) { return "b.txt", nil }),
	}, []string{"dep"})
	require.NoError(t, err)

	rule, err := domain.Describe(&fakeTarget{BaseTarget: b, fields: map[string]any{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, domain.Rule{
		Type:         "Fake",
		Name:         "out.txt",
		Dependencies: []string{"dep"},
		Provides:     []string{"out.txt", "@extra"},
		Files:        []string{"a.txt", "b.txt"},
		Fields:       map[string]any{"k": "v"},
	}, rule)
	assert.Equal(t, []string{"@extra"}, rule.ExtraProvides())

	v, ok := rule.Field("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	_, ok = rule.Field("missing")
	assert.False(t, ok)
}

func TestDefaultLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "COPYFILE", domain.DefaultLabel("CopyFile"))
	assert.Equal(t, "-", domain.DefaultLabel(""))
}

func TestLayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/p/.build/tmp/virtual-targets/gen", domain.VirtualTargetPath("/p/.build", "gen"))
	assert.Equal(t, "/p/.build/.alltargets.yml", domain.AllTargetsPath("/p/.build"))
	assert.Equal(t, ".build", domain.DefaultStateDir())
}
