package targets

import (
	"context"
	"io"
	"path/filepath"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// CopyFileKind is the type tag of single file copies.
	CopyFileKind = "CopyFile"
	// MoveFileKind is the type tag of single file moves.
	MoveFileKind = "MoveFile"
)

// fileTarget is the shared shape of targets with one source and one destination.
type fileTarget struct {
	*domain.BaseTarget
	env    *Env
	source string
	target string
}

func newFileTarget(env *Env, rule domain.Rule) (*fileTarget, error) {
	if len(rule.Files) != 1 {
		return nil, zerr.With(zerr.With(domain.ErrInvalidRule, "target", rule.Name), "reason", "exactly one source file is required")
	}
	if len(rule.Provides) == 0 {
		return nil, zerr.With(domain.ErrNoProvides, "target", rule.Name)
	}
	source, target := rule.Files[0], rule.Provides[0]
	name := rule.Name
	if name == "" {
		name = relName(env, source) + " -> " + relName(env, target)
	}
	base, err := domain.NewBaseTarget(name, rule.Provides, domain.Paths(source), rule.Dependencies)
	if err != nil {
		return nil, err
	}
	return &fileTarget{BaseTarget: base, env: env, source: source, target: target}, nil
}

func relName(env *Env, p string) string {
	if env.Root == "" {
		return p
	}
	if rel, err := filepath.Rel(env.Root, p); err == nil {
		return rel
	}
	return p
}

// CopyFile copies one file into place.
type CopyFile struct {
	*fileTarget
}

func newCopyFile(env *Env, rule domain.Rule) (domain.Target, error) {
	ft, err := newFileTarget(env, rule)
	if err != nil {
		return nil, err
	}
	return &CopyFile{fileTarget: ft}, nil
}

// Kind implements domain.Target.
func (c *CopyFile) Kind() string { return CopyFileKind }

// Label implements domain.Target.
func (c *CopyFile) Label() string { return "COPY" }

// Build copies the source and refreshes the destination's modification time.
func (c *CopyFile) Build(_ context.Context, _ io.Writer) error {
	if err := c.env.FS.EnsureDir(filepath.Dir(c.target)); err != nil {
		return err
	}
	if err := c.env.FS.Copy(c.source, c.target); err != nil {
		return err
	}
	return c.env.FS.Touch(c.target)
}

// MoveFile moves one file into place, consuming its source.
type MoveFile struct {
	*fileTarget
}

func newMoveFile(env *Env, rule domain.Rule) (domain.Target, error) {
	ft, err := newFileTarget(env, rule)
	if err != nil {
		return nil, err
	}
	return &MoveFile{fileTarget: ft}, nil
}

// Kind implements domain.Target.
func (m *MoveFile) Kind() string { return MoveFileKind }

// Label implements domain.Target.
func (m *MoveFile) Label() string { return "MOVE" }

// Build moves the source to the destination.
func (m *MoveFile) Build(_ context.Context, _ io.Writer) error {
	if err := m.env.FS.EnsureDir(filepath.Dir(m.target)); err != nil {
		return err
	}
	return m.env.FS.Move(m.source, m.target)
}
