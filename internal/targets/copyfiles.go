package targets

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
)

// CopyFilesKind is the type tag of directory tree copies.
const CopyFilesKind = "CopyFiles"

// CopyFiles mirrors a source tree into a destination directory. Its first provide is a
// marker file touched after every copy; every copied file is provided as well.
type CopyFiles struct {
	*domain.BaseTarget
	env         *Env
	source      string
	destination string
	ignore      []string
	marker      string
	copied      []string
}

func newCopyFiles(env *Env, rule domain.Rule) (domain.Target, error) {
	source, err := stringField(rule, "source", "")
	if err != nil {
		return nil, err
	}
	destination, err := stringField(rule, "destination", "")
	if err != nil {
		return nil, err
	}
	if source == "" || destination == "" {
		return nil, zerr.With(zerr.With(domain.ErrInvalidRule, "target", rule.Name), "reason", "source and destination are required")
	}
	ignore, err := stringsField(rule, "ignore")
	if err != nil {
		return nil, err
	}
	if len(rule.Provides) == 0 {
		return nil, zerr.With(domain.ErrNoProvides, "target", rule.Name)
	}

	c := &CopyFiles{
		env:         env,
		source:      env.Path(source),
		destination: env.Path(destination),
		ignore:      ignore,
		marker:      rule.Provides[0],
	}
	srcFiles, err := env.FS.ListFiles(c.source, c.ignore)
	if err != nil {
		return nil, err
	}
	c.copied = make([]string, 0, len(srcFiles))
	for _, f := range srcFiles {
		dst, err := c.mapPath(f)
		if err != nil {
			return nil, err
		}
		c.copied = append(c.copied, dst)
	}

	name := rule.Name
	if name == "" {
		name = relName(env, c.source) + " -> " + relName(env, c.destination)
	}
	provides := append([]string{c.marker}, c.copied...)
	extra := slices.DeleteFunc(slices.Clone(rule.Files), func(f string) bool { return f == c.source })
	files := append(domain.Paths(c.source), domain.Paths(extra...)...)
	base, err := domain.NewBaseTarget(name, provides, files, rule.Dependencies)
	if err != nil {
		return nil, err
	}
	c.BaseTarget = base
	return c, nil
}

func (c *CopyFiles) mapPath(src string) (string, error) {
	rel, err := filepath.Rel(c.source, src)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFileCopyFailed.Error()), "path", src)
	}
	return filepath.Join(c.destination, rel), nil
}

// Kind implements domain.Target.
func (c *CopyFiles) Kind() string { return CopyFilesKind }

// Label implements domain.Target.
func (c *CopyFiles) Label() string { return "COPYFILES" }

// Config implements domain.Target.
func (c *CopyFiles) Config() any {
	return map[string]any{
		"source":      c.source,
		"destination": c.destination,
		"ignore":      c.ignore,
		"files":       c.copied,
	}
}

// Fields implements domain.Target.
func (c *CopyFiles) Fields() map[string]any {
	fields := map[string]any{
		"source":      c.env.ID(c.source),
		"destination": c.env.ID(c.destination),
	}
	if len(c.ignore) > 0 {
		fields["ignore"] = c.ignore
	}
	return fields
}

// IsStale reports a missing destination, a source tree newer than the destination tree,
// or provides that are stale against the source files, the extra files and the dependencies.
func (c *CopyFiles) IsStale(_ context.Context, std domain.MTimeChecker) (bool, error) {
	if !c.env.FS.IsDir(c.destination) {
		return true, nil
	}
	srcFiles, err := c.env.FS.ListFiles(c.source, c.ignore)
	if err != nil {
		return false, err
	}
	dstFiles, err := c.env.FS.ListFiles(c.destination, nil)
	if err != nil {
		return false, err
	}
	if c.latest(srcFiles).After(c.latest(dstFiles)) {
		return true, nil
	}
	extra, err := c.ResolveFiles()
	if err != nil {
		return false, err
	}
	inputs := slices.Concat(srcFiles, extra, c.Dependencies())
	return std.CheckMTimes(c.Name(), inputs, c.Provides(), c.Config()), nil
}

func (c *CopyFiles) latest(paths []string) time.Time {
	var newest time.Time
	for _, p := range paths {
		if t, err := c.env.FS.ModTime(p); err == nil && t.After(newest) {
			newest = t
		}
	}
	return newest
}

// Build copies every source file that is not ignored and touches the marker.
func (c *CopyFiles) Build(_ context.Context, _ io.Writer) error {
	srcFiles, err := c.env.FS.ListFiles(c.source, c.ignore)
	if err != nil {
		return err
	}
	if err := c.env.FS.EnsureDir(c.destination); err != nil {
		return err
	}
	for _, src := range srcFiles {
		dst, err := c.mapPath(src)
		if err != nil {
			return err
		}
		if err := c.env.FS.EnsureDir(filepath.Dir(dst)); err != nil {
			return err
		}
		if err := c.env.FS.Copy(src, dst); err != nil {
			return err
		}
	}
	return c.env.FS.Touch(c.marker)
}
