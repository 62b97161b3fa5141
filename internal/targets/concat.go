package targets

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/text/encoding"
)

// ConcatenateKind is the type tag of concatenation targets.
const ConcatenateKind = "Concatenate"

// Concatenate joins its files, in order, into the first provide.
type Concatenate struct {
	*domain.BaseTarget
	env        *Env
	target     string
	readLabel  string
	writeLabel string
	readEnc    encoding.Encoding
	writeEnc   encoding.Encoding
}

func newConcatenate(env *Env, rule domain.Rule) (domain.Target, error) {
	if len(rule.Provides) == 0 {
		return nil, zerr.With(domain.ErrNoProvides, "target", rule.Name)
	}
	enc, err := mapField(rule, "encoding")
	if err != nil {
		return nil, err
	}
	readLabel, writeLabel := DefaultEncoding, DefaultEncoding
	if v, ok := enc["read"]; ok {
		readLabel = v
	}
	if v, ok := enc["write"]; ok {
		writeLabel = v
	}
	readEnc, err := lookupEncoding(readLabel)
	if err != nil {
		return nil, err
	}
	writeEnc, err := lookupEncoding(writeLabel)
	if err != nil {
		return nil, err
	}

	base, err := domain.NewBaseTarget(rule.Name, rule.Provides, domain.Paths(rule.Files...), rule.Dependencies)
	if err != nil {
		return nil, err
	}
	return &Concatenate{
		BaseTarget: base,
		env:        env,
		target:     rule.Provides[0],
		readLabel:  readLabel,
		writeLabel: writeLabel,
		readEnc:    readEnc,
		writeEnc:   writeEnc,
	}, nil
}

// Kind implements domain.Target.
func (c *Concatenate) Kind() string { return ConcatenateKind }

// Label implements domain.Target.
func (c *Concatenate) Label() string { return "CONCAT" }

// Config implements domain.Target.
func (c *Concatenate) Config() any {
	return map[string]any{
		"read-encoding":  c.readLabel,
		"write-encoding": c.writeLabel,
	}
}

// Fields implements domain.Target.
func (c *Concatenate) Fields() map[string]any {
	return map[string]any{
		"encoding": map[string]any{
			"read":  c.readLabel,
			"write": c.writeLabel,
		},
	}
}

// Build writes the joined inputs to a temporary file and replaces the target with it.
func (c *Concatenate) Build(_ context.Context, _ io.Writer) error {
	sources, err := c.ResolveFiles()
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", src)
		}
		text, err := decodeText(c.readEnc, data)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrUnknownEncoding.Error()), "path", src)
		}
		b.WriteString(text)
	}
	out, err := encodeText(c.writeEnc, b.String())
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrUnknownEncoding.Error()), "path", c.target)
	}

	if err := c.env.FS.EnsureDir(filepath.Dir(c.target)); err != nil {
		return err
	}
	tmp := c.target + ".tmp"
	if err := os.WriteFile(tmp, out, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", tmp)
	}
	if err := c.env.FS.Remove(c.target); err != nil {
		return err
	}
	return c.env.FS.Move(tmp, c.target)
}
