package targets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/text/encoding"
)

// ReplaceTextKind is the type tag of regex rewrite targets.
const ReplaceTextKind = "ReplaceText"

type replacement struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
	re      *regexp.Regexp
}

// ReplaceText rewrites a file line by line, applying each replacement in order.
// Patterns use RE2 syntax and replacements expand $1 style group references.
type ReplaceText struct {
	*domain.BaseTarget
	env          *Env
	source       string
	target       string
	replacements []replacement
	readLabel    string
	writeLabel   string
	readEnc      encoding.Encoding
	writeEnc     encoding.Encoding
}

func newReplaceText(env *Env, rule domain.Rule) (domain.Target, error) {
	if len(rule.Files) != 1 {
		return nil, zerr.With(zerr.With(domain.ErrInvalidRule, "target", rule.Name), "reason", "exactly one source file is required")
	}
	if len(rule.Provides) == 0 {
		return nil, zerr.With(domain.ErrNoProvides, "target", rule.Name)
	}
	reps, err := parseReplacements(rule)
	if err != nil {
		return nil, err
	}
	readLabel, err := stringField(rule, "read-encoding", DefaultEncoding)
	if err != nil {
		return nil, err
	}
	writeLabel, err := stringField(rule, "write-encoding", DefaultEncoding)
	if err != nil {
		return nil, err
	}
	readEnc, err := lookupEncoding(readLabel)
	if err != nil {
		return nil, err
	}
	writeEnc, err := lookupEncoding(writeLabel)
	if err != nil {
		return nil, err
	}

	base, err := domain.NewBaseTarget(rule.Name, rule.Provides, domain.Paths(rule.Files[0]), rule.Dependencies)
	if err != nil {
		return nil, err
	}
	return &ReplaceText{
		BaseTarget:   base,
		env:          env,
		source:       rule.Files[0],
		target:       rule.Provides[0],
		replacements: reps,
		readLabel:    readLabel,
		writeLabel:   writeLabel,
		readEnc:      readEnc,
		writeEnc:     writeEnc,
	}, nil
}

// parseReplacements accepts an ordered list of {pattern, replace} mappings, or a plain
// mapping from pattern to replacement applied in lexical pattern order.
func parseReplacements(rule domain.Rule) ([]replacement, error) {
	v, ok := rule.Field("replacements")
	if !ok || v == nil {
		return nil, nil
	}

	var reps []replacement
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, invalidField(rule, "replacements", fmt.Sprintf("unexpected %T in list", item))
			}
			pattern, _ := m["pattern"].(string)
			replace, _ := m["replace"].(string)
			if pattern == "" {
				return nil, invalidField(rule, "replacements", "missing pattern")
			}
			reps = append(reps, replacement{Pattern: pattern, Replace: replace})
		}
	default:
		m, err := mapField(rule, "replacements")
		if err != nil {
			return nil, err
		}
		patterns := make([]string, 0, len(m))
		for p := range m {
			patterns = append(patterns, p)
		}
		slices.Sort(patterns)
		for _, p := range patterns {
			reps = append(reps, replacement{Pattern: p, Replace: m[p]})
		}
	}

	for i := range reps {
		re, err := regexp.Compile(reps[i].Pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", reps[i].Pattern)
		}
		reps[i].re = re
	}
	return reps, nil
}

// Kind implements domain.Target.
func (r *ReplaceText) Kind() string { return ReplaceTextKind }

// Label implements domain.Target.
func (r *ReplaceText) Label() string { return "REPLACETEXT" }

// Config implements domain.Target.
func (r *ReplaceText) Config() any {
	return map[string]any{
		"replacements":   r.replacements,
		"read-encoding":  r.readLabel,
		"write-encoding": r.writeLabel,
	}
}

// Fields implements domain.Target.
func (r *ReplaceText) Fields() map[string]any {
	reps := make([]any, len(r.replacements))
	for i, rep := range r.replacements {
		reps[i] = map[string]any{"pattern": rep.Pattern, "replace": rep.Replace}
	}
	return map[string]any{
		"replacements":   reps,
		"read-encoding":  r.readLabel,
		"write-encoding": r.writeLabel,
	}
}

// Build writes the rewritten text next to the target and moves it into place.
func (r *ReplaceText) Build(_ context.Context, _ io.Writer) error {
	data, err := os.ReadFile(r.source)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", r.source)
	}
	text, err := decodeText(r.readEnc, data)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrUnknownEncoding.Error()), "path", r.source)
	}

	out, err := encodeText(r.writeEnc, r.apply(text))
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrUnknownEncoding.Error()), "path", r.target)
	}
	if err := r.env.FS.EnsureDir(filepath.Dir(r.target)); err != nil {
		return err
	}
	tmp := r.target + ".out"
	if err := os.WriteFile(tmp, out, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", tmp)
	}
	return r.env.FS.Move(tmp, r.target)
}

// apply normalizes line endings to \n and runs every replacement on each line.
func (r *ReplaceText) apply(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for line := range strings.SplitAfterSeq(text, "\n") {
		body, nl := strings.CutSuffix(line, "\n")
		for _, rep := range r.replacements {
			body = rep.re.ReplaceAllString(body, rep.Replace)
		}
		b.WriteString(body)
		if nl {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
