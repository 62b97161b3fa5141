// Package rules reads and writes the textual rule file.
//
// A rule file is a sequence of stanzas:
//
//	[TYPE name]: dep1, dep2
//	< extra provide
//	> input file
//	field: value
//
// Stanzas are separated by blank lines. Lines starting with # are comments.
package rules

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var headerRegex = regexp.MustCompile(`^\[([A-Za-z0-9]+) ([^:]+)\]:(.*)$`)

const yamlIndent = 2

// Encode writes rules to w in name order.
func Encode(w io.Writer, rules []domain.Rule) error {
	sorted := slices.Clone(rules)
	slices.SortStableFunc(sorted, func(a, b domain.Rule) int { return strings.Compare(a.Name, b.Name) })

	bw := bufio.NewWriter(w)
	for i := range sorted {
		if err := encodeRule(bw, &sorted[i]); err != nil {
			return zerr.With(err, "rule", sorted[i].Name)
		}
	}
	return bw.Flush()
}

func encodeRule(w *bufio.Writer, r *domain.Rule) error {
	_, _ = fmt.Fprintf(w, "[%s %s]: %s\n", r.Type, r.Name, strings.Join(r.Dependencies, ", "))
	for _, p := range r.ExtraProvides() {
		_, _ = fmt.Fprintf(w, "< %s\n", p)
	}
	for _, f := range r.Files {
		_, _ = fmt.Fprintf(w, "> %s\n", f)
	}

	block := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		block[k] = v
	}
	// Provides that do not include the name cannot be rebuilt from the < lines alone.
	if !slices.Contains(r.Provides, r.Name) {
		block["provides"] = r.Provides
	}
	if len(block) > 0 {
		if err := encodeYAML(w, block); err != nil {
			return zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error())
		}
	}

	_, err := w.WriteString("\n")
	return err
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Decode parses a rule file.
// A stanza without a field block provides its name and every < entry.
func Decode(r io.Reader) ([]domain.Rule, error) {
	var (
		rules   []domain.Rule
		current *domain.Rule
		fields  bytes.Buffer
		lineNo  int
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if fields.Len() > 0 {
			if err := yaml.Unmarshal(fields.Bytes(), current); err != nil {
				err = zerr.Wrap(err, domain.ErrRuleFieldsParseFailed.Error())
				return zerr.With(err, "rule", current.Name)
			}
		}
		rules = append(rules, *current)
		current = nil
		fields.Reset()
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		line := strings.TrimRight(raw, " \t\r")

		if m := headerRegex.FindStringSubmatch(line); m != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			current = &domain.Rule{
				Type:         m[1],
				Name:         m[2],
				Dependencies: splitList(m[3]),
				Provides:     []string{m[2]},
			}
			continue
		}

		if current == nil {
			err := zerr.With(domain.ErrRuleFieldsParseFailed, "line", lineNo)
			return nil, zerr.With(err, "reason", "content before first rule header")
		}

		switch {
		case strings.HasPrefix(line, ">"):
			current.Files = append(current.Files, strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "<"):
			current.Provides = append(current.Provides, strings.TrimSpace(line[1:]))
		default:
			fields.WriteString(raw)
			fields.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrRuleFileReadFailed.Error())
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return rules, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
