package targets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// CommandKind is the type tag of command targets.
	CommandKind = "Command"
	// CommandLabel is the progress label of command targets.
	CommandLabel = "SHELL"
)

// Command runs an external program and touches every provide afterwards.
// A string command runs through sh -c; a list runs the program directly.
type Command struct {
	*domain.BaseTarget
	env        *Env
	raw        any
	args       []string
	showOutput bool
	echo       bool
}

func newCommand(env *Env, rule domain.Rule) (domain.Target, error) {
	raw, _ := rule.Field("cmd")
	var args []string
	if line, ok := raw.(string); ok {
		if strings.TrimSpace(line) == "" {
			return nil, zerr.With(domain.ErrEmptyCommand, "target", rule.Name)
		}
		args = []string{"sh", "-c", line}
	} else {
		var err error
		if args, err = stringsField(rule, "cmd"); err != nil {
			return nil, err
		}
		raw = args
	}
	if len(args) == 0 {
		return nil, zerr.With(domain.ErrEmptyCommand, "target", rule.Name)
	}
	showOutput, err := boolField(rule, "show-output")
	if err != nil {
		return nil, err
	}
	echo, err := boolField(rule, "echo")
	if err != nil {
		return nil, err
	}

	name := rule.Name
	if name == "" {
		name = commandLine(raw)
	}
	base, err := domain.NewBaseTarget(name, rule.Provides, domain.Paths(rule.Files...), rule.Dependencies)
	if err != nil {
		return nil, err
	}
	return &Command{
		BaseTarget: base,
		env:        env,
		raw:        raw,
		args:       args,
		showOutput: showOutput,
		echo:       echo,
	}, nil
}

func commandLine(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case []string:
		quoted := make([]string, len(v))
		for i, a := range v {
			if a == "" || strings.ContainsAny(a, " \t\"'") {
				a = fmt.Sprintf("%q", a)
			}
			quoted[i] = a
		}
		return strings.Join(quoted, " ")
	default:
		return fmt.Sprint(v)
	}
}

// Kind implements domain.Target.
func (c *Command) Kind() string { return CommandKind }

// Label implements domain.Target.
func (c *Command) Label() string { return CommandLabel }

// Args returns the process arguments.
func (c *Command) Args() []string { return c.args }

// Config implements domain.Target.
func (c *Command) Config() any {
	return map[string]any{
		"cmd":         c.args,
		"show-output": c.showOutput,
		"echo":        c.echo,
	}
}

// Fields implements domain.Target.
func (c *Command) Fields() map[string]any {
	fields := map[string]any{"cmd": c.raw}
	if c.showOutput {
		fields["show-output"] = true
	}
	if c.echo {
		fields["echo"] = true
	}
	return fields
}

// Build runs the command in the project root. Captured output is only written to out
// when the command fails. A program given without a path must be on PATH.
func (c *Command) Build(ctx context.Context, out io.Writer) error {
	if program := c.args[0]; !strings.ContainsRune(program, filepath.Separator) {
		if _, ok := c.env.Runner.Which(program); !ok {
			return zerr.With(domain.ErrExecutableNotFound, "program", program)
		}
	}

	cmd := ports.Command{Args: c.args, Dir: c.env.Root}
	c.env.Logger.Debug("exec " + commandLine(c.args))
	if c.echo {
		_, _ = fmt.Fprintf(out, "$ %s\n", commandLine(c.raw))
	}

	if c.showOutput {
		if err := c.env.Runner.Stream(ctx, cmd, out, out); err != nil {
			return err
		}
	} else {
		res, err := c.env.Runner.Run(ctx, cmd)
		if err != nil {
			_, _ = out.Write(res.Stdout)
			_, _ = out.Write(res.Stderr)
			return err
		}
	}

	for _, p := range c.Provides() {
		if err := c.env.FS.Touch(p); err != nil {
			return err
		}
	}
	return nil
}
