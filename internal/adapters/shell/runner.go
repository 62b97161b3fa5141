// Package shell provides the process runner used by command targets.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/creack/pty"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CommandRunner = (*Runner)(nil)

// Runner implements ports.CommandRunner using os/exec and pty.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes cmd with captured output and waits for it to exit.
func (r *Runner) Run(ctx context.Context, cmd ports.Command) (ports.Result, error) {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return ports.Result{}, err
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err = c.Run()
	res := ports.Result{
		ExitCode: exitCode(err),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}
	if err != nil {
		return res, commandError(err, cmd)
	}
	return res, nil
}

// Stream executes cmd in a pseudo-terminal and copies its combined output to stdout.
// When no terminal can be allocated the process runs on plain pipes instead and
// stderr receives its error stream.
func (r *Runner) Stream(ctx context.Context, cmd ports.Command, stdout, stderr io.Writer) error {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return err
	}

	ptmx, err := pty.Start(c)
	if err != nil {
		r.logger.Debug("pty unavailable, falling back to pipes: " + err.Error())
		return r.streamPipes(ctx, cmd, stdout, stderr)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// A pty read returns EIO once the child exits; that ends the copy.
		_, _ = io.Copy(stdout, ptmx)
	}()

	waitErr := c.Wait()
	<-ioDone
	_ = ptmx.Close()

	if waitErr != nil {
		return commandError(waitErr, cmd)
	}
	return nil
}

func (r *Runner) streamPipes(ctx context.Context, cmd ports.Command, stdout, stderr io.Writer) error {
	c, err := r.command(ctx, cmd)
	if err != nil {
		return err
	}
	c.Stdout = stdout
	c.Stderr = stderr

	if err := c.Run(); err != nil {
		return commandError(err, cmd)
	}
	return nil
}

// Which looks up an executable on the PATH of the process environment.
func (r *Runner) Which(name string) (string, bool) {
	p, err := lookPath(name, os.Environ())
	if err != nil {
		return "", false
	}
	return p, true
}

func (r *Runner) command(ctx context.Context, cmd ports.Command) (*exec.Cmd, error) {
	if len(cmd.Args) == 0 || cmd.Args[0] == "" {
		return nil, domain.ErrEmptyCommand
	}

	name := cmd.Args[0]
	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	r.logger.Debug("exec: " + strings.Join(cmd.Args, " "))

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // user provided command
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	return c, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func commandError(err error, cmd ports.Command) error {
	wrapped := zerr.Wrap(err, domain.ErrCommandFailed.Error())
	wrapped = zerr.With(wrapped, "command", strings.Join(cmd.Args, " "))
	return zerr.With(wrapped, "exit_code", exitCode(err))
}

// resolveEnvironment applies overrides on top of the system environment.
// The result is sorted by key.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
