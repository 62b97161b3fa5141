// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command describes an external process invocation.
type Command struct {
	// Args holds the program followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra environment variables applied on top of the allow-listed system environment.
	Env map[string]string
}

// Result is the outcome of a captured command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// CommandRunner runs external processes on behalf of targets.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command, captures its output and waits for it to exit.
	// A non-zero exit status is reported as an error together with the captured result.
	Run(ctx context.Context, cmd Command) (Result, error)

	// Stream executes the command in a pseudo-terminal, copying its output to stdout as it arrives.
	// stderr receives the lines of a failed command's output.
	Stream(ctx context.Context, cmd Command, stdout, stderr io.Writer) error

	// Which looks up an executable on PATH.
	Which(name string) (string, bool)
}
