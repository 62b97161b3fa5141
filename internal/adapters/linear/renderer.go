// Package linear provides a synchronous, line-buffered renderer for build output.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/maestro/internal/ui/output"
	"go.trai.ch/maestro/internal/ui/style"
)

// Renderer implements ports.Renderer. Output of each target is printed line by line
// with the target name as prefix; failures are reported on stderr.
type Renderer struct {
	stdout  io.Writer
	stderr  io.Writer
	output  *termenv.Output
	verbose bool

	mu    sync.Mutex
	spans map[string]*span
}

// span holds a running target and its unterminated output.
type span struct {
	name    string
	started time.Time
	pending bytes.Buffer
}

// NewRenderer creates a Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, output.ColorProfileANSI),
		spans:  make(map[string]*span),
	}
}

// WithColors enables or disables escape codes.
func (r *Renderer) WithColors(colors bool) *Renderer {
	profile := termenv.Ascii
	if colors {
		profile = termenv.ANSI
	}
	r.output = output.NewWithProfile(r.stderr, func() termenv.Profile { return profile })
	return r
}

// WithVerbose makes the renderer report plans and successful builds.
func (r *Renderer) WithVerbose(verbose bool) *Renderer {
	r.verbose = verbose
	return r
}

// Start is a no-op; the renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints whatever output is still pending.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sp := range r.spans {
		r.flushLocked(sp)
	}
	return nil
}

// Wait is a no-op; the renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the number of registered targets in verbose mode.
func (r *Renderer) OnPlanEmit(targets []string, deps map[string][]string) {
	if !r.verbose {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	edges := 0
	for _, d := range deps {
		edges += len(d)
	}
	_, _ = fmt.Fprintf(r.stderr, "Planning %d target(s) with %d dependency edge(s)\n", len(targets), edges)
}

// OnTaskStart begins buffering output for the span.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.spans[spanID] = &span{name: name, started: startTime}
}

// OnTaskLog prints every complete line of data with the target prefix and keeps
// the remainder until more output or the end of the span.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.spans[spanID]
	if !ok {
		return
	}

	sp.pending.Write(data)
	for {
		idx := bytes.IndexByte(sp.pending.Bytes(), '\n')
		if idx < 0 {
			return
		}
		r.printLocked(sp.name, sp.pending.Next(idx+1))
	}
}

// OnTaskComplete prints pending output and the outcome. Successes are only reported
// in verbose mode.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sp, ok := r.spans[spanID]
	if !ok {
		return
	}
	delete(r.spans, spanID)
	r.flushLocked(sp)

	if err == nil && !r.verbose {
		return
	}

	elapsed := endTime.Sub(sp.started).Round(time.Millisecond)
	prefix := r.output.String("[" + sp.name + "]").Faint().String()
	if err != nil {
		mark := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, mark, elapsed, err)
		return
	}
	mark := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, mark, elapsed)
}

func (r *Renderer) flushLocked(sp *span) {
	if sp.pending.Len() == 0 {
		return
	}
	r.printLocked(sp.name, sp.pending.Bytes())
	sp.pending.Reset()
}

func (r *Renderer) printLocked(name string, line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
