// Package app implements the application layer for maestro.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/maestro/internal/adapters/detector"
	"go.trai.ch/maestro/internal/adapters/linear"
	"go.trai.ch/maestro/internal/adapters/telemetry"
	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/maestro/internal/core/ports"
	"go.trai.ch/maestro/internal/engine/maestro"
	"go.trai.ch/maestro/internal/targets"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	loader  ports.ConfigLoader
	fs      ports.FileSystem
	hasher  ports.Hasher
	hashes  ports.ConfigHashStore
	outputs ports.OutputStore
	rules   ports.RuleStore
	runner  ports.CommandRunner
	watcher ports.Watcher
	logger  ports.Logger

	stdout  io.Writer
	stderr  io.Writer
	workDir string
	env     detector.Environment
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	fs ports.FileSystem,
	hasher ports.Hasher,
	hashes ports.ConfigHashStore,
	outputs ports.OutputStore,
	rules ports.RuleStore,
	runner ports.CommandRunner,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		loader:  loader,
		fs:      fs,
		hasher:  hasher,
		hashes:  hashes,
		outputs: outputs,
		rules:   rules,
		runner:  runner,
		watcher: watcher,
		logger:  log,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		env:     detector.DetectEnvironment(),
	}
}

// WithOutput redirects the build output streams.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithWorkDir sets the directory the buildfile search starts from.
// The process working directory is used when it is empty.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithEnvironment overrides the detected terminal environment.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.env = env
	return a
}

// RunOptions configuration shared by every command.
type RunOptions struct {
	// File is an explicit buildfile path. Empty means search upwards from the work directory.
	File string
	// RulesFile builds from a rule file instead of the buildfile.
	RulesFile string
	// StateDir overrides the build-state directory.
	StateDir string
	// Rebuild cleans all known outputs before building.
	Rebuild  bool
	Verbose  bool
	NoColors bool
	JSON     bool
}

// Run builds every stale target.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	_, err := a.build(ctx, opts)
	return err
}

// build loads the configuration and runs one build. The session is nil when the
// configuration could not be loaded.
func (a *App) build(ctx context.Context, opts RunOptions) (*session, error) {
	colors := a.configure(opts)

	renderer := linear.NewRenderer(a.stdout, a.stderr).
		WithColors(colors).
		WithVerbose(opts.Verbose)

	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)
	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName).WithRenderer(renderer)

	s, err := a.open(opts, tracer)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Rebuild {
		if err := s.maestro.Clean(ctx); err != nil {
			return s, err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		return s.maestro.Run(ctx)
	})

	return s, g.Wait()
}

// Clean removes every known output and the build-state directory.
func (a *App) Clean(ctx context.Context, opts RunOptions) error {
	a.configure(opts)

	s, err := a.open(opts, telemetry.NewNoOpTracer())
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	return s.maestro.Clean(ctx)
}

// SaveRules writes the rule file describing every target to path.
func (a *App) SaveRules(_ context.Context, path string, opts RunOptions) error {
	a.configure(opts)

	s, err := a.open(opts, telemetry.NewNoOpTracer())
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	path = a.abs(path)
	if err := s.maestro.SaveRules(path, s.registry); err != nil {
		return err
	}
	a.logger.Info("wrote " + path)
	return nil
}

// loggerSettings is implemented by loggers that follow the command line flags.
type loggerSettings interface {
	SetVerbose(enable bool)
	SetColors(enable bool)
	SetJSON(enable bool)
}

// configure applies the output flags to the logger and returns whether colors are enabled.
func (a *App) configure(opts RunOptions) bool {
	colors := a.env.Colors(opts.NoColors)
	if l, ok := a.logger.(loggerSettings); ok {
		l.SetVerbose(opts.Verbose)
		l.SetColors(colors)
		l.SetJSON(opts.JSON)
	}
	return colors
}

// session is one loaded build: its location and a fresh orchestrator holding its targets.
type session struct {
	root     string
	stateDir string
	registry *targets.Registry
	maestro  *maestro.Maestro
}

func (a *App) open(opts RunOptions, tracer ports.Tracer) (*session, error) {
	cwd := a.cwd()
	s := &session{root: cwd}

	var rules []domain.Rule
	if opts.RulesFile != "" {
		if root, err := a.loader.DiscoverRoot(cwd); err == nil {
			s.root = root
		}
	} else {
		bf, err := a.loadBuildfile(cwd, opts.File)
		if err != nil {
			return nil, err
		}
		s.root, s.stateDir, rules = bf.Root, bf.StateDir, bf.Rules
	}
	if opts.StateDir != "" {
		s.stateDir = a.abs(opts.StateDir)
	}
	if s.stateDir == "" {
		s.stateDir = filepath.Join(s.root, domain.DefaultStateDir())
	}

	s.registry = targets.NewRegistry(&targets.Env{
		Root:     s.root,
		StateDir: s.stateDir,
		FS:       a.fs,
		Runner:   a.runner,
		Logger:   a.logger,
	})
	s.maestro = maestro.New(
		s.stateDir,
		a.fs,
		a.hasher,
		a.hashes,
		a.outputs,
		a.rules,
		tracer,
		a.logger,
		maestro.WithVerbose(opts.Verbose),
	)

	if opts.RulesFile != "" {
		if err := s.maestro.LoadRules(a.abs(opts.RulesFile), s.registry); err != nil {
			return nil, err
		}
		return s, nil
	}
	for _, rule := range rules {
		t, err := s.registry.New(rule)
		if err != nil {
			return nil, err
		}
		if err := s.maestro.Add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (a *App) loadBuildfile(cwd, file string) (*domain.Buildfile, error) {
	if file != "" {
		return a.loader.LoadFile(a.abs(file))
	}
	return a.loader.Load(cwd)
}

func (a *App) cwd() string {
	if a.workDir != "" {
		return a.workDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (a *App) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.cwd(), p)
}

// IsBuildFailure reports whether err comes from a failed target build, which the
// renderer has already reported.
func IsBuildFailure(err error) bool {
	return errors.Is(err, domain.ErrTargetBuildFailed)
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
