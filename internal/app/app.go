// Package app implements the application layer for sprout.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/sprout/internal/adapters/detector"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/sprout/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// CloseTimeout bounds how long the process waits for in-flight usage reports.
const CloseTimeout = 500 * time.Millisecond

// App represents the main application logic.
type App struct {
	detector     ports.SignalDetector
	resolver     ports.InputResolver
	synthesizer  ports.Synthesizer
	orchestrator *orchestrator.Orchestrator
	cache        ports.EnvironmentCache
	signals      ports.SignalSource
	usage        ports.UsageReporter
	logger       ports.Logger
	settings     *domain.Settings

	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	environment func() detector.Environment
	platform    domain.Platform
	teaOptions  []tea.ProgramOption
	disableTick bool
}

// New creates a new App instance.
func New(
	det ports.SignalDetector,
	resolver ports.InputResolver,
	synthesizer ports.Synthesizer,
	orch *orchestrator.Orchestrator,
	cache ports.EnvironmentCache,
	signals ports.SignalSource,
	usage ports.UsageReporter,
	log ports.Logger,
	settings *domain.Settings,
) *App {
	if settings == nil {
		settings = &domain.Settings{}
	}
	return &App{
		detector:     det,
		resolver:     resolver,
		synthesizer:  synthesizer,
		orchestrator: orch,
		cache:        cache,
		signals:      signals,
		usage:        usage,
		logger:       log,
		settings:     settings,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		environment:  detector.ReadEnvironment,
		platform:     domain.CurrentPlatform(),
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI spinner.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// WithStreams replaces the standard streams used for prompts and command output.
func (a *App) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *App {
	a.stdin, a.stdout, a.stderr = stdin, stdout, stderr
	return a
}

// WithEnvironment replaces terminal and CI detection.
func (a *App) WithEnvironment(env func() detector.Environment) *App {
	a.environment = env
	return a
}

// WithPlatform sets the platform environments are resolved for.
func (a *App) WithPlatform(p domain.Platform) *App {
	a.platform = p
	return a
}

// SetVerbose enables debug logging when the logger supports it.
func (a *App) SetVerbose(enable bool) {
	if v, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		v.SetVerbose(enable)
	}
}

// Options are the settings shared by every environment command.
type Options struct {
	ProjectDir string
	Offline    bool
	Refresh    bool
	OutputMode string
	Yes        bool
}

// DetectOptions configure the Detect command.
type DetectOptions struct {
	Options
	// Spec prints the synthesized expression.
	Spec bool
	// System resolves for another platform, e.g. "aarch64-darwin".
	System string
}

// Shell builds the project environment and starts the user's shell in it.
func (a *App) Shell(ctx context.Context, opts Options) error {
	return a.host(ctx, "shell", domain.Command{}, opts)
}

// Run builds the project environment and runs args in it. The command's
// exit status is returned as a *domain.HostedExit.
func (a *App) Run(ctx context.Context, args []string, opts Options) error {
	if len(args) == 0 {
		return domain.ErrNoCommand
	}
	return a.host(ctx, "run", domain.Command{Args: args}, opts)
}

func (a *App) host(ctx context.Context, subcommand string, cmd domain.Command, opts Options) error {
	p, err := a.plan(ctx, subcommand, a.platform, opts)
	if err != nil {
		return err
	}
	if cmd.Interactive() && len(p.report.Detections) == 0 {
		if err := a.confirmEmpty(opts); err != nil {
			return err
		}
	}

	session := domain.NewSession()
	env, err := a.realize(ctx, session, p, opts)
	if err != nil {
		return err
	}

	cmd.Dir = p.root
	_, err = a.orchestrator.Host(ctx, session, env, cmd)
	return err
}

// PrintDevEnv builds the project environment and writes it to stdout as
// shell export statements.
func (a *App) PrintDevEnv(ctx context.Context, opts Options) error {
	p, err := a.plan(ctx, "print-dev-env", a.platform, opts)
	if err != nil {
		return err
	}

	env, err := a.realize(ctx, domain.NewSession(), p, opts)
	if err != nil {
		return err
	}
	return writeExports(a.stdout, env, p.root)
}

// Detect prints what was detected and resolved without building anything.
func (a *App) Detect(ctx context.Context, opts DetectOptions) error {
	platform := a.platform
	if opts.System != "" {
		parsed, err := domain.ParsePlatform(opts.System)
		if err != nil {
			return err
		}
		platform = parsed
	}

	p, err := a.plan(ctx, "detect", platform, opts.Options)
	if err != nil {
		return err
	}

	writeReport(a.stdout, p)
	if opts.Spec {
		_, _ = fmt.Fprintln(a.stdout)
		_, _ = io.WriteString(a.stdout, p.spec.Text)
	}
	return nil
}

// Clean removes the environment cache.
func (a *App) Clean(_ context.Context) error {
	a.logger.Info("removing environment cache...")
	if err := a.cache.Clear(); err != nil {
		return zerr.Wrap(err, "failed to remove environment cache")
	}
	a.logger.Info("removed environment cache")
	return nil
}

// Close waits, bounded by ctx, for in-flight usage reports.
func (a *App) Close(ctx context.Context) {
	a.usage.Close(ctx)
}

// plan is everything known about a project before the build.
type plan struct {
	root     string
	report   *domain.DetectionReport
	resolved *domain.ResolvedEnvironment
	spec     domain.EnvironmentSpec
}

func (a *App) plan(ctx context.Context, subcommand string, platform domain.Platform, opts Options) (*plan, error) {
	root, err := projectRoot(opts.ProjectDir)
	if err != nil {
		return nil, err
	}

	report, err := a.detector.Detect(ctx, root)
	if err != nil {
		return nil, domain.WithPhase(err, domain.PhaseDetect)
	}
	a.report(subcommand, report)

	resolved, err := a.resolver.Resolve(report, platform)
	if err != nil {
		return nil, domain.WithPhase(err, domain.PhaseResolve)
	}

	spec, err := a.synthesizer.Synthesize(resolved)
	if err != nil {
		return nil, domain.WithPhase(err, domain.PhaseSynthesize)
	}

	return &plan{root: root, report: report, resolved: resolved, spec: spec}, nil
}

func projectRoot(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", domain.WithPhase(
			zerr.With(zerr.Wrap(domain.ErrProjectUnreadable, err.Error()), "dir", dir),
			domain.PhaseDetect,
		)
	}
	return root, nil
}

// confirmEmpty asks whether to continue when nothing was detected. It never
// prompts when the user cannot answer.
func (a *App) confirmEmpty(opts Options) error {
	if opts.Yes || !a.environment().Interactive() {
		return nil
	}

	ok, err := confirm(a.stdin, a.stderr, "No project toolchains detected. Continue with a minimal environment?")
	if err != nil {
		return zerr.Wrap(err, "failed to read answer")
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}

func (a *App) offline(opts Options) bool {
	return opts.Offline || a.settings.Offline
}

func (a *App) outputMode(opts Options) string {
	if opts.OutputMode != "" {
		return opts.OutputMode
	}
	return a.settings.OutputMode
}
