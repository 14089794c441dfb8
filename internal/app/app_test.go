package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sprout/internal/adapters/detector"
	"go.trai.ch/sprout/internal/app"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/sprout/internal/core/ports/mocks"
	"go.trai.ch/sprout/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

var (
	linux = domain.Platform{OS: "linux", Arch: "amd64"}
	ciEnv = detector.Environment{CI: true}

	rust = &domain.Ecosystem{
		ID:      "rust-cargo",
		Name:    "Rust",
		Markers: []string{"Cargo.toml"},
		Defaults: domain.Contribution{
			Inputs:    []domain.BuildInput{domain.MustParseBuildInput("rustc"), domain.MustParseBuildInput("cargo")},
			Variables: map[string]string{"RUST_BACKTRACE": "1"},
		},
		Dependencies: map[string]domain.Contribution{
			"openssl-sys": {Inputs: []domain.BuildInput{domain.MustParseBuildInput("openssl")}},
		},
	}

	spec = domain.EnvironmentSpec{System: "x86_64-linux", Text: "pkgs.mkShell { }\n"}
)

type fakeSignals struct {
	ch chan os.Signal
}

func (f *fakeSignals) Subscribe() (<-chan os.Signal, func()) { return f.ch, func() {} }
func (f *fakeSignals) Raise(sig os.Signal)                   { f.ch <- sig }

type fakeBuild struct {
	lines chan string
	env   *domain.RealizedEnvironment
	err   error
}

func newFakeBuild(env *domain.RealizedEnvironment, err error, lines ...string) *fakeBuild {
	b := &fakeBuild{lines: make(chan string, len(lines)), env: env, err: err}
	for _, l := range lines {
		b.lines <- l
	}
	close(b.lines)
	return b
}

func (b *fakeBuild) Lines() <-chan string                       { return b.lines }
func (b *fakeBuild) Pid() int                                   { return 4242 }
func (b *fakeBuild) Terminate() error                           { return nil }
func (b *fakeBuild) Wait() (*domain.RealizedEnvironment, error) { return b.env, b.err }

type fixture struct {
	detector *mocks.MockSignalDetector
	resolver *mocks.MockInputResolver
	synth    *mocks.MockSynthesizer
	builder  *mocks.MockEnvironmentBuilder
	staged   *mocks.MockStagedSpec
	cache    *mocks.MockEnvironmentCache
	host     *mocks.MockProcessHost
	hosted   *mocks.MockHostedProcess
	usage    *mocks.MockUsageReporter
	logger   *mocks.MockLogger

	root   string
	stdin  *strings.Reader
	stdout bytes.Buffer
	stderr bytes.Buffer
	term   detector.Environment

	mu     sync.Mutex
	events []domain.UsageEvent

	app *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)

	f := &fixture{
		detector: mocks.NewMockSignalDetector(ctrl),
		resolver: mocks.NewMockInputResolver(ctrl),
		synth:    mocks.NewMockSynthesizer(ctrl),
		builder:  mocks.NewMockEnvironmentBuilder(ctrl),
		staged:   mocks.NewMockStagedSpec(ctrl),
		cache:    mocks.NewMockEnvironmentCache(ctrl),
		host:     mocks.NewMockProcessHost(ctrl),
		hosted:   mocks.NewMockHostedProcess(ctrl),
		usage:    mocks.NewMockUsageReporter(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		root:     t.TempDir(),
		stdin:    strings.NewReader(""),
		term:     ciEnv,
	}
	f.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	f.staged.EXPECT().Path().Return("/tmp/sprout-env-1.nix").AnyTimes()
	f.usage.EXPECT().Report(gomock.Any()).Do(func(e domain.UsageEvent) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.events = append(f.events, e)
	}).AnyTimes()

	signals := &fakeSignals{ch: make(chan os.Signal, 1)}
	orch := orchestrator.New(f.builder, f.cache, f.host, signals, f.logger)
	f.app = app.New(f.detector, f.resolver, f.synth, orch, f.cache, signals, f.usage, f.logger, &domain.Settings{}).
		WithStreams(f.stdin, &f.stdout, &f.stderr).
		WithEnvironment(func() detector.Environment { return f.term }).
		WithPlatform(linux)
	return f
}

func (f *fixture) options() app.Options {
	return app.Options{ProjectDir: f.root}
}

// expectPlan wires detection, resolution and synthesis for report.
func (f *fixture) expectPlan(report *domain.DetectionReport, platform domain.Platform) *domain.ResolvedEnvironment {
	report.Root = f.root
	resolved := &domain.ResolvedEnvironment{
		Root:       f.root,
		Platform:   platform,
		Ecosystems: report.Ecosystems(),
		Inputs: []domain.BuildInput{
			domain.MustParseBuildInput("cargo"),
			domain.MustParseBuildInput("openssl"),
			domain.MustParseBuildInput("rustc"),
		},
		Variables: []domain.Variable{{Name: "RUST_BACKTRACE", Value: "1"}},
		Warnings:  report.Warnings,
	}
	f.detector.EXPECT().Detect(gomock.Any(), f.root).Return(report, nil)
	f.resolver.EXPECT().Resolve(report, platform).Return(resolved, nil)
	f.synth.EXPECT().Synthesize(resolved).Return(spec, nil)
	return resolved
}

func (f *fixture) expectBuild(build *fakeBuild) {
	f.cache.EXPECT().Load(spec.ID()).Return(nil, domain.ErrCacheMiss)
	f.builder.EXPECT().Stage(spec).Return(f.staged, nil)
	f.builder.EXPECT().Start(gomock.Any(), f.staged, ports.BuildOptions{}).Return(build, nil)
	f.staged.EXPECT().Release().Return(nil)
}

func rustReport() *domain.DetectionReport {
	return &domain.DetectionReport{
		Detections: []domain.Detection{{
			Ecosystem:    rust,
			Markers:      []string{"Cargo.toml"},
			Dependencies: []string{"openssl-sys", "serde"},
		}},
		Warnings: []domain.Warning{{Phase: domain.PhaseDetect, Subject: "Cargo.toml", Message: "unreadable manifest"}},
	}
}

func TestApp_Run_BuildsAndPassesExitCode(t *testing.T) {
	f := newFixture(t)
	f.expectPlan(rustReport(), linux)

	env := &domain.RealizedEnvironment{Variables: []string{"PATH=/nix/store/a/bin"}}
	f.expectBuild(newFakeBuild(env, nil, "copying path '/nix/store/a'", "building 'b.drv'"))
	f.cache.EXPECT().Store(env).Return(nil)

	f.host.EXPECT().Spawn(gomock.Any(), domain.Command{Args: []string{"cargo", "test"}, Dir: f.root}, env).Return(f.hosted, nil)
	f.hosted.EXPECT().Pid().Return(99).AnyTimes()
	f.hosted.EXPECT().Wait().Return(domain.ExitStatus{Code: 7}, nil)

	err := f.app.Run(context.Background(), []string{"cargo", "test"}, f.options())

	var hosted *domain.HostedExit
	require.ErrorAs(t, err, &hosted)
	assert.Equal(t, 7, domain.ExitCode(err))
	assert.Equal(t, spec.ID(), env.SpecID)

	out := f.stderr.String()
	assert.Contains(t, out, "✓ Rust: cargo, openssl, rustc (RUST_BACKTRACE)\n")
	assert.Contains(t, out, "! [detect] Cargo.toml: unreadable manifest\n")
	assert.Contains(t, out, "[build] copying path '/nix/store/a'\n[build] building 'b.drv'\n")
	assert.Less(t, strings.Index(out, "✓ Rust"), strings.Index(out, "[build] Starting..."))

	require.Len(t, f.events, 1)
	assert.Equal(t, "run", f.events[0].Subcommand)
	assert.Equal(t, []string{"rust-cargo"}, f.events[0].DetectedEcosystem)
	assert.True(t, f.events[0].InCI)
}

func TestApp_Run_NoCommand(t *testing.T) {
	f := newFixture(t)
	err := f.app.Run(context.Background(), nil, f.options())
	require.ErrorIs(t, err, domain.ErrNoCommand)
}

func TestApp_Run_BuildFailure(t *testing.T) {
	f := newFixture(t)
	f.expectPlan(rustReport(), linux)

	failure := &domain.BuildFailure{Tool: "nix", ExitCode: 1, Output: []string{"error: attribute 'nope' missing"}}
	f.expectBuild(newFakeBuild(nil, failure, "error: attribute 'nope' missing"))

	err := f.app.Run(context.Background(), []string{"true"}, f.options())
	require.Error(t, err)
	assert.Equal(t, domain.ExitBuildFailed, domain.ExitCode(err))
	assert.Contains(t, f.stderr.String(), "[build] error: attribute 'nope' missing\n")
}

func TestApp_Run_OfflineFromSettings(t *testing.T) {
	f := newFixture(t)
	f.expectPlan(rustReport(), linux)

	env := &domain.RealizedEnvironment{}
	f.cache.EXPECT().Load(spec.ID()).Return(nil, domain.ErrCacheMiss)
	f.builder.EXPECT().Stage(spec).Return(f.staged, nil)
	f.builder.EXPECT().Start(gomock.Any(), f.staged, ports.BuildOptions{Offline: true}).Return(newFakeBuild(env, nil), nil)
	f.staged.EXPECT().Release().Return(nil)
	f.cache.EXPECT().Store(env).Return(nil)
	f.host.EXPECT().Spawn(gomock.Any(), gomock.Any(), env).Return(f.hosted, nil)
	f.hosted.EXPECT().Pid().Return(99).AnyTimes()
	f.hosted.EXPECT().Wait().Return(domain.ExitStatus{}, nil)

	opts := f.options()
	opts.Offline = true
	require.NoError(t, f.app.Run(context.Background(), []string{"true"}, opts))
}

func TestApp_Shell_NothingDetectedInCI(t *testing.T) {
	f := newFixture(t)
	f.expectPlan(&domain.DetectionReport{}, linux)

	env := &domain.RealizedEnvironment{SpecID: spec.ID(), Cached: true}
	f.cache.EXPECT().Load(spec.ID()).Return(env, nil)
	f.host.EXPECT().Spawn(gomock.Any(), domain.Command{Dir: f.root}, env).Return(f.hosted, nil)
	f.hosted.EXPECT().Pid().Return(99).AnyTimes()
	f.hosted.EXPECT().Wait().Return(domain.ExitStatus{}, nil)

	require.NoError(t, f.app.Shell(context.Background(), f.options()))
	assert.NotContains(t, f.stderr.String(), "[y/N]")
	assert.Contains(t, f.stderr.String(), "! no project toolchains detected, using a minimal environment\n")
}

func TestApp_Shell_PromptDeclined(t *testing.T) {
	f := newFixture(t)
	f.term = detector.Environment{StdinTTY: true, StdoutTTY: true}
	f.stdin.Reset("n\n")
	f.expectPlan(&domain.DetectionReport{}, linux)

	err := f.app.Shell(context.Background(), f.options())
	require.ErrorIs(t, err, domain.ErrAborted)
	assert.Equal(t, domain.ExitFailure, domain.ExitCode(err))
	assert.Contains(t, f.stderr.String(), "Continue with a minimal environment? [y/N] ")
}

func TestApp_Shell_YesSkipsPrompt(t *testing.T) {
	f := newFixture(t)
	f.term = detector.Environment{StdinTTY: true, StdoutTTY: true}
	f.app.WithTeaOptions(tea.WithInput(nil), tea.WithOutput(io.Discard)).WithDisableTick()
	f.expectPlan(&domain.DetectionReport{}, linux)

	env := &domain.RealizedEnvironment{SpecID: spec.ID(), Cached: true}
	f.cache.EXPECT().Load(spec.ID()).Return(env, nil)
	f.host.EXPECT().Spawn(gomock.Any(), domain.Command{Dir: f.root}, env).Return(f.hosted, nil)
	f.hosted.EXPECT().Pid().Return(99).AnyTimes()
	f.hosted.EXPECT().Wait().Return(domain.ExitStatus{}, nil)

	opts := f.options()
	opts.Yes = true
	require.NoError(t, f.app.Shell(context.Background(), opts))
	assert.NotContains(t, f.stderr.String(), "[y/N]")
}

func TestApp_PrintDevEnv(t *testing.T) {
	f := newFixture(t)
	f.expectPlan(rustReport(), linux)

	env := &domain.RealizedEnvironment{
		SpecID:    spec.ID(),
		Variables: []string{"RUST_SRC_PATH=/nix/store/r src", "PATH=/nix/store/a/bin"},
		Cached:    true,
	}
	f.cache.EXPECT().Load(spec.ID()).Return(env, nil)

	require.NoError(t, f.app.PrintDevEnv(context.Background(), f.options()))
	assert.Equal(t,
		"export PATH=/nix/store/a/bin${PATH:+:$PATH}\n"+
			"export RUST_SRC_PATH='/nix/store/r src'\n"+
			"export SPROUT_ACTIVE="+f.root+"\n"+
			"export SPROUT_ENV_ID="+spec.ID()+"\n",
		f.stdout.String())
}

func TestApp_PrintDevEnv_Unquotable(t *testing.T) {
	f := newFixture(t)
	f.expectPlan(rustReport(), linux)

	env := &domain.RealizedEnvironment{SpecID: spec.ID(), Variables: []string{"BAD=a\x00b"}, Cached: true}
	f.cache.EXPECT().Load(spec.ID()).Return(env, nil)

	require.Error(t, f.app.PrintDevEnv(context.Background(), f.options()))
}

func TestApp_Detect(t *testing.T) {
	f := newFixture(t)
	darwin := domain.Platform{OS: "darwin", Arch: "arm64"}
	f.expectPlan(rustReport(), darwin)

	err := f.app.Detect(context.Background(), app.DetectOptions{Options: f.options(), Spec: true, System: "aarch64-darwin"})
	require.NoError(t, err)

	out := f.stdout.String()
	assert.Contains(t, out, "Project: "+f.root+"\n")
	assert.Contains(t, out, "System:  aarch64-darwin\n")
	assert.Contains(t, out, "✓ Rust: cargo, openssl, rustc (RUST_BACKTRACE)\n    markers: Cargo.toml\n")
	assert.Contains(t, out, "Inputs: cargo, openssl, rustc\n")
	assert.Contains(t, out, "Variables: RUST_BACKTRACE\n")
	assert.Contains(t, out, "! [detect] Cargo.toml: unreadable manifest\n")
	assert.True(t, strings.HasSuffix(out, "\n"+spec.Text))
	assert.Empty(t, f.stderr.String())
}

func TestApp_Detect_UnknownSystem(t *testing.T) {
	f := newFixture(t)
	err := f.app.Detect(context.Background(), app.DetectOptions{Options: f.options(), System: "pdp11-unix"})
	require.ErrorIs(t, err, domain.ErrUnknownPlatform)
}

func TestApp_DetectionFailure(t *testing.T) {
	f := newFixture(t)
	f.detector.EXPECT().Detect(gomock.Any(), f.root).Return(nil, domain.ErrProjectUnreadable)

	err := f.app.Shell(context.Background(), f.options())
	require.ErrorIs(t, err, domain.ErrProjectUnreadable)
	assert.Equal(t, domain.PhaseDetect, domain.PhaseOf(err))
	assert.Equal(t, domain.ExitEnvironmentFailed, domain.ExitCode(err))
}

func TestApp_SynthesisFailure(t *testing.T) {
	f := newFixture(t)
	report := rustReport()
	resolved := &domain.ResolvedEnvironment{Root: f.root, Platform: linux}
	f.detector.EXPECT().Detect(gomock.Any(), f.root).Return(report, nil)
	f.resolver.EXPECT().Resolve(report, linux).Return(resolved, nil)
	f.synth.EXPECT().Synthesize(resolved).Return(domain.EnvironmentSpec{}, domain.ErrUnencodableInput)

	err := f.app.Shell(context.Background(), f.options())
	require.ErrorIs(t, err, domain.ErrUnencodableInput)
	assert.Equal(t, domain.ExitEnvironmentFailed, domain.ExitCode(err))
}

func TestApp_TUI(t *testing.T) {
	f := newFixture(t)
	f.term = detector.Environment{StdinTTY: true, StdoutTTY: true}
	f.app.WithTeaOptions(tea.WithInput(nil), tea.WithOutput(io.Discard)).WithDisableTick()
	f.expectPlan(rustReport(), linux)

	env := &domain.RealizedEnvironment{}
	f.expectBuild(newFakeBuild(env, nil, "building 'b.drv'"))
	f.cache.EXPECT().Store(env).Return(nil)
	f.host.EXPECT().Spawn(gomock.Any(), gomock.Any(), env).Return(f.hosted, nil)
	f.hosted.EXPECT().Pid().Return(99).AnyTimes()
	f.hosted.EXPECT().Wait().Return(domain.ExitStatus{}, nil)

	require.NoError(t, f.app.Run(context.Background(), []string{"true"}, f.options()))
	assert.NotContains(t, f.stderr.String(), "[build]")
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any()).Times(2)
	f.cache.EXPECT().Clear().Return(nil)
	require.NoError(t, f.app.Clean(context.Background()))
}

func TestApp_CleanFailure(t *testing.T) {
	f := newFixture(t)
	f.logger.EXPECT().Info(gomock.Any())
	f.cache.EXPECT().Clear().Return(errors.New("permission denied"))
	require.Error(t, f.app.Clean(context.Background()))
}

func TestApp_Close(t *testing.T) {
	f := newFixture(t)
	f.usage.EXPECT().Close(gomock.Any())
	f.app.Close(context.Background())
}
