package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/sprout/internal/core/ports/mocks"
	"go.trai.ch/sprout/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

var spec = domain.EnvironmentSpec{System: "x86_64-linux", Text: "pkgs.mkShell { }"}

type fakeSignals struct {
	ch chan os.Signal
}

func newFakeSignals() *fakeSignals {
	return &fakeSignals{ch: make(chan os.Signal, 4)}
}

func (f *fakeSignals) Subscribe() (<-chan os.Signal, func()) { return f.ch, func() {} }
func (f *fakeSignals) Raise(sig os.Signal)                   { f.ch <- sig }

type recordingSink struct {
	mu    sync.Mutex
	lines []string
	ticks []time.Duration
	onLn  func(string)
}

func (s *recordingSink) Line(line string) {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
	if s.onLn != nil {
		s.onLn(line)
	}
}

func (s *recordingSink) Tick(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks = append(s.ticks, d)
}

// fakeBuild streams lines until finish or Terminate is called.
type fakeBuild struct {
	lines      chan string
	once       sync.Once
	terminated bool
	env        *domain.RealizedEnvironment
	err        error
}

func newFakeBuild(lines ...string) *fakeBuild {
	b := &fakeBuild{lines: make(chan string, len(lines)+1)}
	for _, l := range lines {
		b.lines <- l
	}
	return b
}

func (b *fakeBuild) finish()              { b.once.Do(func() { close(b.lines) }) }
func (b *fakeBuild) Lines() <-chan string { return b.lines }
func (b *fakeBuild) Pid() int             { return 4242 }
func (b *fakeBuild) Terminate() error {
	b.terminated = true
	b.finish()
	return nil
}

func (b *fakeBuild) Wait() (*domain.RealizedEnvironment, error) {
	if b.terminated {
		return nil, domain.ErrBuildInterrupted
	}
	return b.env, b.err
}

type fixture struct {
	builder *mocks.MockEnvironmentBuilder
	cache   *mocks.MockEnvironmentCache
	staged  *mocks.MockStagedSpec
	host    *mocks.MockProcessHost
	signals *fakeSignals
	orch    *orchestrator.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	f := &fixture{
		builder: mocks.NewMockEnvironmentBuilder(ctrl),
		cache:   mocks.NewMockEnvironmentCache(ctrl),
		staged:  mocks.NewMockStagedSpec(ctrl),
		host:    mocks.NewMockProcessHost(ctrl),
		signals: newFakeSignals(),
	}
	f.staged.EXPECT().Path().Return("/tmp/sprout-env-1.nix").AnyTimes()
	f.orch = orchestrator.New(f.builder, f.cache, f.host, f.signals, log)
	return f
}

func (f *fixture) expectBuild(build *fakeBuild, opts ports.BuildOptions) {
	f.cache.EXPECT().Load(spec.ID()).Return(nil, domain.ErrCacheMiss)
	f.builder.EXPECT().Stage(spec).Return(f.staged, nil)
	f.builder.EXPECT().Start(gomock.Any(), f.staged, opts).Return(build, nil)
	f.staged.EXPECT().Release().Return(nil)
}

func TestRealize_CacheHit(t *testing.T) {
	f := newFixture(t)
	cached := &domain.RealizedEnvironment{SpecID: spec.ID(), Variables: []string{"PATH=/nix/store/a/bin"}, Cached: true}
	f.cache.EXPECT().Load(spec.ID()).Return(cached, nil)

	session := domain.NewSession()
	env, err := f.orch.Realize(context.Background(), session, spec, nil, orchestrator.RealizeOptions{})
	require.NoError(t, err)
	assert.Same(t, cached, env)
	assert.Equal(t, []domain.SessionState{domain.StateIdle, domain.StateBuilding, domain.StateBuilt}, session.History())
}

func TestRealize_BuildsInOrderAndCaches(t *testing.T) {
	f := newFixture(t)
	build := newFakeBuild("copying path 'a'", "building 'b.drv'", "done")
	build.finish()
	build.env = &domain.RealizedEnvironment{Variables: []string{"PATH=/nix/store/a/bin"}}

	f.expectBuild(build, ports.BuildOptions{Offline: true})
	f.cache.EXPECT().Store(gomock.Any()).DoAndReturn(func(env *domain.RealizedEnvironment) error {
		assert.Equal(t, spec.ID(), env.SpecID)
		return nil
	})

	sink := &recordingSink{}
	session := domain.NewSession()
	env, err := f.orch.Realize(context.Background(), session, spec, sink,
		orchestrator.RealizeOptions{Build: ports.BuildOptions{Offline: true}})
	require.NoError(t, err)

	assert.Equal(t, spec.ID(), env.SpecID)
	assert.Equal(t, []string{"copying path 'a'", "building 'b.drv'", "done"}, sink.lines)
	assert.Equal(t, domain.StateBuilt, session.State())
}

func TestRealize_RefreshSkipsCache(t *testing.T) {
	f := newFixture(t)
	build := newFakeBuild()
	build.finish()
	build.env = &domain.RealizedEnvironment{}

	f.builder.EXPECT().Stage(spec).Return(f.staged, nil)
	f.builder.EXPECT().Start(gomock.Any(), f.staged, ports.BuildOptions{}).Return(build, nil)
	f.staged.EXPECT().Release().Return(nil)
	f.cache.EXPECT().Store(gomock.Any()).Return(errors.New("disk full"))

	_, err := f.orch.Realize(context.Background(), domain.NewSession(), spec, nil, orchestrator.RealizeOptions{Refresh: true})
	require.NoError(t, err)
}

func TestRealize_BuildFailure(t *testing.T) {
	f := newFixture(t)
	build := newFakeBuild("error: attribute 'nope' missing")
	build.finish()
	build.err = &domain.BuildFailure{Tool: "nix", ExitCode: 1, Output: []string{"error: attribute 'nope' missing"}}
	f.expectBuild(build, ports.BuildOptions{})

	session := domain.NewSession()
	_, err := f.orch.Realize(context.Background(), session, spec, nil, orchestrator.RealizeOptions{})
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	var failure *domain.BuildFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "error: attribute 'nope' missing", failure.RawOutput())
	assert.Equal(t, domain.ExitBuildFailed, domain.ExitCode(err))
	assert.Equal(t, domain.StateBuildFailed, session.State())
}

func TestRealize_MissingBuildTool(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Load(spec.ID()).Return(nil, domain.ErrCacheMiss)
	f.builder.EXPECT().Stage(spec).Return(f.staged, nil)
	f.builder.EXPECT().Start(gomock.Any(), f.staged, ports.BuildOptions{}).Return(nil, domain.ErrBuildToolNotFound)
	f.staged.EXPECT().Release().Return(nil)

	session := domain.NewSession()
	_, err := f.orch.Realize(context.Background(), session, spec, nil, orchestrator.RealizeOptions{})
	require.ErrorIs(t, err, domain.ErrBuildToolNotFound)
	assert.Equal(t, domain.ExitBuildFailed, domain.ExitCode(err))
	assert.Equal(t, domain.StateBuildFailed, session.State())
}

func TestRealize_InterruptCancels(t *testing.T) {
	f := newFixture(t)
	build := newFakeBuild("fetching")
	f.expectBuild(build, ports.BuildOptions{})

	sink := &recordingSink{onLn: func(string) { f.signals.Raise(os.Interrupt) }}
	session := domain.NewSession()
	_, err := f.orch.Realize(context.Background(), session, spec, sink, orchestrator.RealizeOptions{})

	require.ErrorIs(t, err, domain.ErrBuildInterrupted)
	assert.Equal(t, domain.ExitInterrupted, domain.ExitCode(err))
	assert.True(t, build.terminated)
	assert.True(t, session.Cancelled())
	assert.Equal(t, domain.StateCancelled, session.State())
	assert.Equal(t, []string{"fetching"}, sink.lines)
}

func TestRealize_ContextCancels(t *testing.T) {
	f := newFixture(t)
	build := newFakeBuild()
	f.expectBuild(build, ports.BuildOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := domain.NewSession()
	_, err := f.orch.Realize(ctx, session, spec, nil, orchestrator.RealizeOptions{})
	require.ErrorIs(t, err, domain.ErrBuildInterrupted)
	assert.Equal(t, domain.StateCancelled, session.State())
}

func TestRealize_Ticks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.orch.WithTickInterval(time.Second)

		build := newFakeBuild()
		build.env = &domain.RealizedEnvironment{}
		f.expectBuild(build, ports.BuildOptions{})
		f.cache.EXPECT().Store(gomock.Any()).Return(nil)

		go func() {
			time.Sleep(2500 * time.Millisecond)
			build.finish()
		}()

		sink := &recordingSink{}
		_, err := f.orch.Realize(context.Background(), domain.NewSession(), spec, sink, orchestrator.RealizeOptions{})
		require.NoError(t, err)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sink.ticks)
	})
}

type fakeHosted struct {
	signals chan os.Signal
	status  domain.ExitStatus
	exitOn  os.Signal
}

func (p *fakeHosted) Pid() int { return 777 }

func (p *fakeHosted) Signal(sig os.Signal) error {
	p.signals <- sig
	return nil
}

func (p *fakeHosted) Wait() (domain.ExitStatus, error) {
	if p.exitOn == nil {
		return p.status, nil
	}
	for sig := range p.signals {
		if sig == p.exitOn {
			return p.status, nil
		}
	}
	return domain.ExitStatus{}, errors.New("closed")
}

func builtSession(t *testing.T) *domain.Session {
	t.Helper()
	s := domain.NewSession()
	require.NoError(t, s.Transition(domain.StateBuilding))
	require.NoError(t, s.Transition(domain.StateBuilt))
	return s
}

func TestHost_ExitCodePassthrough(t *testing.T) {
	f := newFixture(t)
	env := &domain.RealizedEnvironment{SpecID: "abc"}
	cmd := domain.Command{Args: []string{"cargo", "test"}, Dir: "/work"}
	f.host.EXPECT().Spawn(gomock.Any(), cmd, env).Return(&fakeHosted{status: domain.ExitStatus{Code: 7}}, nil)

	session := builtSession(t)
	status, err := f.orch.Host(context.Background(), session, env, cmd)

	assert.Equal(t, 7, status.Code)
	assert.Equal(t, 7, domain.ExitCode(err))
	assert.Equal(t, domain.StateExited, session.State())
	assert.Equal(t, 777, session.PID())
	assert.Equal(t, status, session.Exit())
}

func TestHost_SuccessIsNil(t *testing.T) {
	f := newFixture(t)
	f.host.EXPECT().Spawn(gomock.Any(), gomock.Any(), gomock.Any()).Return(&fakeHosted{}, nil)

	_, err := f.orch.Host(context.Background(), builtSession(t), &domain.RealizedEnvironment{}, domain.Command{})
	require.NoError(t, err)
}

func TestHost_ForwardsSignals(t *testing.T) {
	f := newFixture(t)
	proc := &fakeHosted{
		signals: make(chan os.Signal, 4),
		exitOn:  syscall.SIGTERM,
		status:  domain.ExitStatus{Code: 128 + int(syscall.SIGTERM), Signaled: true, Signal: syscall.SIGTERM},
	}
	f.host.EXPECT().Spawn(gomock.Any(), gomock.Any(), gomock.Any()).Return(proc, nil)

	f.signals.Raise(os.Interrupt)
	f.signals.Raise(syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := builtSession(t)
	status, err := f.orch.Host(ctx, session, &domain.RealizedEnvironment{}, domain.Command{})

	assert.True(t, status.Signaled)
	assert.Equal(t, 143, domain.ExitCode(err))
	assert.Equal(t, domain.StateKilled, session.State())
}

func TestHost_SpawnFailure(t *testing.T) {
	f := newFixture(t)
	f.host.EXPECT().Spawn(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrCommandNotFound)

	session := builtSession(t)
	_, err := f.orch.Host(context.Background(), session, &domain.RealizedEnvironment{}, domain.Command{Args: []string{"nope"}})

	require.ErrorIs(t, err, domain.ErrCommandNotFound)
	assert.Equal(t, domain.ExitCommandNotFound, domain.ExitCode(err))
	assert.Equal(t, domain.PhaseRun, domain.PhaseOf(err))
	assert.Equal(t, domain.StateBuilt, session.State())
}

func TestHost_RequiresBuiltSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.orch.Host(context.Background(), domain.NewSession(), &domain.RealizedEnvironment{}, domain.Command{})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}
