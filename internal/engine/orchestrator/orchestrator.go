// Package orchestrator drives a session from environment build to the hosted
// process exit.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultTickInterval is how often build progress ticks are emitted.
const DefaultTickInterval = time.Second

// Orchestrator realizes environments and hosts commands inside them.
type Orchestrator struct {
	builder ports.EnvironmentBuilder
	cache   ports.EnvironmentCache
	host    ports.ProcessHost
	signals ports.SignalSource
	logger  ports.Logger

	tickInterval time.Duration
}

// New creates an Orchestrator. cache may be nil to disable caching.
func New(
	builder ports.EnvironmentBuilder,
	cache ports.EnvironmentCache,
	host ports.ProcessHost,
	signals ports.SignalSource,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		builder:      builder,
		cache:        cache,
		host:         host,
		signals:      signals,
		logger:       logger,
		tickInterval: DefaultTickInterval,
	}
}

// WithTickInterval sets the progress tick interval.
func (o *Orchestrator) WithTickInterval(d time.Duration) *Orchestrator {
	if d > 0 {
		o.tickInterval = d
	}
	return o
}

// RealizeOptions are per-invocation build settings.
type RealizeOptions struct {
	Build ports.BuildOptions
	// Refresh skips the environment cache lookup.
	Refresh bool
}

// Realize builds spec and moves the session from Idle to Built, BuildFailed
// or Cancelled. Build output is delivered to progress line by line, in order.
func (o *Orchestrator) Realize(
	ctx context.Context,
	session *domain.Session,
	spec domain.EnvironmentSpec,
	progress ports.ProgressSink,
	opts RealizeOptions,
) (*domain.RealizedEnvironment, error) {
	if progress == nil {
		progress = discard{}
	}
	if err := session.Transition(domain.StateBuilding); err != nil {
		return nil, err
	}

	if env := o.cached(spec, opts); env != nil {
		return env, session.Transition(domain.StateBuilt)
	}

	sigCh, stop := o.signals.Subscribe()
	defer stop()

	staged, err := o.builder.Stage(spec)
	if err != nil {
		return nil, o.fail(session, err)
	}
	defer func() {
		if err := staged.Release(); err != nil {
			o.logger.Debug(fmt.Sprintf("failed to remove %s: %v", staged.Path(), err))
		}
	}()

	proc, err := o.builder.Start(ctx, staged, opts.Build)
	if err != nil {
		return nil, o.fail(session, err)
	}
	o.logger.Debug(fmt.Sprintf("build tool started (pid %d) for %s", proc.Pid(), staged.Path()))

	o.drain(ctx, session, proc, sigCh, progress)

	env, err := proc.Wait()
	if session.Cancelled() {
		if terr := session.Transition(domain.StateCancelled); terr != nil {
			return nil, terr
		}
		return nil, domain.WithPhase(zerr.Wrap(domain.ErrBuildInterrupted, "build cancelled"), domain.PhaseBuild)
	}
	if err != nil {
		return nil, o.fail(session, err)
	}

	env.SpecID = spec.ID()
	if o.cache != nil {
		if err := o.cache.Store(env); err != nil {
			o.logger.Debug(fmt.Sprintf("failed to cache environment %s: %v", env.SpecID, err))
		}
	}
	return env, session.Transition(domain.StateBuilt)
}

// drain is the build's single coordination loop. It returns once the line
// stream is closed, so completion is never observed ahead of output.
func (o *Orchestrator) drain(
	ctx context.Context,
	session *domain.Session,
	proc ports.BuildProcess,
	sigCh <-chan os.Signal,
	progress ports.ProgressSink,
) {
	ticker := time.NewTicker(o.tickInterval)
	defer ticker.Stop()

	started := time.Now()
	done := ctx.Done()
	cancel := func(reason string) {
		if session.Cancelled() {
			return
		}
		session.Cancel()
		o.logger.Debug("cancelling build: " + reason)
		if err := proc.Terminate(); err != nil {
			o.logger.Debug(fmt.Sprintf("failed to terminate build tool: %v", err))
		}
	}

	lines := proc.Lines()
	for lines != nil {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			progress.Line(line)
		case <-ticker.C:
			progress.Tick(time.Since(started))
		case sig := <-sigCh:
			cancel("received " + sig.String())
		case <-done:
			done = nil
			cancel(ctx.Err().Error())
		}
	}
}

func (o *Orchestrator) cached(spec domain.EnvironmentSpec, opts RealizeOptions) *domain.RealizedEnvironment {
	if o.cache == nil || opts.Refresh {
		return nil
	}
	env, err := o.cache.Load(spec.ID())
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			o.logger.Debug(fmt.Sprintf("environment cache unavailable: %v", err))
		}
		return nil
	}
	o.logger.Debug("using cached environment " + spec.ID())
	return env
}

func (o *Orchestrator) fail(session *domain.Session, err error) error {
	if terr := session.Transition(domain.StateBuildFailed); terr != nil {
		return errors.Join(err, terr)
	}
	return domain.WithPhase(err, domain.PhaseBuild)
}

// Host runs cmd inside env and moves the session from Built to Exited or
// Killed. Forwarded signals received meanwhile are relayed to the hosted
// process; the orchestrator never terminates it. A non-zero exit is
// returned as a *domain.HostedExit.
func (o *Orchestrator) Host(
	ctx context.Context,
	session *domain.Session,
	env *domain.RealizedEnvironment,
	cmd domain.Command,
) (domain.ExitStatus, error) {
	if !session.State().CanTransition(domain.StateRunning) {
		return domain.ExitStatus{}, session.Transition(domain.StateRunning)
	}

	sigCh, stop := o.signals.Subscribe()
	defer stop()

	proc, err := o.host.Spawn(ctx, cmd, env)
	if err != nil {
		return domain.ExitStatus{}, domain.WithPhase(err, domain.PhaseRun)
	}
	if err := session.Transition(domain.StateRunning); err != nil {
		return domain.ExitStatus{}, err
	}
	session.SetPID(proc.Pid())

	type result struct {
		status domain.ExitStatus
		err    error
	}
	waitCh := make(chan result, 1)
	go func() {
		status, err := proc.Wait()
		waitCh <- result{status: status, err: err}
	}()

	for {
		select {
		case sig := <-sigCh:
			o.logger.Debug(fmt.Sprintf("forwarding %s to pid %d", sig, proc.Pid()))
			if err := proc.Signal(sig); err != nil {
				o.logger.Debug(fmt.Sprintf("failed to forward %s: %v", sig, err))
			}
		case res := <-waitCh:
			return o.finish(session, res.status, res.err)
		}
	}
}

func (o *Orchestrator) finish(session *domain.Session, status domain.ExitStatus, err error) (domain.ExitStatus, error) {
	if err != nil {
		status = domain.ExitStatus{Code: domain.ExitFailure}
	}
	session.SetExit(status)

	next := domain.StateExited
	if status.Signaled {
		next = domain.StateKilled
	}
	if terr := session.Transition(next); terr != nil {
		return status, terr
	}

	if err != nil {
		return status, domain.WithPhase(err, domain.PhaseRun)
	}
	if status.Code != 0 || status.Signaled {
		return status, &domain.HostedExit{Status: status}
	}
	return status, nil
}

type discard struct{}

func (discard) Line(string)        {}
func (discard) Tick(time.Duration) {}
