package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/sprout/internal/adapters/detector"
	"go.trai.ch/sprout/internal/adapters/linear"
	"go.trai.ch/sprout/internal/adapters/telemetry"
	"go.trai.ch/sprout/internal/adapters/tui"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/sprout/internal/core/ports"
	"go.trai.ch/sprout/internal/engine/orchestrator"
	"golang.org/x/sync/errgroup"
)

// realize builds the planned environment while the progress renderer runs.
// The renderer has released the terminal by the time it returns.
func (a *App) realize(
	ctx context.Context,
	session *domain.Session,
	p *plan,
	opts Options,
) (*domain.RealizedEnvironment, error) {
	mode := detector.ResolveMode(a.environment().Mode(), a.outputMode(opts))
	renderer := a.newRenderer(mode)

	tracer := telemetry.NewOTelTracer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	var (
		env      *domain.RealizedEnvironment
		buildErr error
	)

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

		announce(renderer, p)

		spanCtx, span := tracer.Start(ctx, string(domain.PhaseBuild),
			ports.WithAttribute("spec.id", p.spec.ID()),
			ports.WithAttribute("system", p.spec.System),
		)
		env, buildErr = a.orchestrator.Realize(spanCtx, session, p.spec, &progress{span: span, renderer: renderer},
			orchestrator.RealizeOptions{
				Build:   ports.BuildOptions{Offline: a.offline(opts)},
				Refresh: opts.Refresh,
			})
		if buildErr != nil {
			span.RecordError(buildErr)
		}
		span.End()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The TUI only kept a short tail of the build output.
	var failure *domain.BuildFailure
	if mode == detector.ModeTUI && errors.As(buildErr, &failure) && len(failure.Output) > 0 {
		_, _ = fmt.Fprintln(a.stderr, failure.RawOutput())
	}
	return env, buildErr
}

func (a *App) newRenderer(mode detector.OutputMode) ports.Renderer {
	if mode == detector.ModeTUI {
		model := tui.NewModel(func() { a.signals.Raise(os.Interrupt) })
		if a.disableTick {
			model = model.WithDisableTick()
		}
		return tui.NewRenderer(model, a.teaOptions...)
	}
	return linear.NewRenderer(a.stderr)
}

// announce shows the detection summary before the build starts.
func announce(renderer ports.Renderer, p *plan) {
	if len(p.report.Detections) == 0 {
		renderer.OnNotice("no project toolchains detected, using a minimal environment", true)
	}
	for _, d := range p.report.Detections {
		renderer.OnNotice(summary(d), false)
	}
	for _, w := range p.resolved.Warnings {
		renderer.OnNotice(w.String(), true)
	}
}

// progress feeds build output into the phase span and ticks to the renderer.
type progress struct {
	span     ports.Span
	renderer ports.Renderer
}

func (p *progress) Line(line string) {
	_, _ = fmt.Fprintln(p.span, line)
}

func (p *progress) Tick(elapsed time.Duration) {
	p.renderer.OnTick(elapsed)
}
