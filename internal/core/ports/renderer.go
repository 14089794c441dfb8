package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress output.
// It decouples phase events from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush.
	Stop() error

	// Wait blocks until the renderer has fully terminated and released the terminal.
	Wait() error

	// OnNotice shows a one-off message, such as a detection summary or a warning.
	OnNotice(msg string, warn bool)

	// OnPhaseStart is called when a phase span begins.
	OnPhaseStart(spanID, name string, startTime time.Time)

	// OnPhaseLog is called once per complete output line, in production order.
	OnPhaseLog(spanID, line string)

	// OnPhaseComplete is called when a phase span ends.
	OnPhaseComplete(spanID string, endTime time.Time, err error)

	// OnTick is called periodically while a long phase runs.
	OnTick(elapsed time.Duration)
}

// ProgressSink receives build progress from the orchestrator.
type ProgressSink interface {
	Line(line string)
	Tick(elapsed time.Duration)
}
