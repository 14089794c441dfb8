package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a TUI renderer drawing on stderr. Signal handling is
// left to the caller so the build orchestrator sees every interrupt.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	opts = append([]tea.ProgramOption{tea.WithOutput(os.Stderr), tea.WithoutSignalHandler()}, opts...)
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated and restored the terminal.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnNotice forwards a notice to the TUI.
func (r *Renderer) OnNotice(msg string, warn bool) {
	r.program.Send(MsgNotice{Text: msg, Warn: warn})
}

// OnPhaseStart forwards phase start events to the TUI.
func (r *Renderer) OnPhaseStart(spanID, name string, startTime time.Time) {
	r.program.Send(MsgPhaseStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnPhaseLog forwards a phase output line to the TUI.
func (r *Renderer) OnPhaseLog(spanID, line string) {
	r.program.Send(MsgPhaseLog{SpanID: spanID, Line: line})
}

// OnPhaseComplete forwards phase completion events to the TUI.
func (r *Renderer) OnPhaseComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgPhaseComplete{SpanID: spanID, EndTime: endTime, Err: err})
}

// OnTick forwards the running phase's elapsed time to the TUI.
func (r *Renderer) OnTick(elapsed time.Duration) {
	r.program.Send(MsgTick{Elapsed: elapsed})
}

// Model returns the underlying model for testing.
func (r *Renderer) Model() *Model {
	return r.model
}
