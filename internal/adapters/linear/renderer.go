// Package linear provides a synchronous, line-oriented renderer for CI environments.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/sprout/internal/ui/output"
	"go.trai.ch/sprout/internal/ui/style"
)

// HeartbeatInterval is how often a still-running phase is reported.
const HeartbeatInterval = 30 * time.Second

// Renderer implements ports.Renderer for CI/non-interactive environments.
// It prints chronological, phase-prefixed lines to a single stream so they
// never interleave with the hosted command's stdout.
type Renderer struct {
	w      io.Writer
	output *termenv.Output

	mu        sync.Mutex
	phases    map[string]*phaseState // spanID -> phase
	current   string
	heartbeat time.Duration
}

type phaseState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to w, or stderr when w is nil.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	return &Renderer{
		w:      w,
		output: output.NewWithProfile(w, output.ColorProfileANSI),
		phases: make(map[string]*phaseState),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop is a no-op; every line is written as soon as it arrives.
func (r *Renderer) Stop() error {
	return nil
}

// Wait is a no-op for the linear renderer.
func (r *Renderer) Wait() error {
	return nil
}

// OnNotice prints a one-off message.
func (r *Renderer) OnNotice(msg string, warn bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if warn {
		_, _ = fmt.Fprintf(r.w, "%s %s\n", output.Paint(r.output, style.Warning, style.Yellow), msg)
		return
	}
	_, _ = fmt.Fprintln(r.w, msg)
}

// OnPhaseStart prints a phase start message.
func (r *Renderer) OnPhaseStart(spanID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.phases[spanID] = &phaseState{name: name, startTime: startTime}
	r.current = spanID
	r.heartbeat = 0

	_, _ = fmt.Fprintf(r.w, "%s Starting...\n", r.prefixLocked(name))
}

// OnPhaseLog prints one line of phase output.
func (r *Renderer) OnPhaseLog(spanID, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[spanID]
	if !ok {
		return
	}
	_, _ = fmt.Fprintf(r.w, "%s %s\n", r.prefixLocked(phase.name), line)
}

// OnPhaseComplete prints the phase result and its duration.
func (r *Renderer) OnPhaseComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[spanID]
	if !ok {
		return
	}
	delete(r.phases, spanID)
	if r.current == spanID {
		r.current = ""
	}

	duration := endTime.Sub(phase.startTime).Round(time.Millisecond)
	prefix := r.prefixLocked(phase.name)
	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.w, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.w, "%s %s Completed in %v\n", prefix, symbol, duration)
}

// OnTick prints a heartbeat for the running phase every HeartbeatInterval.
func (r *Renderer) OnTick(elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[r.current]
	if !ok || elapsed < r.heartbeat+HeartbeatInterval {
		return
	}
	r.heartbeat = elapsed.Truncate(HeartbeatInterval)
	_, _ = fmt.Fprintf(r.w, "%s still running (%v)\n", r.prefixLocked(phase.name), r.heartbeat)
}

// prefixLocked must be called with r.mu held.
func (r *Renderer) prefixLocked(name string) string {
	return r.output.String(fmt.Sprintf("[%s]", name)).Faint().String()
}
