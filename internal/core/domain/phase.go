package domain

import (
	"errors"
	"fmt"
)

// Phase names a stage of an invocation.
type Phase string

const (
	// PhaseDetect scans the project for ecosystem markers.
	PhaseDetect Phase = "detect"
	// PhaseResolve maps detections to build inputs.
	PhaseResolve Phase = "resolve"
	// PhaseSynthesize renders the environment expression.
	PhaseSynthesize Phase = "synthesize"
	// PhaseBuild realizes the environment with the build tool.
	PhaseBuild Phase = "build"
	// PhaseRun hosts the user's command.
	PhaseRun Phase = "run"
)

// PhaseError attaches the failing phase to an error.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err.Error())
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Message returns the phase label without the wrapped chain.
func (e *PhaseError) Message() string {
	return string(e.Phase) + " phase failed"
}

// WithPhase tags err with phase. It returns nil for a nil error and
// leaves errors that already carry a phase unchanged.
func WithPhase(err error, phase Phase) error {
	if err == nil {
		return nil
	}
	var pe *PhaseError
	if errors.As(err, &pe) {
		return err
	}
	return &PhaseError{Phase: phase, Err: err}
}

// PhaseOf returns the phase err was tagged with, or the empty phase.
func PhaseOf(err error) Phase {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}

// Warning is a non-fatal problem reported by a phase.
type Warning struct {
	Phase   Phase
	Subject string
	Message string
}

func (w Warning) String() string {
	if w.Subject == "" {
		return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Phase, w.Subject, w.Message)
}
