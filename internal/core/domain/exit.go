package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Reserved exit codes. Any other code is the hosted process's own.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitEnvironmentFailed = 70
	ExitBuildFailed       = 71
	ExitNotExecutable     = 126
	ExitCommandNotFound   = 127
	ExitInterrupted       = 130
)

// BuildFailure carries the build tool's exit code and its raw output.
type BuildFailure struct {
	Tool     string
	ExitCode int
	Output   []string
}

func (e *BuildFailure) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
}

// Message returns the failure summary without the underlying chain.
func (e *BuildFailure) Message() string {
	return e.Error()
}

func (e *BuildFailure) Unwrap() error {
	return ErrBuildFailed
}

// RawOutput returns the build tool's diagnostics joined by newlines.
func (e *BuildFailure) RawOutput() string {
	return strings.Join(e.Output, "\n")
}

// HostedExit reports a hosted process that did not exit with status zero.
type HostedExit struct {
	Status ExitStatus
}

func (e *HostedExit) Error() string {
	if e.Status.Signaled {
		return fmt.Sprintf("command terminated by signal %s", e.Status.Signal)
	}
	return fmt.Sprintf("command exited with status %d", e.Status.Code)
}

// ExitCode maps an invocation error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var hosted *HostedExit
	if errors.As(err, &hosted) {
		return hosted.Status.Code
	}

	switch {
	case errors.Is(err, ErrBuildInterrupted):
		return ExitInterrupted
	case errors.Is(err, ErrCommandNotFound):
		return ExitCommandNotFound
	case errors.Is(err, ErrCommandNotExecutable):
		return ExitNotExecutable
	case errors.Is(err, ErrBuildFailed), errors.Is(err, ErrBuildToolNotFound):
		return ExitBuildFailed
	}

	switch PhaseOf(err) {
	case PhaseDetect, PhaseResolve, PhaseSynthesize:
		return ExitEnvironmentFailed
	case PhaseBuild:
		return ExitBuildFailed
	case PhaseRun:
		return ExitNotExecutable
	}

	return ExitFailure
}
