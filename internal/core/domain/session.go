package domain

import (
	"fmt"
	"slices"
	"sync"
	"syscall"

	"go.trai.ch/zerr"
)

// SessionState is a state of the build/session state machine.
type SessionState int

const (
	StateIdle SessionState = iota
	StateBuilding
	StateBuilt
	StateBuildFailed
	StateCancelled
	StateRunning
	StateExited
	StateKilled
)

var stateNames = map[SessionState]string{
	StateIdle:        "idle",
	StateBuilding:    "building",
	StateBuilt:       "built",
	StateBuildFailed: "build-failed",
	StateCancelled:   "cancelled",
	StateRunning:     "running",
	StateExited:      "exited",
	StateKilled:      "killed",
}

func (s SessionState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var transitions = map[SessionState][]SessionState{
	StateIdle:     {StateBuilding},
	StateBuilding: {StateBuilt, StateBuildFailed, StateCancelled},
	StateBuilt:    {StateRunning},
	StateRunning:  {StateExited, StateKilled},
}

// CanTransition reports whether to is reachable from s in one step.
func (s SessionState) CanTransition(to SessionState) bool {
	return slices.Contains(transitions[s], to)
}

// Terminal reports whether no further transitions are possible.
func (s SessionState) Terminal() bool {
	return len(transitions[s]) == 0
}

// ExitStatus is how a hosted process terminated.
type ExitStatus struct {
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

// Session is the runtime record of one invocation's build and hosted process.
type Session struct {
	mu        sync.Mutex
	state     SessionState
	pid       int
	exit      ExitStatus
	cancelled bool
	history   []SessionState
}

// NewSession returns a session in the idle state.
func NewSession() *Session {
	return &Session{state: StateIdle, history: []SessionState{StateIdle}}
}

// State returns the current state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns every state the session has been in, in order.
func (s *Session) History() []SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Transition moves the session to the given state.
func (s *Session) Transition(to SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanTransition(to) {
		err := zerr.With(zerr.Wrap(ErrInvalidTransition, "session"), "from", s.state.String())
		return zerr.With(err, "to", to.String())
	}
	s.state = to
	s.history = append(s.history, to)
	return nil
}

// Cancel sets the cancellation flag.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

// Cancelled reports whether the session was cancelled.
func (s *Session) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// SetPID records the hosted process id.
func (s *Session) SetPID(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pid = pid
}

// PID returns the hosted process id, or 0.
func (s *Session) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

// SetExit records the hosted process exit status.
func (s *Session) SetExit(status ExitStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exit = status
}

// Exit returns the recorded exit status.
func (s *Session) Exit() ExitStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exit
}
