package tui

import "time"

// MsgNotice carries a one-off message shown above the phase list.
type MsgNotice struct {
	Text string
	Warn bool
}

// MsgPhaseStart is sent when a phase span begins.
type MsgPhaseStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgPhaseLog carries one line of phase output.
type MsgPhaseLog struct {
	SpanID string
	Line   string
}

// MsgPhaseComplete is sent when a phase span ends.
type MsgPhaseComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgTick reports the elapsed time of the running phase.
type MsgTick struct {
	Elapsed time.Duration
}
