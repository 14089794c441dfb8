// Package tui provides the interactive progress display for environment builds.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PhaseStatus represents the current state of a phase.
type PhaseStatus string

const (
	// StatusRunning indicates the phase is in progress.
	StatusRunning PhaseStatus = "Running"
	// StatusDone indicates the phase completed successfully.
	StatusDone PhaseStatus = "Done"
	// StatusError indicates the phase failed.
	StatusError PhaseStatus = "Error"
)

// PhaseRow is a single phase in the progress list.
type PhaseRow struct {
	SpanID    string
	Name      string
	Status    PhaseStatus
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// Model represents the TUI state.
type Model struct {
	Phases      []*PhaseRow
	Notices     []MsgNotice
	Elapsed     time.Duration
	Interrupted bool

	spinner     spinner.Model
	tail        *Vterm
	interrupt   func()
	disableTick bool
}

// NewModel creates a model. interrupt is called once when the user presses
// ctrl+c, since the terminal is in raw mode and no SIGINT is generated.
func NewModel(interrupt func()) *Model {
	return &Model{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(phaseRunningStyle),
		),
		tail:      NewVterm(DefaultTailHeight),
		interrupt: interrupt,
	}
}

// WithDisableTick disables the spinner animation.
// This is primarily used for testing to keep the event loop idle.
func (m *Model) WithDisableTick() *Model {
	m.disableTick = true
	return m
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	if m.disableTick {
		return nil
	}
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.Interrupted {
			m.Interrupted = true
			if m.interrupt != nil {
				m.interrupt()
			}
		}

	case tea.WindowSizeMsg:
		m.tail.SetWidth(msg.Width)

	case spinner.TickMsg:
		if m.disableTick {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgNotice:
		m.Notices = append(m.Notices, msg)

	case MsgPhaseStart:
		m.Phases = append(m.Phases, &PhaseRow{
			SpanID:    msg.SpanID,
			Name:      msg.Name,
			Status:    StatusRunning,
			StartTime: msg.StartTime,
		})
		m.Elapsed = 0
		m.tail.Reset()

	case MsgPhaseLog:
		if row := m.phase(msg.SpanID); row != nil && row.Status == StatusRunning {
			m.tail.WriteLine(msg.Line)
		}

	case MsgPhaseComplete:
		if row := m.phase(msg.SpanID); row != nil {
			row.EndTime = msg.EndTime
			row.Err = msg.Err
			row.Status = StatusDone
			if msg.Err != nil {
				row.Status = StatusError
			}
			m.tail.Reset()
		}

	case MsgTick:
		m.Elapsed = msg.Elapsed
	}

	return m, nil
}

func (m *Model) phase(spanID string) *PhaseRow {
	for _, row := range m.Phases {
		if row.SpanID == spanID {
			return row
		}
	}
	return nil
}
