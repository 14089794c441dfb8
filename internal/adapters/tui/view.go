package tui

import (
	"fmt"
	"strings"
	"time"

	"go.trai.ch/sprout/internal/ui/style"
)

// View renders notices, the phase list and the output tail of the running phase.
func (m *Model) View() string {
	var s strings.Builder

	for _, n := range m.Notices {
		if n.Warn {
			s.WriteString(noticeWarnStyle.Render(style.Warning) + " " + n.Text + "\n")
			continue
		}
		s.WriteString(n.Text + "\n")
	}

	for _, row := range m.Phases {
		switch row.Status {
		case StatusRunning:
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				m.spinner.View(),
				phaseRunningStyle.Render(row.Name),
				faintStyle.Render(m.Elapsed.Round(time.Second).String()),
			))
			if m.Interrupted {
				s.WriteString(faintStyle.Render("  cancelling...") + "\n")
			}
			if tail := m.tail.View(); tail != "" {
				s.WriteString(tailStyle.Render(tail) + "\n")
			}
		case StatusDone:
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				phaseDoneStyle.Render(style.Check),
				row.Name,
				faintStyle.Render(row.EndTime.Sub(row.StartTime).Round(time.Millisecond).String()),
			))
		case StatusError:
			s.WriteString(fmt.Sprintf("%s %s %s\n",
				phaseErrorStyle.Render(style.Cross),
				row.Name,
				faintStyle.Render(row.EndTime.Sub(row.StartTime).Round(time.Millisecond).String()),
			))
		}
	}

	return s.String()
}
