package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/sprout/internal/ui/style"
)

var (
	phaseRunningStyle = lipgloss.NewStyle().
				Foreground(style.Leaf).
				Bold(true)

	phaseDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	phaseErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	noticeWarnStyle = lipgloss.NewStyle().
			Foreground(style.Yellow)

	faintStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	tailStyle = lipgloss.NewStyle().
			Foreground(style.Slate)
)
