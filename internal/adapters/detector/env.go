package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for progress output.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Environment is the terminal and CI state of the invocation, read once.
type Environment struct {
	StdoutTTY bool
	StdinTTY  bool
	CI        bool
}

// Interactive reports whether the user can be prompted.
func (e Environment) Interactive() bool {
	return e.StdinTTY && e.StdoutTTY && !e.CI
}

// Mode returns the recommended output mode.
func (e Environment) Mode() OutputMode {
	if !e.StdoutTTY || e.CI {
		return ModeLinear
	}
	return ModeTUI
}

// ReadEnvironment inspects the process's standard streams and CI variables.
func ReadEnvironment() Environment {
	return Environment{
		StdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
		StdinTTY:  term.IsTerminal(int(os.Stdin.Fd())),
		CI:        IsCI(),
	}
}

// IsCI reports whether CI=true or CI=1 is set.
func IsCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	return ReadEnvironment().Mode()
}

// ResolveMode applies user override flag to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
