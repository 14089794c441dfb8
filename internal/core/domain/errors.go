package domain

import "go.trai.ch/zerr"

var (
	// ErrProjectUnreadable is returned when the project root is missing, not a directory, or unreadable.
	ErrProjectUnreadable = zerr.New("project directory is not readable")

	// ErrNoDetectionReport is returned when the resolver is invoked without a detection report.
	ErrNoDetectionReport = zerr.New("no detection report")

	// ErrInvalidBuildInput is returned when a build input reference cannot be parsed.
	ErrInvalidBuildInput = zerr.New("invalid build input")

	// ErrInvalidRuleTable is returned when the rule table fails validation.
	ErrInvalidRuleTable = zerr.New("invalid rule table")

	// ErrUnknownPlatform is returned when a platform string cannot be parsed.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrUnencodableInput is returned when a value cannot be represented in the environment expression.
	ErrUnencodableInput = zerr.New("input cannot be encoded")

	// ErrInvalidVariable is returned when an environment variable name is not usable.
	ErrInvalidVariable = zerr.New("invalid environment variable")

	// ErrBuildFailed is returned when the build tool exits with a non-zero status.
	ErrBuildFailed = zerr.New("environment build failed")

	// ErrBuildToolNotFound is returned when the build tool is not installed.
	ErrBuildToolNotFound = zerr.New("build tool not found")

	// ErrBuildInterrupted is returned when the build is cancelled by a signal.
	ErrBuildInterrupted = zerr.New("environment build interrupted")

	// ErrInvalidBuildOutput is returned when the build tool output cannot be parsed.
	ErrInvalidBuildOutput = zerr.New("invalid build tool output")

	// ErrCacheMiss is returned when a realized environment is not in the cache.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrCommandNotFound is returned when the hosted command cannot be found in the realized environment.
	ErrCommandNotFound = zerr.New("command not found")

	// ErrCommandNotExecutable is returned when the hosted command exists but cannot be executed.
	ErrCommandNotExecutable = zerr.New("command is not executable")

	// ErrSpawnFailed is returned when the hosted process could not be started.
	ErrSpawnFailed = zerr.New("failed to start command")

	// ErrInvalidTransition is returned when a session is moved to a state it cannot reach.
	ErrInvalidTransition = zerr.New("invalid session state transition")

	// ErrNoCommand is returned when run is invoked without a command.
	ErrNoCommand = zerr.New("no command specified")

	// ErrAborted is returned when the user declines to continue.
	ErrAborted = zerr.New("aborted")
)
