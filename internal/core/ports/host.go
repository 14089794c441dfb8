package ports

import (
	"context"
	"os"

	"go.trai.ch/sprout/internal/core/domain"
)

//go:generate mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks

// ProcessHost starts the user's command inside a realized environment.
type ProcessHost interface {
	Spawn(ctx context.Context, cmd domain.Command, env *domain.RealizedEnvironment) (HostedProcess, error)
}

// HostedProcess is a running user command.
type HostedProcess interface {
	Pid() int
	Signal(sig os.Signal) error
	// Wait blocks until the process terminates. A non-zero exit is not an error.
	Wait() (domain.ExitStatus, error)
}

// SignalSource delivers OS signals to subscribers.
type SignalSource interface {
	// Subscribe starts delivery; the returned function stops it.
	Subscribe() (<-chan os.Signal, func())
	// Raise delivers sig to current subscribers as if the OS had sent it.
	Raise(sig os.Signal)
}
