package ports

import (
	"context"

	"go.trai.ch/sprout/internal/core/domain"
)

//go:generate mockgen -source=builder.go -destination=mocks/mock_builder.go -package=mocks

// EnvironmentBuilder realizes environment expressions with the external build tool.
type EnvironmentBuilder interface {
	// Stage writes the expression where the build tool can read it.
	Stage(spec domain.EnvironmentSpec) (StagedSpec, error)
	// Start launches the build tool for a staged expression.
	Start(ctx context.Context, staged StagedSpec, opts BuildOptions) (BuildProcess, error)
}

// BuildOptions are per-invocation build tool flags.
type BuildOptions struct {
	Offline bool
}

// StagedSpec is a temporary copy of an expression. Release removes it and is idempotent.
type StagedSpec interface {
	Path() string
	Release() error
}

// BuildProcess is a running build.
type BuildProcess interface {
	// Lines yields the tool's diagnostic output in production order and is
	// closed when the stream ends.
	Lines() <-chan string
	// Wait blocks until the tool exits. Callers must drain Lines first.
	Wait() (*domain.RealizedEnvironment, error)
	// Terminate stops the tool and every process it started.
	Terminate() error
	// Pid returns the tool's process id.
	Pid() int
}

// EnvironmentCache stores realized environments by spec ID.
type EnvironmentCache interface {
	// Load returns domain.ErrCacheMiss when nothing usable is cached.
	Load(specID string) (*domain.RealizedEnvironment, error)
	Store(env *domain.RealizedEnvironment) error
	Clear() error
}
