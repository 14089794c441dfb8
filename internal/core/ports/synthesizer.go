package ports

import "go.trai.ch/sprout/internal/core/domain"

// Synthesizer renders a resolved environment as an environment expression.
//
//go:generate mockgen -source=synthesizer.go -destination=mocks/mock_synthesizer.go -package=mocks
type Synthesizer interface {
	Synthesize(env *domain.ResolvedEnvironment) (domain.EnvironmentSpec, error)
}
