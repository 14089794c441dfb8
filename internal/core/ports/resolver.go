package ports

import "go.trai.ch/sprout/internal/core/domain"

// InputResolver maps detections to the build inputs for a platform.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	Resolve(report *domain.DetectionReport, platform domain.Platform) (*domain.ResolvedEnvironment, error)
}
