package ports

import (
	"context"

	"go.trai.ch/sprout/internal/core/domain"
)

// SignalDetector scans a project directory for ecosystem markers.
//
//go:generate mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type SignalDetector interface {
	// Detect returns every matched ecosystem under root. Only an unreadable
	// root is an error; other I/O problems are reported as warnings.
	Detect(ctx context.Context, root string) (*domain.DetectionReport, error)
}
