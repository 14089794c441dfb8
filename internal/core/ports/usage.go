package ports

import (
	"context"

	"go.trai.ch/sprout/internal/core/domain"
)

// UsageReporter sends anonymous usage events. Implementations never block the
// caller on the network and never surface failures.
//
//go:generate mockgen -source=usage.go -destination=mocks/mock_usage.go -package=mocks
type UsageReporter interface {
	Report(event domain.UsageEvent)
	// Close waits, bounded by ctx, for in-flight reports.
	Close(ctx context.Context)
}
