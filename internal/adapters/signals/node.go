package signals

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/core/ports"
)

// NodeID is the unique identifier for the signal source Graft node.
const NodeID graft.ID = "adapter.signals"

func init() {
	graft.Register(graft.Node[ports.SignalSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.SignalSource, error) {
			return NewSource(), nil
		},
	})
}
