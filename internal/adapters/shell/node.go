package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sprout/internal/core/ports"
)

// NodeID is the unique identifier for the process host Graft node.
const NodeID graft.ID = "adapter.process_host"

func init() {
	graft.Register(graft.Node[ports.ProcessHost]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{},
		Run: func(_ context.Context) (ports.ProcessHost, error) {
			return NewHost(), nil
		},
	})
}
