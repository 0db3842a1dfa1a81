package glob

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cinder/internal/core/ports"
)

// NodeID is the unique identifier for the globber Graft node.
const NodeID graft.ID = "adapter.glob"

func init() {
	graft.Register(graft.Node[ports.Globber]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Globber, error) {
			return New(), nil
		},
	})
}
