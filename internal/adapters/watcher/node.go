package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/cinder/internal/core/ports"
)

const (
	// SourceNodeID is the Graft node for the source tree watcher.
	SourceNodeID graft.ID = "adapter.watcher.source"
	// OutputNodeID is the Graft node for the output directory watcher.
	// A separate instance so source and output event streams stay apart.
	OutputNodeID graft.ID = "adapter.watcher.output"
)

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        SourceNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Watcher, error) {
			return NewWatcher()
		},
	})
}

func init() {
	graft.Register(graft.Node[*Watcher]{
		ID:        OutputNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Watcher, error) {
			return NewWatcher()
		},
	})
}
