package ports

import "go.trai.ch/cinder/internal/core/domain"

// Reloader defines the interface for pushing change notifications to a
// live client. Delivery, connection management and retry are the
// transport's concern; the core's contract ends at Emit.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	// Emit pushes a notification of the given kind for the given output path.
	Emit(kind domain.ReloadKind, path string)
}
