// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/cinder/internal/adapters/config"
	_ "go.trai.ch/cinder/internal/adapters/glob"
	_ "go.trai.ch/cinder/internal/adapters/logger"
	_ "go.trai.ch/cinder/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/cinder/internal/app"
)
