package ports

import "go.trai.ch/cinder/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working
	// directory and returns the validated project config.
	Load(cwd string) (*domain.Config, error)
}
