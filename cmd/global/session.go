package global

import (
	"context"

	"github.com/markusressel/g2go/internal"
	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/ui"
)

// LoadConfig reads and validates the configuration file selected by the root command.
func LoadConfig() (configuration.Configuration, error) {
	configPath := configuration.DetectAndReadConfigFile()
	if configPath != "" {
		ui.Debug("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()
	if err := configuration.Validate(configPath); err != nil {
		return configuration.Configuration{}, err
	}
	return configuration.CurrentConfig, nil
}

// OpenSession probes the device and starts an engine for a single command.
// The caller must Close the returned daemon.
func OpenSession(ctx context.Context) (*internal.Daemon, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	gw, err := internal.NewGateway(config)
	if err != nil {
		return nil, err
	}
	return internal.InitializeObjects(ctx, config, gw)
}
