package configuration

import (
	"errors"
	"fmt"
	"time"

	"github.com/markusressel/g2go/internal/util"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var supportedBackends = []string{BackendDell, BackendSimulated}

const maxKeyCode = 0x2ff

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	if len(config.DbPath) <= 0 {
		return errors.New("dbPath must not be empty")
	}

	if !slices.Contains(supportedBackends, config.Backend) {
		return errors.New(fmt.Sprintf("Unsupported backend '%s', use one of: %v", config.Backend, supportedBackends))
	}

	if config.SensorPollingRate < 100*time.Millisecond {
		return errors.New(fmt.Sprintf("sensorPollingRate must be at least 100ms, was %s", config.SensorPollingRate))
	}
	if config.ModeSwitchDelay < 0 {
		return errors.New("modeSwitchDelay must not be negative")
	}
	if config.CommandTimeout <= 0 {
		return errors.New("commandTimeout must be positive")
	}

	if err := validateKeyboard(&config.Keyboard); err != nil {
		return err
	}

	if config.Hotkey.Enabled && (config.Hotkey.KeyCode <= 0 || config.Hotkey.KeyCode > maxKeyCode) {
		return errors.New(fmt.Sprintf("hotkey.keyCode %d is not a valid evdev key code", config.Hotkey.KeyCode))
	}

	if err := validatePort("api", config.Api.Enabled, config.Api.Port); err != nil {
		return err
	}
	if err := validatePort("statistics", config.Statistics.Enabled, config.Statistics.Port); err != nil {
		return err
	}
	if err := validatePort("profiling", config.Profiling.Enabled, config.Profiling.Port); err != nil {
		return err
	}

	if len(config.Keyboard.Commands.All()) > 0 && len(path) > 0 {
		if _, err := util.CheckFilePermissionsForExecution(path); err != nil {
			return errors.New(fmt.Sprintf("Config file '%s' has invalid permissions: %s", path, err))
		}
	}

	return nil
}

func validateKeyboard(config *KeyboardConfig) error {
	if config.VendorId == 0 {
		return errors.New("keyboard.vendorId must not be 0")
	}
	if len(config.ProductIds) <= 0 {
		return errors.New("keyboard.productIds must contain at least one product id")
	}

	commands := config.Commands.All()
	names := maps.Keys(commands)
	slices.Sort(names)
	for _, name := range names {
		command := commands[name]
		if len(command.Exec) <= 0 {
			return errors.New(fmt.Sprintf("keyboard.commands.%s: exec must not be empty", name))
		}
	}

	return nil
}

func validatePort(name string, enabled bool, port int) error {
	if !enabled {
		return nil
	}
	if port <= 0 || port >= 65535 {
		return errors.New(fmt.Sprintf("%s.port %d is out of range", name, port))
	}
	return nil
}
