package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/settings"
)

type Feature int

const (
	// FeatureKeyboard is set when the keyboard LED controller is present.
	FeatureKeyboard Feature = iota
	// FeaturePower is set when power modes and fans can be controlled.
	FeaturePower
	FeatureSpectrum
	FeatureRainbow
)

const (
	PermissionsConfigured    = "configured"
	PermissionsMissingPrefix = "missing:"
)

// CommandError is the failure of a single hardware command.
// Message is meant to be shown to the user as is.
type CommandError struct {
	Op      string
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func newCommandError(op string, format string, a ...interface{}) *CommandError {
	return &CommandError{Op: op, Message: fmt.Sprintf(format, a...)}
}

// wrapCommandError converts any error into a CommandError for op.
func wrapCommandError(op string, err error) error {
	if err == nil {
		return nil
	}
	var commandErr *CommandError
	if errors.As(err, &commandErr) {
		return commandErr
	}
	return &CommandError{Op: op, Message: err.Error()}
}

// SetupGateway covers device discovery and the one-time permission setup.
type SetupGateway interface {
	InitDevice(ctx context.Context) (device.Capabilities, error)
	// CheckUsbDevices returns the names of all connected compatible devices.
	CheckUsbDevices(ctx context.Context) ([]string, error)
	// CheckPermissions returns PermissionsConfigured or PermissionsMissingPrefix followed by the missing parts.
	CheckPermissions(ctx context.Context) (string, error)
	RunSetupScript(ctx context.Context) (string, error)
}

// LightingGateway drives the keyboard LEDs.
type LightingGateway interface {
	SetStaticColor(ctx context.Context, color settings.RGB) (string, error)
	SetMorph(ctx context.Context, color settings.RGB, durationMs uint16) (string, error)
	SetPulseEffect(ctx context.Context, color settings.RGB, durationMs uint16) (string, error)
	SetZoneColors(ctx context.Context, zones [settings.ZoneCount]settings.RGB) (string, error)
	TurnOffLeds(ctx context.Context) (string, error)
	// SetSpectrum is only available when Supports(FeatureSpectrum) is true.
	SetSpectrum(ctx context.Context, durationMs uint16) (string, error)
	// SetRainbow is only available when Supports(FeatureRainbow) is true.
	SetRainbow(ctx context.Context, durationMs uint16) (string, error)
}

// PowerGateway drives power modes, fans and turbo and reads telemetry.
type PowerGateway interface {
	SetPowerMode(ctx context.Context, mode settings.PowerMode) (string, error)
	// SetFanBoost sets both fan targets, given in percent.
	SetFanBoost(ctx context.Context, cpuPercent, gpuPercent uint8) (string, error)
	ToggleTurbo(ctx context.Context) (string, error)
	GetSensors(ctx context.Context) (device.SensorSnapshot, error)
}

// Gateway sends hardware commands and reports a human readable result or a CommandError.
type Gateway interface {
	SetupGateway
	LightingGateway
	PowerGateway

	Supports(feature Feature) bool
}

// ParsePermissions splits a CheckPermissions answer into the configured flag and the missing parts.
func ParsePermissions(answer string) (configured bool, missing []string, err error) {
	answer = strings.TrimSpace(answer)
	if answer == PermissionsConfigured {
		return true, nil, nil
	}
	if strings.HasPrefix(answer, PermissionsMissingPrefix) {
		detail := strings.TrimPrefix(answer, PermissionsMissingPrefix)
		for _, part := range strings.Split(detail, ",") {
			if part = strings.TrimSpace(part); part != "" {
				missing = append(missing, part)
			}
		}
		return false, missing, nil
	}
	return false, nil, fmt.Errorf("unexpected permission state: %q", answer)
}

// percentToBoost converts a fan target in percent into the 0-255 boost range.
func percentToBoost(percent uint8) uint8 {
	if percent >= 100 {
		return 0xff
	}
	return uint8(int(percent) * 255 / 100)
}
