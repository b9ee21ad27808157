package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/settings"
	"golang.org/x/exp/slices"
)

// ErrEffectNotSupported is returned when an effect fell back to turning the LEDs off.
var ErrEffectNotSupported = errors.New("lighting effect is not supported by this keyboard")

var lightingKeys = []string{
	settings.KeyLightingMode,
	settings.KeyRed,
	settings.KeyGreen,
	settings.KeyBlue,
	settings.KeyDurationMs,
	settings.KeyZoneColors,
}

func checkLightingKeys(changes []settings.Change) error {
	for _, change := range changes {
		if !slices.Contains(lightingKeys, change.Key) {
			return fmt.Errorf("%w: %s is not a lighting setting", settings.ErrUnknownKey, change.Key)
		}
	}
	return nil
}

// ApplyLighting merges changes into the current lighting, sends the effect selected by
// the resulting mode to the keyboard and stores all lighting parameters once the keyboard
// accepted it. Keys that are not changed keep their value. Spectrum and Rainbow fall back
// to turning the LEDs off when the keyboard has no command for them.
func (e *Engine) ApplyLighting(ctx context.Context, changes ...settings.Change) (Result, error) {
	e.lighting.Lock()
	defer e.lighting.Unlock()

	if !e.Capabilities().KeyboardSupported {
		return e.reject(ErrKeyboardNotSupported, "Lighting failed: %v", ErrKeyboardNotSupported)
	}
	if err := checkLightingKeys(changes); err != nil {
		return e.reject(err, "Lighting failed: %v", err)
	}

	updated, err := e.Snapshot().Apply(changes...)
	if err != nil {
		return e.reject(err, "Lighting failed: %v", err)
	}
	lighting := updated.Lighting

	message, fallback, err := e.dispatchLighting(ctx, lighting)
	if err != nil {
		return e.reject(err, "Lighting %s failed: %v", lighting.Mode, err)
	}

	e.mu.Lock()
	err = e.commit(lighting.Changes()...)
	e.mu.Unlock()
	if err != nil {
		return e.reject(err, "Lighting was applied but could not be stored: %v", err)
	}

	if fallback {
		return e.reject(ErrEffectNotSupported,
			"%s is not supported by this keyboard, the LEDs were turned off instead", lighting.Mode)
	}
	return e.result(e.board.Success("%s", message)), nil
}

func (e *Engine) dispatchLighting(ctx context.Context, lighting settings.Lighting) (message string, fallback bool, err error) {
	color := lighting.Color()
	duration := lighting.DurationMs

	switch lighting.Mode {
	case settings.LightingStatic:
		message, err = e.gateway.SetStaticColor(ctx, color)
	case settings.LightingMorph:
		message, err = e.gateway.SetMorph(ctx, color, duration)
	case settings.LightingBreathing:
		message, err = e.gateway.SetPulseEffect(ctx, color, duration)
	case settings.LightingZone:
		message, err = e.gateway.SetZoneColors(ctx, lighting.ZoneColors)
	case settings.LightingOff:
		message, err = e.gateway.TurnOffLeds(ctx)
	case settings.LightingSpectrum:
		if e.gateway.Supports(gateway.FeatureSpectrum) {
			message, err = e.gateway.SetSpectrum(ctx, duration)
		} else {
			fallback = true
		}
	case settings.LightingRainbow:
		if e.gateway.Supports(gateway.FeatureRainbow) {
			message, err = e.gateway.SetRainbow(ctx, duration)
		} else {
			fallback = true
		}
	default:
		fallback = true
	}

	if fallback {
		message, err = e.gateway.TurnOffLeds(ctx)
	}
	return message, fallback, err
}

// UpdateLighting stores lighting parameters without sending them to the keyboard.
func (e *Engine) UpdateLighting(changes ...settings.Change) (settings.Configuration, error) {
	if err := checkLightingKeys(changes); err != nil {
		return e.Snapshot(), err
	}

	e.lighting.Lock()
	defer e.lighting.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.commit(changes...); err != nil {
		return e.snapshotLocked(), err
	}
	return e.snapshotLocked(), nil
}
