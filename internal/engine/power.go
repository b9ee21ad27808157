package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/markusressel/g2go/internal/events"
	"github.com/markusressel/g2go/internal/settings"
)

// ApplyPowerMode selects mode. The configuration only changes once the device accepted the mode.
func (e *Engine) ApplyPowerMode(ctx context.Context, mode settings.PowerMode) (Result, error) {
	e.power.Lock()
	defer e.power.Unlock()
	return e.applyPowerMode(ctx, mode)
}

// applyPowerMode must be called while holding power.
func (e *Engine) applyPowerMode(ctx context.Context, mode settings.PowerMode) (Result, error) {
	caps := e.Capabilities()
	if !caps.PowerSupported {
		return e.reject(ErrPowerNotSupported, "Power mode %s failed: %v", mode, ErrPowerNotSupported)
	}
	if !mode.Valid() || !caps.SupportsPowerMode(mode) {
		return e.reject(ErrPowerModeNotSupported, "Power mode %s is not available on %s", mode, caps.Model)
	}

	message, err := e.gateway.SetPowerMode(ctx, mode)
	if err != nil {
		return e.reject(err, "Power mode %s failed: %v", mode, err)
	}

	changes := []settings.Change{
		settings.Set(settings.KeyPowerMode, mode),
		settings.Set(settings.KeyTurboActive, false),
	}
	if mode != settings.PowerModeManual {
		changes = append(changes, settings.Set(settings.KeySelectedFanPreset, settings.FanPresetNone))
	}

	e.mu.Lock()
	err = e.commit(changes...)
	e.mu.Unlock()
	if err != nil {
		return e.reject(err, "Power mode %s was applied but could not be stored: %v", mode, err)
	}
	return e.result(e.board.Success("%s", message)), nil
}

// ApplyFanPreset writes the preset and its targets before the device confirms them.
// A failed command does not roll them back.
func (e *Engine) ApplyFanPreset(ctx context.Context, preset settings.FanPreset) (Result, error) {
	if !preset.IsSet() {
		return e.reject(ErrInvalidFanPreset, "Fan preset failed: %v", ErrInvalidFanPreset)
	}

	e.power.Lock()
	defer e.power.Unlock()

	if !e.Capabilities().PowerSupported {
		return e.reject(ErrPowerNotSupported, "Fan preset %s failed: %v", preset, ErrPowerNotSupported)
	}

	speeds := preset.Speeds()
	e.mu.Lock()
	err := e.commit(
		settings.Set(settings.KeySelectedFanPreset, preset),
		settings.Set(settings.KeyCpuFanTarget, speeds.Cpu),
		settings.Set(settings.KeyGpuFanTarget, speeds.Gpu),
	)
	e.mu.Unlock()
	if err != nil {
		return e.reject(err, "Fan preset %s failed: %v", preset, err)
	}

	message, err := e.gateway.SetFanBoost(ctx, speeds.Cpu, speeds.Gpu)
	if err != nil {
		return e.reject(err, "Fan preset %s could not be applied: %v", preset, err)
	}
	return e.result(e.board.Success("Fan preset %s: %s", preset, message)), nil
}

// ApplyManualFanSpeeds switches to the manual power mode first if necessary.
// The mode switch is awaited before the fan targets are sent.
func (e *Engine) ApplyManualFanSpeeds(ctx context.Context, cpuPercent, gpuPercent uint8) (Result, error) {
	if cpuPercent > 100 || gpuPercent > 100 {
		return e.reject(ErrInvalidFanSpeed, "Fan speeds failed: %v", ErrInvalidFanSpeed)
	}

	e.power.Lock()
	defer e.power.Unlock()

	caps := e.Capabilities()
	if !caps.PowerSupported {
		return e.reject(ErrPowerNotSupported, "Fan speeds failed: %v", ErrPowerNotSupported)
	}
	if caps.FanControlLimited {
		return e.reject(ErrFanControlLimited, "Manual fan control is not supported on %s, use a fan preset instead", caps.Model)
	}

	if e.Snapshot().PowerMode != settings.PowerModeManual {
		if result, err := e.applyPowerMode(ctx, settings.PowerModeManual); err != nil {
			return result, err
		}
		if err := sleep(ctx, e.modeSwitchDelay); err != nil {
			return e.reject(err, "Fan speeds failed: %v", err)
		}
	}

	message, err := e.gateway.SetFanBoost(ctx, cpuPercent, gpuPercent)
	if err != nil {
		return e.reject(err, "Fan speeds failed: %v", err)
	}

	e.mu.Lock()
	err = e.commit(
		settings.Set(settings.KeyCpuFanTarget, cpuPercent),
		settings.Set(settings.KeyGpuFanTarget, gpuPercent),
	)
	e.mu.Unlock()
	if err != nil {
		return e.reject(err, "Fan speeds were applied but could not be stored: %v", err)
	}
	return e.result(e.board.Success("%s", message)), nil
}

// ToggleTurbo flips the turbo state. The flip is kept even if the device rejected it.
func (e *Engine) ToggleTurbo(ctx context.Context) (Result, error) {
	e.power.Lock()
	defer e.power.Unlock()

	if !e.Capabilities().PowerSupported {
		return e.reject(ErrPowerNotSupported, "Turbo mode failed: %v", ErrPowerNotSupported)
	}

	message, gatewayErr := e.gateway.ToggleTurbo(ctx)

	active := e.flipTurbo()

	if gatewayErr != nil {
		return e.reject(gatewayErr, "Turbo mode failed: %v", gatewayErr)
	}
	if active {
		e.notify("Turbo mode enabled")
	} else {
		e.notify("Turbo mode disabled")
	}
	return e.result(e.board.Success("%s", message)), nil
}

// onTurboToggledExternally follows a turbo toggle that happened outside of g2go, e.g. the hotkey.
func (e *Engine) onTurboToggledExternally(event events.Event) {
	active := e.flipTurbo()
	e.board.Info("Turbo mode %s by %s", onOff(active), event.Origin)
}

// flipTurbo inverts the live turbo state and returns the new value.
func (e *Engine) flipTurbo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	active := !e.turbo.Load()
	if err := e.commit(settings.Set(settings.KeyTurboActive, active)); err != nil {
		e.turbo.Store(active)
	}
	return active
}

func onOff(active bool) string {
	if active {
		return "enabled"
	}
	return "disabled"
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
