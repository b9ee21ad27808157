package engine

import (
	"context"

	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/ui"
)

// Restore sends the persisted configuration to the device again, e.g. after a reboot.
// The power mode is skipped while turbo is active, selecting it would end turbo.
func (e *Engine) Restore(ctx context.Context) {
	caps := e.Capabilities()
	config := e.Snapshot()

	if caps.PowerSupported {
		switch {
		case e.TurboActive():
			ui.Info("Turbo mode is active, not restoring power mode %s", config.PowerMode)
		case config.PowerMode == settings.PowerModeManual && !caps.FanControlLimited:
			if _, err := e.ApplyPowerMode(ctx, settings.PowerModeManual); err == nil && sleep(ctx, e.modeSwitchDelay) == nil {
				_, _ = e.ApplyManualFanSpeeds(ctx, config.CpuFanTarget, config.GpuFanTarget)
			}
		default:
			if _, err := e.ApplyPowerMode(ctx, config.PowerMode); err == nil && config.SelectedFanPreset.IsSet() {
				_, _ = e.ApplyFanPreset(ctx, config.SelectedFanPreset)
			}
		}
	}

	if caps.KeyboardSupported {
		_, _ = e.ApplyLighting(ctx, config.Lighting.Changes()...)
	}
}
