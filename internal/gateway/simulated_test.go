package gateway

import (
	"context"
	"testing"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_RecordsCalls(t *testing.T) {
	// GIVEN
	sim := NewSimulated()
	ctx := context.Background()

	// WHEN
	_, _ = sim.SetPowerMode(ctx, settings.PowerModeManual)
	_, _ = sim.SetFanBoost(ctx, 40, 60)

	// THEN
	calls := sim.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "set_power_mode(Manual)", calls[0].String())
	assert.Equal(t, "set_fan_boost(40,60)", calls[1].String())
	assert.Equal(t, settings.FanSpeeds{Cpu: 40, Gpu: 60}, sim.State().Fans)
}

func TestSimulated_FailTimes(t *testing.T) {
	// GIVEN
	sim := NewSimulated()
	sim.FailTimes("get_sensors", "EC timeout", 1)
	ctx := context.Background()

	// WHEN
	_, err1 := sim.GetSensors(ctx)
	snapshot, err2 := sim.GetSensors(ctx)

	// THEN
	var commandErr *CommandError
	require.ErrorAs(t, err1, &commandErr)
	assert.Equal(t, "EC timeout", commandErr.Message)
	require.NoError(t, err2)
	assert.Equal(t, uint32(2400), snapshot.Fan1Rpm)
	assert.Equal(t, 2, sim.CallCount("get_sensors"))
}

func TestSimulated_FailForever(t *testing.T) {
	// GIVEN
	sim := NewSimulated()
	sim.Fail("toggle_turbo", "not supported")
	ctx := context.Background()

	// WHEN
	_, err1 := sim.ToggleTurbo(ctx)
	_, err2 := sim.ToggleTurbo(ctx)
	sim.Recover("toggle_turbo")
	_, err3 := sim.ToggleTurbo(ctx)

	// THEN
	assert.Error(t, err1)
	assert.Error(t, err2)
	assert.NoError(t, err3)
	assert.True(t, sim.State().GMode)
}

func TestSimulated_PowerModeClearsGMode(t *testing.T) {
	// GIVEN
	sim := NewSimulated().WithCapabilities(device.Capabilities{
		Model:                 SimulatedModel,
		PowerSupported:        true,
		TurboInitiallyEnabled: true,
	})

	// WHEN
	caps, err := sim.InitDevice(context.Background())
	require.NoError(t, err)
	_, err = sim.SetPowerMode(context.Background(), settings.PowerModeQuiet)

	// THEN
	require.NoError(t, err)
	assert.True(t, caps.TurboInitiallyEnabled)
	assert.False(t, sim.State().GMode)
	assert.Equal(t, settings.PowerModeQuiet, sim.State().PowerMode)
}

func TestSimulated_EffectsGated(t *testing.T) {
	// GIVEN
	sim := NewSimulated()

	// WHEN
	_, errBefore := sim.SetSpectrum(context.Background(), 500)
	sim.WithEffects(true, false)
	_, errAfter := sim.SetSpectrum(context.Background(), 500)

	// THEN
	assert.Error(t, errBefore)
	assert.NoError(t, errAfter)
	assert.False(t, sim.Supports(FeatureRainbow))
	assert.Equal(t, "spectrum", sim.State().Lighting)
}
