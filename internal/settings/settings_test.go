package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	// WHEN
	config := Default()

	// THEN
	assert.Equal(t, PowerModeBalanced, config.PowerMode)
	assert.False(t, config.TurboActive)
	assert.Equal(t, FanPresetNone, config.SelectedFanPreset)
	assert.EqualValues(t, 50, config.CpuFanTarget)
	assert.EqualValues(t, 50, config.GpuFanTarget)
	assert.Equal(t, LightingStatic, config.Lighting.Mode)
	assert.Equal(t, RGB{255, 0, 0}, config.Lighting.Color())
	assert.EqualValues(t, 1000, config.DurationMs)
	assert.NoError(t, config.Validate())
}

func TestConfiguration_Fields_IsFlat(t *testing.T) {
	// WHEN
	fields := Default().Fields()

	// THEN
	assert.Equal(t, "Balanced", fields[KeyPowerMode])
	assert.Equal(t, "", fields[KeySelectedFanPreset])
	assert.Equal(t, "Static", fields[KeyLightingMode])
	assert.EqualValues(t, 255, fields[KeyRed])
	assert.Contains(t, fields, KeyZoneColors)
	assert.NotContains(t, fields, "Lighting")
}

func TestConfiguration_Apply_SingleKeyKeepsSiblings(t *testing.T) {
	// GIVEN
	config := Default()
	config.GpuFanTarget = 30

	// WHEN
	result, err := config.Apply(Set(KeyCpuFanTarget, uint8(80)))

	// THEN
	require.NoError(t, err)
	assert.EqualValues(t, 80, result.CpuFanTarget)
	assert.EqualValues(t, 30, result.GpuFanTarget)
	assert.EqualValues(t, 50, config.CpuFanTarget, "receiver must not be modified")
}

func TestConfiguration_Apply_TypedEnums(t *testing.T) {
	// WHEN
	result, err := Default().Apply(
		Set(KeyPowerMode, PowerModeManual),
		Set(KeySelectedFanPreset, FanPresetTurbo),
		Set(KeyLightingMode, LightingZone),
		Set(KeyZoneColors, [ZoneCount]RGB{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}}),
	)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, PowerModeManual, result.PowerMode)
	assert.Equal(t, FanPresetTurbo, result.SelectedFanPreset)
	assert.Equal(t, LightingZone, result.Lighting.Mode)
	assert.Equal(t, RGB{7, 8, 9}, result.ZoneColors[2])
}

func TestConfiguration_Apply_StringValues(t *testing.T) {
	// WHEN
	result, err := Default().Apply(
		Set(KeyPowerMode, "performance"),
		Set(KeyTurboActive, "true"),
		Set(KeyDurationMs, "500"),
	)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, PowerModePerformance, result.PowerMode)
	assert.True(t, result.TurboActive)
	assert.EqualValues(t, 500, result.DurationMs)
}

func TestConfiguration_Apply_ClearPreset(t *testing.T) {
	// GIVEN
	config := Default()
	config.SelectedFanPreset = FanPresetNormal

	// WHEN
	result, err := config.Apply(Set(KeySelectedFanPreset, FanPresetNone))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, FanPresetNone, result.SelectedFanPreset)
}

func TestConfiguration_Apply_UnknownKey(t *testing.T) {
	// WHEN
	_, err := Default().Apply(Set("brightness", 3))

	// THEN
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestConfiguration_Apply_OutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		change Change
	}{
		{"fan target above 100", Set(KeyCpuFanTarget, 101)},
		{"channel overflow", Set(KeyRed, 300)},
		{"negative channel", Set(KeyGreen, -1)},
		{"duration too short", Set(KeyDurationMs, 100)},
		{"duration overflow", Set(KeyDurationMs, 70000)},
		{"unknown power mode", Set(KeyPowerMode, "Eco")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			config := Default()

			// WHEN
			result, err := config.Apply(tt.change)

			// THEN
			assert.Error(t, err)
			assert.Equal(t, config, result)
		})
	}
}

func TestConfiguration_JsonRoundTrip(t *testing.T) {
	// GIVEN
	config := Default()
	config.PowerMode = PowerModeQuiet
	config.TurboActive = true
	config.SelectedFanPreset = FanPresetMaximum
	config.Lighting.Mode = LightingMorph
	config.ZoneColors[3] = RGB{9, 9, 9}

	// WHEN
	data, err := json.Marshal(config)
	require.NoError(t, err)
	var result Configuration
	err = json.Unmarshal(data, &result)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, config, result)
}

func TestConfiguration_Unmarshal_UnknownPresetIsUnset(t *testing.T) {
	// GIVEN
	data := []byte(`{"powerMode":"Manual","selectedFanPreset":"Hurricane"}`)

	// WHEN
	config := Default()
	config.SelectedFanPreset = FanPresetTurbo
	err := json.Unmarshal(data, &config)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, PowerModeManual, config.PowerMode)
	assert.Equal(t, FanPresetNone, config.SelectedFanPreset)
}

func TestConfiguration_Sanitize(t *testing.T) {
	// GIVEN
	config := Default()
	config.CpuFanTarget = 200
	config.DurationMs = 10

	// WHEN
	result := config.Sanitize()

	// THEN
	assert.EqualValues(t, 50, result.CpuFanTarget)
	assert.EqualValues(t, 1000, result.DurationMs)
	assert.NoError(t, result.Validate())
}

func TestKeys(t *testing.T) {
	// WHEN
	keys := Keys()

	// THEN
	assert.Len(t, keys, 11)
	assert.Equal(t, KeyBlue, keys[0])
}
