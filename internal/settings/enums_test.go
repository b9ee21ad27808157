package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePowerMode(t *testing.T) {
	tests := []struct {
		input    string
		expected PowerMode
	}{
		{"Quiet", PowerModeQuiet},
		{"balanced", PowerModeBalanced},
		{"USTT_Performance", PowerModePerformance},
		{" manual ", PowerModeManual},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParsePowerMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}

	_, err := ParsePowerMode("turbo")
	assert.Error(t, err)
}

func TestPowerModeSet(t *testing.T) {
	// GIVEN
	set := NewPowerModeSet(PowerModeManual, PowerModeQuiet)

	// THEN
	assert.True(t, set.Contains(PowerModeManual))
	assert.True(t, set.Contains(PowerModeQuiet))
	assert.False(t, set.Contains(PowerModeBalanced))
	assert.Equal(t, []PowerMode{PowerModeQuiet, PowerModeManual}, set.Modes())
}

func TestFanPresetCatalog(t *testing.T) {
	assert.Equal(t, FanSpeeds{Cpu: 0, Gpu: 0}, FanPresetSilent.Speeds())
	assert.Equal(t, FanSpeeds{Cpu: 50, Gpu: 50}, FanPresetNormal.Speeds())
	assert.Equal(t, FanSpeeds{Cpu: 85, Gpu: 85}, FanPresetTurbo.Speeds())
	assert.Equal(t, FanSpeeds{Cpu: 100, Gpu: 100}, FanPresetMaximum.Speeds())
	assert.False(t, FanPresetNone.IsSet())
	assert.Len(t, FanPresets(), 4)
}

func TestParseFanPreset_Alias(t *testing.T) {
	// WHEN
	preset, err := ParseFanPreset("Máximo")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, FanPresetMaximum, preset)
}

func TestLightingMode_UsesDuration(t *testing.T) {
	assert.True(t, LightingMorph.UsesDuration())
	assert.True(t, LightingBreathing.UsesDuration())
	assert.True(t, LightingSpectrum.UsesDuration())
	assert.True(t, LightingRainbow.UsesDuration())
	assert.False(t, LightingStatic.UsesDuration())
	assert.False(t, LightingZone.UsesDuration())
	assert.False(t, LightingOff.UsesDuration())
}

func TestParseLightingMode(t *testing.T) {
	mode, err := ParseLightingMode("pulse")
	require.NoError(t, err)
	assert.Equal(t, LightingBreathing, mode)

	_, err = ParseLightingMode("disco")
	assert.Error(t, err)
}

func TestParseRGB(t *testing.T) {
	color, err := ParseRGB("10, 20,30")
	require.NoError(t, err)
	assert.Equal(t, RGB{10, 20, 30}, color)

	color, err = ParseRGB("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGB{255, 128, 0}, color)
	assert.Equal(t, "#ff8000", color.Hex())

	_, err = ParseRGB("256,0,0")
	assert.Error(t, err)
	_, err = ParseRGB("1,2")
	assert.Error(t, err)
}
