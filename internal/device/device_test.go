package device

import (
	"testing"

	"github.com/markusressel/g2go/internal/settings"
	"github.com/stretchr/testify/assert"
)

func TestFindModel(t *testing.T) {
	tests := []struct {
		product string
		name    string
		found   bool
		limited bool
	}{
		{"Dell G15 5530", "G15 5530", true, false},
		{"  DELL G15 5515\n", "G15 5515", true, true},
		{"Dell G16 7630", "G16 7630", true, false},
		{"XPS 13 9310", "", false, false},
		{"", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			model, found := FindModel(tt.product)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.name, model.Name)
			assert.Equal(t, tt.limited, model.FanControlLimited)
		})
	}
}

func TestCapabilities_SupportsPowerMode(t *testing.T) {
	// GIVEN
	limited := Capabilities{PowerModes: settings.NewPowerModeSet(settings.PowerModeManual)}
	unspecified := Capabilities{}

	// THEN
	assert.True(t, limited.SupportsPowerMode(settings.PowerModeManual))
	assert.False(t, limited.SupportsPowerMode(settings.PowerModeBalanced))
	assert.True(t, unspecified.SupportsPowerMode(settings.PowerModeQuiet))
}

func TestUnknown(t *testing.T) {
	caps := Unknown()
	assert.Equal(t, ModelUnknown, caps.Model)
	assert.False(t, caps.PowerSupported)
	assert.False(t, caps.KeyboardSupported)
}

func TestFindModelByProbe(t *testing.T) {
	model, found := FindModelByProbe(false, 0x12c0)
	assert.True(t, found)
	assert.Equal(t, "G15 5520", model.Name)

	model, found = FindModelByProbe(true, 0xc80)
	assert.True(t, found)
	assert.Equal(t, "G15 5515", model.Name)
	assert.True(t, model.Amd)

	_, found = FindModelByProbe(true, 0x0)
	assert.False(t, found)
}

func TestIsGSeries(t *testing.T) {
	assert.True(t, IsGSeries("Dell G15 9999"))
	assert.False(t, IsGSeries("Latitude 7420"))
}
