package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Configuration {
	return Configuration{
		DbPath:            "/tmp/g2go.db",
		Backend:           BackendDell,
		SensorPollingRate: 3 * time.Second,
		ModeSwitchDelay:   300 * time.Millisecond,
		CommandTimeout:    5 * time.Second,
		Keyboard: KeyboardConfig{
			VendorId:   DellVendorId,
			ProductIds: []uint16{0x0550, 0x0551},
		},
		Hotkey: HotkeyConfig{
			Enabled: true,
			KeyCode: KeyF9,
		},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	// GIVEN
	config := validConfig()

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.NoError(t, err)
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Configuration)
		errMsg string
	}{
		{"empty db path", func(c *Configuration) { c.DbPath = "" }, "dbPath must not be empty"},
		{"unknown backend", func(c *Configuration) { c.Backend = "asus" }, "Unsupported backend 'asus'"},
		{"polling too fast", func(c *Configuration) { c.SensorPollingRate = time.Millisecond }, "sensorPollingRate must be at least 100ms"},
		{"negative delay", func(c *Configuration) { c.ModeSwitchDelay = -time.Second }, "modeSwitchDelay must not be negative"},
		{"zero timeout", func(c *Configuration) { c.CommandTimeout = 0 }, "commandTimeout must be positive"},
		{"zero vendor", func(c *Configuration) { c.Keyboard.VendorId = 0 }, "keyboard.vendorId must not be 0"},
		{"no products", func(c *Configuration) { c.Keyboard.ProductIds = nil }, "keyboard.productIds must contain"},
		{"empty command", func(c *Configuration) {
			c.Keyboard.Commands.Static = &LedCommandConfig{}
		}, "keyboard.commands.static: exec must not be empty"},
		{"bad key code", func(c *Configuration) { c.Hotkey.KeyCode = 0 }, "hotkey.keyCode 0"},
		{"bad api port", func(c *Configuration) {
			c.Api.Enabled = true
			c.Api.Port = 70000
		}, "api.port 70000 is out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			config := validConfig()
			tt.modify(&config)

			// WHEN
			err := validateConfig(&config, "")

			// THEN
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidateConfig_DisabledHotkeyIgnoresKeyCode(t *testing.T) {
	// GIVEN
	config := validConfig()
	config.Hotkey.Enabled = false
	config.Hotkey.KeyCode = -1

	// WHEN
	err := validateConfig(&config, "")

	// THEN
	assert.NoError(t, err)
}

func TestLedCommandsConfig_All(t *testing.T) {
	// GIVEN
	commands := LedCommandsConfig{
		Static: &LedCommandConfig{Exec: "/usr/bin/true"},
		Off:    &LedCommandConfig{Exec: "/usr/bin/true"},
	}

	// WHEN
	all := commands.All()

	// THEN
	assert.Len(t, all, 2)
	assert.Contains(t, all, "static")
	assert.Contains(t, all, "off")
}
