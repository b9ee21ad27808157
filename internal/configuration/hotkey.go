package configuration

// KeyF9 is the evdev key code of the G-mode key on Dell G-series keyboards.
const KeyF9 = 67

type HotkeyConfig struct {
	Enabled bool `json:"enabled"`
	// KeyCode is the evdev key code that toggles turbo.
	KeyCode   int    `json:"keyCode"`
	InputPath string `json:"inputPath"`
}
