package settings

import (
	"fmt"
	"strconv"
	"strings"
)

type LightingMode int

const (
	LightingStatic LightingMode = iota
	LightingMorph
	LightingBreathing
	LightingSpectrum
	LightingRainbow
	LightingZone
	LightingOff
)

const (
	MinDurationMs = 255
	MaxDurationMs = 1000
	ZoneCount     = 4
)

var lightingModeNames = map[LightingMode]string{
	LightingStatic:    "Static",
	LightingMorph:     "Morph",
	LightingBreathing: "Breathing",
	LightingSpectrum:  "Spectrum",
	LightingRainbow:   "Rainbow",
	LightingZone:      "Zone",
	LightingOff:       "Off",
}

func LightingModes() []LightingMode {
	return []LightingMode{LightingStatic, LightingMorph, LightingBreathing, LightingSpectrum, LightingRainbow, LightingZone, LightingOff}
}

func (m LightingMode) String() string {
	name, ok := lightingModeNames[m]
	if !ok {
		return fmt.Sprintf("LightingMode(%d)", int(m))
	}
	return name
}

func (m LightingMode) Valid() bool {
	_, ok := lightingModeNames[m]
	return ok
}

// UsesDuration reports whether the effect is animated.
func (m LightingMode) UsesDuration() bool {
	switch m {
	case LightingMorph, LightingBreathing, LightingSpectrum, LightingRainbow:
		return true
	default:
		return false
	}
}

func ParseLightingMode(name string) (LightingMode, error) {
	name = strings.TrimSpace(name)
	for mode, modeName := range lightingModeNames {
		if strings.EqualFold(modeName, name) {
			return mode, nil
		}
	}
	if strings.EqualFold(name, "pulse") {
		return LightingBreathing, nil
	}
	return LightingStatic, fmt.Errorf("unknown lighting mode: %q", name)
}

func (m LightingMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid lighting mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *LightingMode) UnmarshalText(text []byte) error {
	mode, err := ParseLightingMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// RGB is a color as red, green and blue channel values.
type RGB [3]uint8

func (c RGB) R() uint8 { return c[0] }
func (c RGB) G() uint8 { return c[1] }
func (c RGB) B() uint8 { return c[2] }

func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c[0], c[1], c[2])
}

// Hex returns the color in #rrggbb notation.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseRGB accepts "r,g,b" and "#rrggbb".
func ParseRGB(text string) (RGB, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "#") {
		if len(text) != 7 {
			return RGB{}, fmt.Errorf("invalid hex color: %q", text)
		}
		value, err := strconv.ParseUint(text[1:], 16, 32)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex color: %q", text)
		}
		return RGB{uint8(value >> 16), uint8(value >> 8), uint8(value)}, nil
	}

	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("invalid color %q, expected r,g,b", text)
	}
	var result RGB
	for i, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid color channel %q: %w", part, err)
		}
		result[i] = uint8(value)
	}
	return result, nil
}

// NamedColor is an entry of the quick-pick palette.
type NamedColor struct {
	Name  string `json:"name"`
	Color RGB    `json:"rgb"`
}

// PresetColors is the quick-pick palette offered next to the color picker.
var PresetColors = []NamedColor{
	{Name: "Red", Color: RGB{255, 0, 0}},
	{Name: "Green", Color: RGB{0, 255, 0}},
	{Name: "Blue", Color: RGB{0, 0, 255}},
	{Name: "Yellow", Color: RGB{255, 255, 0}},
	{Name: "Cyan", Color: RGB{0, 255, 255}},
	{Name: "Magenta", Color: RGB{255, 0, 255}},
	{Name: "White", Color: RGB{255, 255, 255}},
	{Name: "Orange", Color: RGB{255, 128, 0}},
	{Name: "Purple", Color: RGB{128, 0, 255}},
	{Name: "Pink", Color: RGB{255, 128, 192}},
}
