package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Keys of the persisted record. A Change addresses exactly one of them.
const (
	KeyPowerMode         = "powerMode"
	KeyTurboActive       = "turboActive"
	KeySelectedFanPreset = "selectedFanPreset"
	KeyCpuFanTarget      = "cpuFanTarget"
	KeyGpuFanTarget      = "gpuFanTarget"
	KeyLightingMode      = "lightingMode"
	KeyRed               = "red"
	KeyGreen             = "green"
	KeyBlue              = "blue"
	KeyDurationMs        = "durationMs"
	KeyZoneColors        = "zoneColors"
)

var ErrUnknownKey = errors.New("unknown settings key")

// Configuration is the reconciled user configuration.
// It is persisted as one flat document.
type Configuration struct {
	PowerMode         PowerMode `json:"powerMode"`
	TurboActive       bool      `json:"turboActive"`
	SelectedFanPreset FanPreset `json:"selectedFanPreset"`
	CpuFanTarget      uint8     `json:"cpuFanTarget"`
	GpuFanTarget      uint8     `json:"gpuFanTarget"`

	Lighting `json:",squash"`
}

// Lighting holds the keyboard effect and all of its parameters.
// Zone colors and duration are kept even when the active mode ignores them.
type Lighting struct {
	Mode       LightingMode   `json:"lightingMode"`
	Red        uint8          `json:"red"`
	Green      uint8          `json:"green"`
	Blue       uint8          `json:"blue"`
	DurationMs uint16         `json:"durationMs"`
	ZoneColors [ZoneCount]RGB `json:"zoneColors"`
}

// Changes returns one change per lighting key, carrying the values of l.
func (l Lighting) Changes() []Change {
	return []Change{
		Set(KeyLightingMode, l.Mode),
		Set(KeyRed, l.Red),
		Set(KeyGreen, l.Green),
		Set(KeyBlue, l.Blue),
		Set(KeyDurationMs, l.DurationMs),
		Set(KeyZoneColors, l.ZoneColors),
	}
}

func (l Lighting) Color() RGB {
	return RGB{l.Red, l.Green, l.Blue}
}

// Default returns the configuration used when nothing was persisted yet.
func Default() Configuration {
	return Configuration{
		PowerMode:         PowerModeBalanced,
		TurboActive:       false,
		SelectedFanPreset: FanPresetNone,
		CpuFanTarget:      50,
		GpuFanTarget:      50,
		Lighting: Lighting{
			Mode:       LightingStatic,
			Red:        255,
			Green:      0,
			Blue:       0,
			DurationMs: MaxDurationMs,
			ZoneColors: [ZoneCount]RGB{
				{255, 0, 0},
				{0, 255, 0},
				{0, 0, 255},
				{255, 255, 255},
			},
		},
	}
}

// Change sets a single key of the configuration.
type Change struct {
	Key   string
	Value any
}

func Set(key string, value any) Change {
	return Change{Key: key, Value: value}
}

// Keys returns all known keys in a stable order.
func Keys() []string {
	keys := maps.Keys(Default().Fields())
	slices.Sort(keys)
	return keys
}

// Fields returns the flat document representation of c.
func (c Configuration) Fields() map[string]any {
	data, err := json.Marshal(c)
	if err != nil {
		panic(fmt.Sprintf("configuration is not serializable: %v", err))
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		panic(fmt.Sprintf("configuration is not serializable: %v", err))
	}
	return fields
}

// Apply merges the given changes into a copy of c. Keys that are not
// changed keep their value. The receiver is never modified.
func (c Configuration) Apply(changes ...Change) (Configuration, error) {
	if len(changes) == 0 {
		return c, nil
	}

	fields := c.Fields()
	for _, change := range changes {
		if _, ok := fields[change.Key]; !ok {
			return c, fmt.Errorf("%w: %s", ErrUnknownKey, change.Key)
		}
		value, err := normalize(change.Value)
		if err != nil {
			return c, fmt.Errorf("%s: %w", change.Key, err)
		}
		fields[change.Key] = value
	}

	result := c
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			boundedUintHook,
		),
	})
	if err != nil {
		return c, err
	}
	if err := decoder.Decode(fields); err != nil {
		return c, err
	}
	if err := result.Validate(); err != nil {
		return c, err
	}
	return result, nil
}

// normalize converts typed values into their document form.
func normalize(value any) (any, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var result any
	err = json.Unmarshal(data, &result)
	return result, err
}

// boundedUintHook rejects numbers that do not fit the target unsigned integer.
func boundedUintHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	number, ok := data.(float64)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
	default:
		return data, nil
	}
	limit := math.Pow(2, float64(to.Bits())) - 1
	if number < 0 || number > limit || number != math.Trunc(number) {
		return nil, fmt.Errorf("value %v out of range for %s", number, to.Kind())
	}
	return uint64(number), nil
}

// Validate checks ranges that the field types alone do not enforce.
func (c Configuration) Validate() error {
	if !c.PowerMode.Valid() {
		return fmt.Errorf("invalid power mode: %d", int(c.PowerMode))
	}
	if c.SelectedFanPreset != FanPresetNone && !c.SelectedFanPreset.IsSet() {
		return fmt.Errorf("invalid fan preset: %d", int(c.SelectedFanPreset))
	}
	if c.CpuFanTarget > 100 {
		return fmt.Errorf("cpu fan target must be within 0-100, was %d", c.CpuFanTarget)
	}
	if c.GpuFanTarget > 100 {
		return fmt.Errorf("gpu fan target must be within 0-100, was %d", c.GpuFanTarget)
	}
	if !c.Lighting.Mode.Valid() {
		return fmt.Errorf("invalid lighting mode: %d", int(c.Lighting.Mode))
	}
	if c.DurationMs < MinDurationMs || c.DurationMs > MaxDurationMs {
		return fmt.Errorf("duration must be within %d-%d ms, was %d", MinDurationMs, MaxDurationMs, c.DurationMs)
	}
	return nil
}

// Sanitize repairs a decoded record so it satisfies Validate.
// Values out of range are replaced by their defaults.
func (c Configuration) Sanitize() Configuration {
	defaults := Default()
	if !c.PowerMode.Valid() {
		c.PowerMode = defaults.PowerMode
	}
	if !c.SelectedFanPreset.IsSet() {
		c.SelectedFanPreset = FanPresetNone
	}
	if c.CpuFanTarget > 100 {
		c.CpuFanTarget = defaults.CpuFanTarget
	}
	if c.GpuFanTarget > 100 {
		c.GpuFanTarget = defaults.GpuFanTarget
	}
	if !c.Lighting.Mode.Valid() {
		c.Lighting.Mode = defaults.Lighting.Mode
	}
	if c.DurationMs < MinDurationMs || c.DurationMs > MaxDurationMs {
		c.DurationMs = defaults.DurationMs
	}
	return c
}
