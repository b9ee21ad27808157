package settings

import (
	"fmt"
	"strings"
)

// FanPreset is an entry of the fixed fan preset catalog.
// The zero value means no preset is selected.
type FanPreset int

const (
	FanPresetNone FanPreset = iota
	FanPresetSilent
	FanPresetNormal
	FanPresetTurbo
	FanPresetMaximum
)

// FanSpeeds is a pair of fan targets in percent.
type FanSpeeds struct {
	Cpu uint8 `json:"cpu"`
	Gpu uint8 `json:"gpu"`
}

type fanPresetEntry struct {
	name    string
	aliases []string
	speeds  FanSpeeds
}

var fanPresetCatalog = map[FanPreset]fanPresetEntry{
	FanPresetSilent:  {name: "Silent", aliases: []string{"Silencioso"}, speeds: FanSpeeds{Cpu: 0, Gpu: 0}},
	FanPresetNormal:  {name: "Normal", speeds: FanSpeeds{Cpu: 50, Gpu: 50}},
	FanPresetTurbo:   {name: "Turbo", speeds: FanSpeeds{Cpu: 85, Gpu: 85}},
	FanPresetMaximum: {name: "Maximum", aliases: []string{"Máximo", "Max"}, speeds: FanSpeeds{Cpu: 100, Gpu: 100}},
}

// FanPresets returns the catalog in display order.
func FanPresets() []FanPreset {
	return []FanPreset{FanPresetSilent, FanPresetNormal, FanPresetTurbo, FanPresetMaximum}
}

func (p FanPreset) String() string {
	if p == FanPresetNone {
		return ""
	}
	entry, ok := fanPresetCatalog[p]
	if !ok {
		return fmt.Sprintf("FanPreset(%d)", int(p))
	}
	return entry.name
}

// IsSet reports whether p names a catalog entry.
func (p FanPreset) IsSet() bool {
	_, ok := fanPresetCatalog[p]
	return ok
}

func (p FanPreset) Speeds() FanSpeeds {
	return fanPresetCatalog[p].speeds
}

// ParseFanPreset resolves a preset by name or alias, ignoring case.
func ParseFanPreset(name string) (FanPreset, error) {
	name = strings.TrimSpace(name)
	for preset, entry := range fanPresetCatalog {
		if strings.EqualFold(entry.name, name) {
			return preset, nil
		}
		for _, alias := range entry.aliases {
			if strings.EqualFold(alias, name) {
				return preset, nil
			}
		}
	}
	return FanPresetNone, fmt.Errorf("unknown fan preset: %q", name)
}

func (p FanPreset) MarshalText() ([]byte, error) {
	if !p.IsSet() {
		return []byte{}, nil
	}
	return []byte(p.String()), nil
}

// UnmarshalText never fails: names missing from the catalog resolve to FanPresetNone.
func (p *FanPreset) UnmarshalText(text []byte) error {
	preset, err := ParseFanPreset(string(text))
	if err != nil {
		preset = FanPresetNone
	}
	*p = preset
	return nil
}
