package settings

import (
	"fmt"
	"strings"
)

// PowerMode is the thermal profile selected by the user.
type PowerMode int

const (
	PowerModeBalanced PowerMode = iota
	PowerModeQuiet
	PowerModePerformance
	PowerModeManual
)

type powerModeEntry struct {
	name    string
	aliases []string
}

var powerModeTable = map[PowerMode]powerModeEntry{
	PowerModeQuiet:       {name: "Quiet", aliases: []string{"USTT_Quiet", "silent"}},
	PowerModeBalanced:    {name: "Balanced", aliases: []string{"USTT_Balanced"}},
	PowerModePerformance: {name: "Performance", aliases: []string{"USTT_Performance"}},
	PowerModeManual:      {name: "Manual", aliases: []string{"custom"}},
}

// PowerModes returns all power modes in display order.
func PowerModes() []PowerMode {
	return []PowerMode{PowerModeQuiet, PowerModeBalanced, PowerModePerformance, PowerModeManual}
}

func (m PowerMode) String() string {
	entry, ok := powerModeTable[m]
	if !ok {
		return fmt.Sprintf("PowerMode(%d)", int(m))
	}
	return entry.name
}

func (m PowerMode) Valid() bool {
	_, ok := powerModeTable[m]
	return ok
}

// ParsePowerMode resolves a power mode by name or alias, ignoring case.
func ParsePowerMode(name string) (PowerMode, error) {
	name = strings.TrimSpace(name)
	for mode, entry := range powerModeTable {
		if strings.EqualFold(entry.name, name) {
			return mode, nil
		}
		for _, alias := range entry.aliases {
			if strings.EqualFold(alias, name) {
				return mode, nil
			}
		}
	}
	return PowerModeBalanced, fmt.Errorf("unknown power mode: %q", name)
}

func (m PowerMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid power mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *PowerMode) UnmarshalText(text []byte) error {
	mode, err := ParsePowerMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// PowerModeSet is a set of power modes a device accepts.
type PowerModeSet uint8

func NewPowerModeSet(modes ...PowerMode) PowerModeSet {
	var set PowerModeSet
	for _, mode := range modes {
		set |= 1 << uint(mode)
	}
	return set
}

func (s PowerModeSet) Contains(mode PowerMode) bool {
	return s&(1<<uint(mode)) != 0
}

// Modes returns the contained modes in display order.
func (s PowerModeSet) Modes() []PowerMode {
	var result []PowerMode
	for _, mode := range PowerModes() {
		if s.Contains(mode) {
			result = append(result, mode)
		}
	}
	return result
}
