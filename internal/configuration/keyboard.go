package configuration

const DellVendorId = 0x187c

type KeyboardConfig struct {
	VendorId   uint16   `json:"vendorId"`
	ProductIds []uint16 `json:"productIds"`

	Commands LedCommandsConfig `json:"commands"`
}

// LedCommandsConfig maps each lighting effect to an external command.
// Arguments may contain the placeholders %r%, %g%, %b%, %duration% and %zones%.
type LedCommandsConfig struct {
	Static   *LedCommandConfig `json:"static,omitempty"`
	Morph    *LedCommandConfig `json:"morph,omitempty"`
	Pulse    *LedCommandConfig `json:"pulse,omitempty"`
	Zones    *LedCommandConfig `json:"zones,omitempty"`
	Off      *LedCommandConfig `json:"off,omitempty"`
	Spectrum *LedCommandConfig `json:"spectrum,omitempty"`
	Rainbow  *LedCommandConfig `json:"rainbow,omitempty"`
}

type LedCommandConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}

// All returns every configured command keyed by effect name.
func (c LedCommandsConfig) All() map[string]*LedCommandConfig {
	result := map[string]*LedCommandConfig{}
	for name, command := range map[string]*LedCommandConfig{
		"static":   c.Static,
		"morph":    c.Morph,
		"pulse":    c.Pulse,
		"zones":    c.Zones,
		"off":      c.Off,
		"spectrum": c.Spectrum,
		"rainbow":  c.Rainbow,
	} {
		if command != nil {
			result[name] = command
		}
	}
	return result
}
