package device

import (
	"strings"

	"github.com/markusressel/g2go/internal/settings"
)

const ModelUnknown = "Unknown"

// Model is a supported laptop model.
type Model struct {
	Name string
	// ProductPattern is matched case-insensitively against the DMI product name.
	ProductPattern string
	Amd            bool
	// FanControlLimited is set when the embedded controller overrides manual fan targets.
	FanControlLimited bool
	KeyboardSupported bool
	PowerModes        settings.PowerModeSet
}

var allPowerModes = settings.NewPowerModeSet(settings.PowerModes()...)

// Models lists the supported laptops.
var Models = []Model{
	{Name: "G15 5530", ProductPattern: "g15 5530", KeyboardSupported: true, PowerModes: allPowerModes},
	{Name: "G15 5520", ProductPattern: "g15 5520", KeyboardSupported: true, PowerModes: allPowerModes},
	{Name: "G15 5525", ProductPattern: "g15 5525", Amd: true, KeyboardSupported: true, PowerModes: allPowerModes},
	{Name: "G15 5515", ProductPattern: "g15 5515", Amd: true, FanControlLimited: true, KeyboardSupported: true, PowerModes: settings.NewPowerModeSet(settings.PowerModeManual)},
	{Name: "G15 5511", ProductPattern: "g15 5511", KeyboardSupported: true, PowerModes: allPowerModes},
	{Name: "G16 7630", ProductPattern: "g16 7630", KeyboardSupported: false, PowerModes: allPowerModes},
	{Name: "G16 7620", ProductPattern: "g16 7620", KeyboardSupported: true, PowerModes: allPowerModes},
}

// modelProbeResults maps the answer of the ACPI model query to a model,
// keyed by whether the AMD method path answered.
var modelProbeResults = map[bool]map[int64]string{
	false: {0x0: "G15 5530", 0x12c0: "G15 5520", 0xc80: "G15 5511"},
	true:  {0x12c0: "G15 5525", 0xc80: "G15 5515"},
}

// FindModel resolves a DMI product name such as "Dell G15 5530".
func FindModel(productName string) (Model, bool) {
	productName = strings.Join(strings.Fields(strings.ToLower(productName)), " ")
	if productName == "" {
		return Model{}, false
	}
	for _, model := range Models {
		if strings.Contains(productName, model.ProductPattern) {
			return model, true
		}
	}
	return Model{}, false
}

// FindModelByProbe resolves the result of the ACPI laptop model query.
func FindModelByProbe(amd bool, result int64) (Model, bool) {
	name, ok := modelProbeResults[amd][result]
	if !ok {
		return Model{}, false
	}
	for _, model := range Models {
		if model.Name == name {
			return model, true
		}
	}
	return Model{}, false
}

// IsGSeries reports whether the product name belongs to the Dell G series at all.
func IsGSeries(productName string) bool {
	productName = strings.ToLower(productName)
	return strings.Contains(productName, "g15") || strings.Contains(productName, "g16")
}
