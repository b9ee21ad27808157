package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/md14454/gosensors"
)

const (
	BusTypeIsa  = 1
	BusTypePci  = 2
	BusTypeAcpi = 5
)

// TemperatureSensor is a temperature input reported by lm-sensors.
type TemperatureSensor struct {
	Chip  string  `json:"chip"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GetTemperatureSensors reads all temperature inputs of all detected chips.
func GetTemperatureSensors() []TemperatureSensor {
	gosensors.Init()
	defer gosensors.Cleanup()

	var result []TemperatureSensor
	for _, chip := range gosensors.GetDetectedChips() {
		identifier := computeIdentifier(chip)
		for _, feature := range chip.GetFeatures() {
			if feature.Type != gosensors.FeatureTypeTemp {
				continue
			}
			input, ok := findSubFeature(feature.GetSubFeatures(), gosensors.SubFeatureTypeTempInput)
			if !ok {
				continue
			}
			result = append(result, TemperatureSensor{
				Chip:  identifier,
				Label: getLabel(chip.Path, input.Name),
				Value: input.GetValue(),
			})
		}
	}
	return result
}

// FindTemperature returns the first temperature of the first chip whose identifier starts with chipPrefix.
func FindTemperature(chipPrefix string) (float64, bool) {
	return selectTemperature(GetTemperatureSensors(), chipPrefix)
}

func selectTemperature(sensors []TemperatureSensor, chipPrefix string) (float64, bool) {
	if len(chipPrefix) <= 0 {
		return 0, false
	}
	for _, sensor := range sensors {
		if strings.HasPrefix(sensor.Chip, chipPrefix) && sensor.Value > 0 {
			return sensor.Value, true
		}
	}
	return 0, false
}

func findSubFeature(subfeatures []gosensors.SubFeature, input gosensors.SubFeatureType) (gosensors.SubFeature, bool) {
	for _, a := range subfeatures {
		if a.Type == input {
			return a, true
		}
	}
	return gosensors.SubFeature{}, false
}

// getLabel read the label of a in/output of a device
func getLabel(devicePath string, input string) string {
	labelPath := strings.TrimSuffix(devicePath+"/"+input, "input") + "label"

	content, _ := os.ReadFile(labelPath)
	label := string(content)
	if len(label) <= 0 {
		label = input
	}
	return strings.TrimSpace(label)
}

func computeIdentifier(chip gosensors.Chip) (name string) {
	name = chip.Prefix

	if len(name) <= 0 {
		_, name = filepath.Split(chip.Path)
	}

	identifier := name
	switch chip.Bus.Type {
	case BusTypeIsa:
		identifier = fmt.Sprintf("%s-isa-%d", identifier, chip.Bus.Nr)
	case BusTypePci:
		identifier = fmt.Sprintf("%s-pci-%d", identifier, chip.Bus.Nr)
	case BusTypeAcpi:
		identifier = fmt.Sprintf("%s-acpi-%d", identifier, chip.Bus.Nr)
	}

	return identifier
}
