package device

import (
	"fmt"
	"time"

	"github.com/markusressel/g2go/internal/settings"
)

// Capabilities describes which subsystems of the device are usable.
// A value is produced once by the capability probe and replaced as a whole
// whenever the probe runs again.
type Capabilities struct {
	Model                 string                `json:"model"`
	KeyboardSupported     bool                  `json:"keyboardSupported"`
	PowerSupported        bool                  `json:"powerSupported"`
	FanControlLimited     bool                  `json:"fanControlLimited"`
	TurboInitiallyEnabled bool                  `json:"turboInitiallyEnabled"`
	PowerModes            settings.PowerModeSet `json:"powerModes"`
}

// Unknown is reported when the device could not be initialized.
func Unknown() Capabilities {
	return Capabilities{Model: ModelUnknown}
}

// SupportsPowerMode reports whether mode can be selected on this device.
// Devices that did not report a mode list accept every mode.
func (c Capabilities) SupportsPowerMode(mode settings.PowerMode) bool {
	if c.PowerModes == 0 {
		return true
	}
	return c.PowerModes.Contains(mode)
}

// SensorSnapshot is a single telemetry reading. It is never persisted.
type SensorSnapshot struct {
	Fan1Rpm uint32    `json:"fan1Rpm"`
	Fan2Rpm uint32    `json:"fan2Rpm"`
	CpuTemp float64   `json:"cpuTemp"`
	GpuTemp float64   `json:"gpuTemp"`
	Time    time.Time `json:"time"`
}

func (s SensorSnapshot) String() string {
	return fmt.Sprintf("CPU %.0f°C %d RPM | GPU %.0f°C %d RPM", s.CpuTemp, s.Fan1Rpm, s.GpuTemp, s.Fan2Rpm)
}
