package statistics

import (
	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "g2go"
)

// SensorSource provides the most recent telemetry reading.
type SensorSource interface {
	Last() (device.SensorSnapshot, bool)
}

// ConfigurationSource provides the reconciled configuration.
type ConfigurationSource interface {
	Snapshot() settings.Configuration
	TurboActive() bool
}

func Register(registerer prometheus.Registerer, collectors ...prometheus.Collector) {
	registerer.MustRegister(collectors...)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
