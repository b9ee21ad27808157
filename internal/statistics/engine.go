package statistics

import (
	"github.com/markusressel/g2go/internal/settings"
	"github.com/prometheus/client_golang/prometheus"
)

const engineSubsystem = "engine"

type EngineCollector struct {
	config ConfigurationSource

	powerMode   *prometheus.Desc
	turboActive *prometheus.Desc
	fanPreset   *prometheus.Desc
}

func NewEngineCollector(config ConfigurationSource) *EngineCollector {
	return &EngineCollector{
		config: config,
		powerMode: prometheus.NewDesc(prometheus.BuildFQName(namespace, engineSubsystem, "power_mode"),
			"Selected power mode, 1 for the active mode",
			[]string{"mode"}, nil,
		),
		turboActive: prometheus.NewDesc(prometheus.BuildFQName(namespace, engineSubsystem, "turbo_active"),
			"Whether turbo mode is active",
			nil, nil,
		),
		fanPreset: prometheus.NewDesc(prometheus.BuildFQName(namespace, engineSubsystem, "fan_preset"),
			"Selected fan preset, 1 for the active preset",
			[]string{"preset"}, nil,
		),
	}
}

func (collector *EngineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.powerMode
	ch <- collector.turboActive
	ch <- collector.fanPreset
}

// Collect implements required collect function for all prometheus collectors
func (collector *EngineCollector) Collect(ch chan<- prometheus.Metric) {
	config := collector.config.Snapshot()
	for _, mode := range settings.PowerModes() {
		ch <- prometheus.MustNewConstMetric(collector.powerMode, prometheus.GaugeValue, boolValue(config.PowerMode == mode), mode.String())
	}
	ch <- prometheus.MustNewConstMetric(collector.turboActive, prometheus.GaugeValue, boolValue(collector.config.TurboActive()))
	for _, preset := range settings.FanPresets() {
		ch <- prometheus.MustNewConstMetric(collector.fanPreset, prometheus.GaugeValue, boolValue(config.SelectedFanPreset == preset), preset.String())
	}
}
