package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const fanSubsystem = "fan"

const (
	fanCpu = "cpu"
	fanGpu = "gpu"
)

type FanCollector struct {
	sensors SensorSource
	config  ConfigurationSource
	target  *prometheus.Desc
	rpm     *prometheus.Desc
}

func NewFanCollector(sensors SensorSource, config ConfigurationSource) *FanCollector {
	return &FanCollector{
		sensors: sensors,
		config:  config,
		target: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "target_percent"),
			"Configured target speed of the fan in percent",
			[]string{"id"}, nil,
		),
		rpm: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "rpm"),
			"Current RPM value of the fan",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.target
	ch <- collector.rpm
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	config := collector.config.Snapshot()
	ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, float64(config.CpuFanTarget), fanCpu)
	ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, float64(config.GpuFanTarget), fanGpu)

	snapshot, ok := collector.sensors.Last()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, float64(snapshot.Fan1Rpm), fanCpu)
	ch <- prometheus.MustNewConstMetric(collector.rpm, prometheus.GaugeValue, float64(snapshot.Fan2Rpm), fanGpu)
}
