package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

type SensorCollector struct {
	sensors     SensorSource
	temperature *prometheus.Desc
	lastUpdate  *prometheus.Desc
}

func NewSensorCollector(sensors SensorSource) *SensorCollector {
	return &SensorCollector{
		sensors: sensors,
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_celsius"),
			"Current temperature of the component",
			[]string{"id"}, nil,
		),
		lastUpdate: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "last_update_timestamp_seconds"),
			"Time of the last successful sensor reading",
			nil, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.lastUpdate
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot, ok := collector.sensors.Last()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, snapshot.CpuTemp, fanCpu)
	ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, snapshot.GpuTemp, fanGpu)
	ch <- prometheus.MustNewConstMetric(collector.lastUpdate, prometheus.GaugeValue, float64(snapshot.Time.Unix()))
}
