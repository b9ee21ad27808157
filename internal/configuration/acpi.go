package configuration

type AcpiConfig struct {
	// CallPath is the control file of the acpi_call kernel module.
	CallPath string `json:"callPath"`
	// Method overrides the autodetected WMAX method path.
	Method          string `json:"method"`
	ProductNamePath string `json:"productNamePath"`

	TemperatureFallback TemperatureFallbackConfig `json:"temperatureFallback"`
}

// TemperatureFallbackConfig names the lm-sensors chips used when ACPI reports no temperature.
type TemperatureFallbackConfig struct {
	CpuChip string `json:"cpuChip"`
	GpuChip string `json:"gpuChip"`
}
