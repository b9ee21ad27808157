package hwmon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/md14454/gosensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeIdentifierIsa(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "coretemp",
		Addr:   0,
		Bus: gosensors.Bus{
			Type: BusTypeIsa,
			Nr:   0,
		},
		Path: "/sys/class/hwmon/hwmon4",
	}

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, "coretemp-isa-0", result)
}

func TestComputeIdentifierPci(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Prefix: "amdgpu",
		Addr:   768,
		Bus: gosensors.Bus{
			Type: BusTypePci,
			Nr:   3,
		},
		Path: "/sys/class/hwmon/hwmon2",
	}

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, "amdgpu-pci-3", result)
}

func TestComputeIdentifierWithoutPrefix(t *testing.T) {
	// GIVEN
	c := gosensors.Chip{
		Path: "/sys/class/hwmon/hwmon7",
	}

	// WHEN
	result := computeIdentifier(c)

	// THEN
	assert.Equal(t, "hwmon7", result)
}

func TestSelectTemperature(t *testing.T) {
	// GIVEN
	sensors := []TemperatureSensor{
		{Chip: "acpitz-acpi-0", Label: "temp1", Value: 27.8},
		{Chip: "coretemp-isa-0", Label: "Package id 0", Value: 0},
		{Chip: "coretemp-isa-0", Label: "Core 0", Value: 61},
		{Chip: "amdgpu-pci-3", Label: "edge", Value: 48},
	}

	// WHEN
	cpu, cpuFound := selectTemperature(sensors, "coretemp")
	gpu, gpuFound := selectTemperature(sensors, "amdgpu")
	_, nvidiaFound := selectTemperature(sensors, "nvidia")
	_, emptyFound := selectTemperature(sensors, "")

	// THEN
	assert.True(t, cpuFound)
	assert.Equal(t, 61.0, cpu)
	assert.True(t, gpuFound)
	assert.Equal(t, 48.0, gpu)
	assert.False(t, nvidiaFound)
	assert.False(t, emptyFound)
}

func TestGetLabel(t *testing.T) {
	// GIVEN
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "temp1_label"), []byte("Package id 0\n"), 0o644))

	// WHEN
	label := getLabel(dir, "temp1_input")
	fallback := getLabel(dir, "temp2_input")

	// THEN
	assert.Equal(t, "Package id 0", label)
	assert.Equal(t, "temp2_input", fallback)
}
