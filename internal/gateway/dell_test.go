package gateway

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dellFixture struct {
	dell   *Dell
	acpi   *fakeAcpi
	runner *fakeRunner
}

func newDellFixture(t *testing.T, productName string, acpiMethod string, devices []string) dellFixture {
	t.Helper()
	fake := newFakeAcpi(acpiMethod)
	runner := &fakeRunner{}

	config := configuration.Configuration{
		Keyboard: configuration.KeyboardConfig{
			VendorId:   configuration.DellVendorId,
			ProductIds: []uint16{0x0550},
			Commands: configuration.LedCommandsConfig{
				Static: &configuration.LedCommandConfig{Exec: "/usr/bin/g-led", Args: []string{"static", "%hex%"}},
			},
		},
		Setup: configuration.SetupConfig{
			Script:      filepath.Join(t.TempDir(), "setup-acpi.sh"),
			UdevRules:   "/etc/udev/rules.d/99-dell-g-series.rules",
			PolkitRules: "/etc/polkit-1/rules.d/50-dell-acpi-nopasswd.rules",
		},
		Acpi: configuration.AcpiConfig{
			TemperatureFallback: configuration.TemperatureFallbackConfig{CpuChip: "coretemp", GpuChip: "amdgpu"},
		},
	}

	dell := NewDell(config)
	dell.acpi = NewAcpiController(fake.call, "")
	dell.leds.run = runner.run
	dell.setup.run = runner.run
	dell.enumerate = fakeEnumerator(devices, nil)
	dell.temperature = func(chipPrefix string) (float64, bool) { return 0, false }
	dell.productName = func() (string, error) { return productName, nil }

	return dellFixture{dell: dell, acpi: fake, runner: runner}
}

func TestDell_InitDevice(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, []string{"187c:0550"})
	f.acpi.gMode = true

	// WHEN
	caps, err := f.dell.InitDevice(context.Background())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "G15 5530", caps.Model)
	assert.True(t, caps.KeyboardSupported)
	assert.True(t, caps.PowerSupported)
	assert.False(t, caps.FanControlLimited)
	assert.True(t, caps.TurboInitiallyEnabled)
	assert.True(t, f.dell.Supports(FeatureKeyboard))
	assert.True(t, f.dell.Supports(FeaturePower))
	assert.False(t, f.dell.Supports(FeatureSpectrum))
}

func TestDell_InitDeviceLimitedModel(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5515", AmdAcpiMethod, nil)

	// WHEN
	caps, err := f.dell.InitDevice(context.Background())

	// THEN
	require.NoError(t, err)
	assert.True(t, caps.FanControlLimited)
	assert.False(t, caps.KeyboardSupported)
	assert.True(t, caps.SupportsPowerMode(settings.PowerModeManual))
	assert.False(t, caps.SupportsPowerMode(settings.PowerModeQuiet))
}

func TestDell_InitDeviceNothingAvailable(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "", `\_SB.NONE`, nil)
	f.dell.enumerate = fakeEnumerator(nil, errors.New("hidapi: permission denied"))

	// WHEN
	caps, err := f.dell.InitDevice(context.Background())

	// THEN
	var commandErr *CommandError
	require.ErrorAs(t, err, &commandErr)
	assert.Equal(t, "init_device", commandErr.Op)
	assert.False(t, caps.KeyboardSupported)
	assert.False(t, caps.PowerSupported)
}

func TestDell_PowerCommandsRequireAcpi(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "", `\_SB.NONE`, []string{"187c:0550"})
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)

	// WHEN
	_, err = f.dell.SetPowerMode(context.Background(), settings.PowerModeQuiet)

	// THEN
	var commandErr *CommandError
	require.ErrorAs(t, err, &commandErr)
	assert.Equal(t, "ACPI not available", commandErr.Message)
}

func TestDell_SetPowerModeDisablesGMode(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)
	f.acpi.gMode = true
	f.acpi.reset()

	// WHEN
	result, err := f.dell.SetPowerMode(context.Background(), settings.PowerModeQuiet)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "Power mode: Quiet", result)
	assert.False(t, f.acpi.gMode)
	assert.Equal(t, []string{
		cmdGetGMode.encode(),
		cmdToggleGMode.encode(),
		cmdSetPowerMode.with(1, 0xa3).encode(),
	}, f.acpi.Calls())
}

func TestDell_SetPowerModePerformanceDrivesFans(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)
	f.acpi.reset()

	// WHEN
	result, err := f.dell.SetPowerMode(context.Background(), settings.PowerModePerformance)

	// THEN
	require.NoError(t, err)
	assert.Contains(t, result, "2/2")
	assert.Equal(t, []string{
		cmdGetGMode.encode(),
		cmdSetPowerMode.with(1, 0xa1).encode(),
		cmdSetFanBoost.with(1, fanCpu).with(2, 0xff).encode(),
		cmdSetFanBoost.with(1, fanGpu).with(2, 0xff).encode(),
	}, f.acpi.Calls())
}

func TestDell_SetFanBoostPartialSuccess(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)
	f.acpi.failures[cmdSetFanBoost.with(1, fanGpu).with(2, 0x7f).encode()] = errors.New("Error: AE_AML_BUFFER_LIMIT")
	f.acpi.reset()

	// WHEN
	result, err := f.dell.SetFanBoost(context.Background(), 50, 50)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "Fans set: CPU 50%, GPU 50% (1/2 succeeded)", result)
	assert.Equal(t, cmdSetPowerMode.with(1, 0x00).encode(), f.acpi.Calls()[0])
}

func TestDell_SetFanBoostAllFansFail(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)
	f.acpi.failures[cmdSetFanBoost.with(1, fanCpu).with(2, 0xff).encode()] = errors.New("Error: AE_AML_BUFFER_LIMIT")
	f.acpi.failures[cmdSetFanBoost.with(1, fanGpu).with(2, 0xff).encode()] = errors.New("Error: AE_AML_BUFFER_LIMIT")

	// WHEN
	_, err = f.dell.SetFanBoost(context.Background(), 100, 100)

	// THEN
	var commandErr *CommandError
	require.ErrorAs(t, err, &commandErr)
	assert.Equal(t, "set_fan_boost", commandErr.Op)
	assert.Contains(t, commandErr.Message, "CPU fan")
	assert.Contains(t, commandErr.Message, "GPU fan")
}

func TestDell_ToggleTurbo(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5520", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)

	// WHEN
	first, err1 := f.dell.ToggleTurbo(context.Background())
	second, err2 := f.dell.ToggleTurbo(context.Background())

	// THEN
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "Turbo mode enabled", first)
	assert.Equal(t, "Turbo mode disabled", second)
	assert.False(t, f.acpi.gMode)
}

func TestDell_GetSensorsUsesTemperatureFallback(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)
	f.acpi.results[cmdGetFanRpm.with(1, fanCpu).encode()] = 2800
	f.acpi.results[cmdGetFanRpm.with(1, fanGpu).encode()] = 2600
	f.acpi.results[cmdGetCpuTemp.encode()] = 58
	f.acpi.results[cmdGetGpuTemp.encode()] = acpiNoValue
	f.dell.temperature = func(chipPrefix string) (float64, bool) {
		if chipPrefix == "amdgpu" {
			return 47.5, true
		}
		return 0, false
	}

	// WHEN
	snapshot, err := f.dell.GetSensors(context.Background())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, uint32(2800), snapshot.Fan1Rpm)
	assert.Equal(t, uint32(2600), snapshot.Fan2Rpm)
	assert.Equal(t, 58.0, snapshot.CpuTemp)
	assert.Equal(t, 47.5, snapshot.GpuTemp)
	assert.False(t, snapshot.Time.IsZero())
}

func TestDell_CheckPermissions(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "", IntelAcpiMethod, nil)
	f.dell.exists = func(path string) bool {
		return path == "/etc/udev/rules.d/99-dell-g-series.rules"
	}

	// WHEN
	result, err := f.dell.CheckPermissions(context.Background())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "missing:polkit", result)
}

func TestDell_CheckUsbDevicesEmpty(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "", IntelAcpiMethod, nil)

	// WHEN
	devices, err := f.dell.CheckUsbDevices(context.Background())

	// THEN
	assert.Error(t, err)
	assert.Empty(t, devices)
}

func TestDell_RunSetupScript(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "", IntelAcpiMethod, nil)
	f.dell.setup.exists = func(path string) bool { return true }

	// WHEN
	result, err := f.dell.RunSetupScript(context.Background())

	// THEN
	require.NoError(t, err)
	assert.Contains(t, result, "restart")
	require.Len(t, f.runner.commands, 1)
	assert.Contains(t, f.runner.commands[0], "pkexec [bash ")
}

func TestDell_RunSetupScriptMissing(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "", IntelAcpiMethod, nil)

	// WHEN
	_, err := f.dell.RunSetupScript(context.Background())

	// THEN
	var commandErr *CommandError
	require.ErrorAs(t, err, &commandErr)
	assert.Contains(t, commandErr.Message, "not found")
	assert.Empty(t, f.runner.commands)
}

func TestDell_LightingRequiresKeyboard(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, nil)
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)

	// WHEN
	_, err = f.dell.SetStaticColor(context.Background(), settings.RGB{255, 0, 0})

	// THEN
	var commandErr *CommandError
	require.ErrorAs(t, err, &commandErr)
	assert.Equal(t, "Keyboard not available", commandErr.Message)
	assert.Empty(t, f.runner.commands)
}

func TestDell_SetStaticColor(t *testing.T) {
	// GIVEN
	f := newDellFixture(t, "Dell G15 5530", IntelAcpiMethod, []string{"187c:0550"})
	_, err := f.dell.InitDevice(context.Background())
	require.NoError(t, err)

	// WHEN
	_, err = f.dell.SetStaticColor(context.Background(), settings.RGB{0, 128, 255})

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/g-led [static 0080ff]"}, f.runner.commands)
}
