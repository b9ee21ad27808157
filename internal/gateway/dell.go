package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/hwmon"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/markusressel/g2go/internal/util"
)

// TemperatureSource returns a temperature of the first chip matching chipPrefix.
type TemperatureSource func(chipPrefix string) (float64, bool)

// Dell drives a Dell G-series laptop: ACPI for power and fans, external commands for the keyboard LEDs.
type Dell struct {
	acpi        *AcpiController
	leds        *KeyboardLeds
	enumerate   UsbEnumerator
	temperature TemperatureSource
	productName func() (string, error)
	rules       permissionRules
	setup       setupScript
	exists      func(path string) bool

	keyboard        configuration.KeyboardConfig
	fallback        configuration.TemperatureFallbackConfig
	modeSwitchDelay time.Duration

	// mu serializes ACPI command sequences
	mu              sync.Mutex
	keyboardPresent bool
	powerAvailable  bool
}

func NewDell(config configuration.Configuration) *Dell {
	productNamePath := config.Acpi.ProductNamePath
	return &Dell{
		acpi:        NewAcpiController(util.AcpiCallAt(config.Acpi.CallPath), config.Acpi.Method),
		leds:        NewKeyboardLeds(config.Keyboard.Commands, config.CommandTimeout),
		enumerate:   EnumerateHidDevices,
		temperature: hwmon.FindTemperature,
		productName: func() (string, error) {
			return util.ReadTrimmedFile(productNamePath)
		},
		rules:           newPermissionRules(config.Setup),
		setup:           newSetupScript(config.Setup),
		exists:          util.FileExists,
		keyboard:        config.Keyboard,
		fallback:        config.Acpi.TemperatureFallback,
		modeSwitchDelay: config.ModeSwitchDelay,
	}
}

func (d *Dell) InitDevice(ctx context.Context) (device.Capabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	caps := device.Unknown()

	productName, err := d.productName()
	if err != nil {
		ui.Warning("Unable to read product name: %v", err)
	} else {
		ui.Debug("Product name: %s", productName)
	}

	devices, err := d.enumerate(d.keyboard.VendorId, d.keyboard.ProductIds)
	if err != nil {
		ui.Warning("Keyboard controller enumeration failed: %v", err)
	}
	d.keyboardPresent = len(devices) > 0

	if err := d.acpi.Detect(productName); err != nil {
		ui.Warning("Power control not available: %v", err)
		d.powerAvailable = false
	} else {
		d.powerAvailable = true
	}

	if model, known := d.acpi.Model(); known {
		caps.Model = model.Name
		caps.FanControlLimited = model.FanControlLimited
		if !model.KeyboardSupported {
			d.keyboardPresent = false
		}
	} else if productName != "" {
		caps.Model = productName
	}

	caps.KeyboardSupported = d.keyboardPresent
	caps.PowerSupported = d.powerAvailable
	if d.powerAvailable {
		caps.PowerModes = d.acpi.PowerModes()
		turbo, err := d.acpi.GModeEnabled()
		if err != nil {
			ui.Warning("Unable to read G mode state: %v", err)
		}
		caps.TurboInitiallyEnabled = turbo
	}

	if !caps.KeyboardSupported && !caps.PowerSupported {
		return caps, newCommandError("init_device", "No supported Dell G-series device found")
	}
	return caps, nil
}

func (d *Dell) CheckUsbDevices(ctx context.Context) ([]string, error) {
	devices, err := d.enumerate(d.keyboard.VendorId, d.keyboard.ProductIds)
	if err != nil {
		return nil, wrapCommandError("check_usb_devices", err)
	}
	if len(devices) == 0 {
		return nil, newCommandError("check_usb_devices", "No compatible Dell device found, check the USB permissions")
	}
	return devices, nil
}

func (d *Dell) CheckPermissions(ctx context.Context) (string, error) {
	return d.rules.check(d.exists), nil
}

func (d *Dell) RunSetupScript(ctx context.Context) (string, error) {
	return d.setup.execute(ctx)
}

func (d *Dell) requireKeyboard(op string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.keyboardPresent {
		return newCommandError(op, "Keyboard not available")
	}
	return nil
}

func (d *Dell) SetStaticColor(ctx context.Context, color settings.RGB) (string, error) {
	if err := d.requireKeyboard("set_static_color"); err != nil {
		return "", err
	}
	return d.leds.SetStaticColor(ctx, color)
}

func (d *Dell) SetMorph(ctx context.Context, color settings.RGB, durationMs uint16) (string, error) {
	if err := d.requireKeyboard("set_morph"); err != nil {
		return "", err
	}
	return d.leds.SetMorph(ctx, color, durationMs)
}

func (d *Dell) SetPulseEffect(ctx context.Context, color settings.RGB, durationMs uint16) (string, error) {
	if err := d.requireKeyboard("set_pulse_effect"); err != nil {
		return "", err
	}
	return d.leds.SetPulseEffect(ctx, color, durationMs)
}

func (d *Dell) SetZoneColors(ctx context.Context, zones [settings.ZoneCount]settings.RGB) (string, error) {
	if err := d.requireKeyboard("set_zone_colors"); err != nil {
		return "", err
	}
	return d.leds.SetZoneColors(ctx, zones)
}

func (d *Dell) TurnOffLeds(ctx context.Context) (string, error) {
	if err := d.requireKeyboard("turn_off_leds"); err != nil {
		return "", err
	}
	return d.leds.TurnOffLeds(ctx)
}

func (d *Dell) SetSpectrum(ctx context.Context, durationMs uint16) (string, error) {
	if err := d.requireKeyboard("set_spectrum"); err != nil {
		return "", err
	}
	return d.leds.SetSpectrum(ctx, durationMs)
}

func (d *Dell) SetRainbow(ctx context.Context, durationMs uint16) (string, error) {
	if err := d.requireKeyboard("set_rainbow"); err != nil {
		return "", err
	}
	return d.leds.SetRainbow(ctx, durationMs)
}

// lockAcpi acquires the ACPI lock, callers must release it when no error is returned.
func (d *Dell) lockAcpi(op string) error {
	d.mu.Lock()
	if !d.powerAvailable {
		d.mu.Unlock()
		return newCommandError(op, "ACPI not available")
	}
	return nil
}

func (d *Dell) SetPowerMode(ctx context.Context, mode settings.PowerMode) (string, error) {
	const op = "set_power_mode"
	if err := d.lockAcpi(op); err != nil {
		return "", err
	}
	defer d.mu.Unlock()

	// an active G mode overrides the thermal table
	if enabled, err := d.acpi.GModeEnabled(); err != nil {
		ui.Debug("Unable to read G mode state: %v", err)
	} else if enabled {
		if err := d.acpi.ToggleGMode(); err != nil {
			ui.Warning("Unable to disable G mode: %v", err)
		}
	}

	if err := d.acpi.SetPowerMode(mode); err != nil {
		return "", wrapCommandError(op, err)
	}

	if mode != settings.PowerModePerformance {
		return fmt.Sprintf("Power mode: %s", mode), nil
	}

	if err := wait(ctx, d.modeSwitchDelay); err != nil {
		return "", wrapCommandError(op, err)
	}
	succeeded, errs := d.setBothFans(0xff, 0xff)
	if succeeded > 0 {
		return fmt.Sprintf("Performance mode enabled, fans at 100%% (%d/2 succeeded)", succeeded), nil
	}
	return fmt.Sprintf("Performance mode enabled (fans not supported: %s)", strings.Join(errs, ", ")), nil
}

func (d *Dell) SetFanBoost(ctx context.Context, cpuPercent, gpuPercent uint8) (string, error) {
	const op = "set_fan_boost"
	if err := d.lockAcpi(op); err != nil {
		return "", err
	}
	defer d.mu.Unlock()

	// fan targets are only honored in the manual thermal table
	if err := d.acpi.SetPowerMode(settings.PowerModeManual); err != nil {
		ui.Debug("Unable to switch to manual mode before setting fans: %v", err)
	}
	if err := wait(ctx, d.modeSwitchDelay); err != nil {
		return "", wrapCommandError(op, err)
	}

	succeeded, errs := d.setBothFans(percentToBoost(cpuPercent), percentToBoost(gpuPercent))
	if succeeded == 0 {
		return "", newCommandError(op,
			"Manual fan control is not available on this system, use the presets or check the ACPI permissions. Errors: %s",
			strings.Join(errs, ", "))
	}
	return fmt.Sprintf("Fans set: CPU %d%%, GPU %d%% (%d/2 succeeded)", cpuPercent, gpuPercent, succeeded), nil
}

func (d *Dell) setBothFans(cpuBoost, gpuBoost uint8) (succeeded int, errs []string) {
	if err := d.acpi.SetFanBoost(fanCpu, cpuBoost); err != nil {
		errs = append(errs, fmt.Sprintf("CPU fan: %v", err))
	} else {
		succeeded++
	}
	if err := d.acpi.SetFanBoost(fanGpu, gpuBoost); err != nil {
		errs = append(errs, fmt.Sprintf("GPU fan: %v", err))
	} else {
		succeeded++
	}
	return succeeded, errs
}

func (d *Dell) ToggleTurbo(ctx context.Context) (string, error) {
	const op = "toggle_turbo"
	if err := d.lockAcpi(op); err != nil {
		return "", err
	}
	defer d.mu.Unlock()

	if err := d.acpi.ToggleGMode(); err != nil {
		return "", wrapCommandError(op, err)
	}
	enabled, err := d.acpi.GModeEnabled()
	if err != nil {
		return "Turbo mode toggled", nil
	}
	if enabled {
		return "Turbo mode enabled", nil
	}
	return "Turbo mode disabled", nil
}

func (d *Dell) GetSensors(ctx context.Context) (device.SensorSnapshot, error) {
	const op = "get_sensors"
	if err := d.lockAcpi(op); err != nil {
		return device.SensorSnapshot{}, err
	}
	defer d.mu.Unlock()

	var failures []string
	snapshot := device.SensorSnapshot{Time: time.Now()}

	var err error
	if snapshot.Fan1Rpm, err = d.acpi.GetFanRpm(fanCpu); err != nil {
		failures = append(failures, fmt.Sprintf("fan1: %v", err))
	}
	if snapshot.Fan2Rpm, err = d.acpi.GetFanRpm(fanGpu); err != nil {
		failures = append(failures, fmt.Sprintf("fan2: %v", err))
	}
	if snapshot.CpuTemp, err = d.acpi.GetCpuTemp(); err != nil {
		failures = append(failures, fmt.Sprintf("cpu: %v", err))
	}
	if snapshot.GpuTemp, err = d.acpi.GetGpuTemp(); err != nil {
		failures = append(failures, fmt.Sprintf("gpu: %v", err))
	}
	if len(failures) == 4 {
		return device.SensorSnapshot{}, newCommandError(op, "Sensor read failed: %s", strings.Join(failures, ", "))
	}

	if snapshot.CpuTemp <= 0 {
		if value, ok := d.temperature(d.fallback.CpuChip); ok {
			snapshot.CpuTemp = value
		}
	}
	if snapshot.GpuTemp <= 0 {
		if value, ok := d.temperature(d.fallback.GpuChip); ok {
			snapshot.GpuTemp = value
		}
	}
	return snapshot, nil
}

func (d *Dell) Supports(feature Feature) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch feature {
	case FeatureKeyboard:
		return d.keyboardPresent
	case FeaturePower:
		return d.powerAvailable
	case FeatureSpectrum:
		return d.keyboardPresent && d.leds.SupportsSpectrum()
	case FeatureRainbow:
		return d.keyboardPresent && d.leds.SupportsRainbow()
	default:
		return false
	}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
