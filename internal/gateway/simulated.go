package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/settings"
)

const SimulatedModel = "Simulated G15"

// Call is a recorded gateway call.
type Call struct {
	Op   string
	Args string
}

func (c Call) String() string {
	if c.Args == "" {
		return c.Op
	}
	return fmt.Sprintf("%s(%s)", c.Op, c.Args)
}

type failure struct {
	message   string
	remaining int
}

// SimulatedState is the hardware state of a Simulated device.
type SimulatedState struct {
	PowerMode settings.PowerMode
	Fans      settings.FanSpeeds
	GMode     bool
	Lighting  string
}

// Simulated is an in-memory device. It records every call and can be told to fail specific operations.
type Simulated struct {
	mu sync.Mutex

	capabilities device.Capabilities
	devices      []string
	permissions  string
	sensors      device.SensorSnapshot
	spectrum     bool
	rainbow      bool

	calls    []Call
	failures map[string]*failure
	state    SimulatedState
}

func NewSimulated() *Simulated {
	return &Simulated{
		capabilities: device.Capabilities{
			Model:             SimulatedModel,
			KeyboardSupported: true,
			PowerSupported:    true,
			PowerModes:        settings.NewPowerModeSet(settings.PowerModes()...),
		},
		devices:     []string{formatDevice(0x187c, 0x0550, "Simulated keyboard")},
		permissions: PermissionsConfigured,
		sensors: device.SensorSnapshot{
			Fan1Rpm: 2400,
			Fan2Rpm: 2200,
			CpuTemp: 52,
			GpuTemp: 45,
		},
		failures: map[string]*failure{},
		state: SimulatedState{
			PowerMode: settings.PowerModeBalanced,
			Lighting:  "off",
		},
	}
}

// WithCapabilities sets the answer of InitDevice. The G mode state follows TurboInitiallyEnabled.
func (s *Simulated) WithCapabilities(caps device.Capabilities) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capabilities = caps
	s.state.GMode = caps.TurboInitiallyEnabled
	return s
}

func (s *Simulated) WithDevices(devices ...string) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices = devices
	return s
}

func (s *Simulated) WithPermissions(answer string) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissions = answer
	return s
}

func (s *Simulated) WithSensors(snapshot device.SensorSnapshot) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors = snapshot
	return s
}

// WithEffects enables the spectrum and rainbow effects.
func (s *Simulated) WithEffects(spectrum, rainbow bool) *Simulated {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spectrum = spectrum
	s.rainbow = rainbow
	return s
}

// Fail makes every call of op fail with message.
func (s *Simulated) Fail(op string, message string) {
	s.FailTimes(op, message, 0)
}

// FailTimes makes the next times calls of op fail with message. times <= 0 fails forever.
func (s *Simulated) FailTimes(op string, message string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = &failure{message: message, remaining: times}
}

// Recover removes all failures of op.
func (s *Simulated) Recover(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
}

// Calls returns all recorded calls in order.
func (s *Simulated) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]Call, len(s.calls))
	copy(result, s.calls)
	return result
}

// CallCount returns how often op was called.
func (s *Simulated) CallCount(op string) int {
	count := 0
	for _, call := range s.Calls() {
		if call.Op == op {
			count++
		}
	}
	return count
}

func (s *Simulated) State() SimulatedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// record stores the call and returns the injected failure, if any. Must be called with mu held.
func (s *Simulated) record(op string, args string) error {
	s.calls = append(s.calls, Call{Op: op, Args: args})
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		if f.remaining == 0 {
			delete(s.failures, op)
		}
	}
	return newCommandError(op, "%s", f.message)
}

func (s *Simulated) InitDevice(ctx context.Context) (device.Capabilities, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("init_device", ""); err != nil {
		return device.Unknown(), err
	}
	caps := s.capabilities
	caps.TurboInitiallyEnabled = s.state.GMode
	return caps, nil
}

func (s *Simulated) CheckUsbDevices(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("check_usb_devices", ""); err != nil {
		return nil, err
	}
	if len(s.devices) == 0 {
		return nil, newCommandError("check_usb_devices", "No compatible Dell device found, check the USB permissions")
	}
	return append([]string{}, s.devices...), nil
}

func (s *Simulated) CheckPermissions(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("check_permissions", ""); err != nil {
		return "", err
	}
	return s.permissions, nil
}

func (s *Simulated) RunSetupScript(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("run_setup_script", ""); err != nil {
		return "", err
	}
	s.permissions = PermissionsConfigured
	return "Setup completed, restart the system to apply the changes", nil
}

func (s *Simulated) lighting(op string, args string, effect string, result string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(op, args); err != nil {
		return "", err
	}
	if !s.capabilities.KeyboardSupported {
		return "", newCommandError(op, "Keyboard not available")
	}
	s.state.Lighting = effect
	return result, nil
}

func (s *Simulated) SetStaticColor(ctx context.Context, color settings.RGB) (string, error) {
	return s.lighting("set_static_color", color.String(), "static "+color.Hex(),
		fmt.Sprintf("Static color set to RGB(%s)", color))
}

func (s *Simulated) SetMorph(ctx context.Context, color settings.RGB, durationMs uint16) (string, error) {
	return s.lighting("set_morph", fmt.Sprintf("%s,%d", color, durationMs), "morph "+color.Hex(),
		fmt.Sprintf("Morph effect applied (%d ms)", durationMs))
}

func (s *Simulated) SetPulseEffect(ctx context.Context, color settings.RGB, durationMs uint16) (string, error) {
	return s.lighting("set_pulse_effect", fmt.Sprintf("%s,%d", color, durationMs), "breathing "+color.Hex(),
		fmt.Sprintf("Breathing effect applied (%d ms)", durationMs))
}

func (s *Simulated) SetZoneColors(ctx context.Context, zones [settings.ZoneCount]settings.RGB) (string, error) {
	args := ""
	for i, zone := range zones {
		if i > 0 {
			args += ";"
		}
		args += zone.String()
	}
	return s.lighting("set_zone_colors", args, "zones", "Zone colors applied")
}

func (s *Simulated) TurnOffLeds(ctx context.Context) (string, error) {
	return s.lighting("turn_off_leds", "", "off", "LEDs turned off")
}

func (s *Simulated) SetSpectrum(ctx context.Context, durationMs uint16) (string, error) {
	if !s.Supports(FeatureSpectrum) {
		return "", newCommandError("set_spectrum", "No command configured for set_spectrum")
	}
	return s.lighting("set_spectrum", fmt.Sprint(durationMs), "spectrum",
		fmt.Sprintf("Spectrum effect applied (%d ms)", durationMs))
}

func (s *Simulated) SetRainbow(ctx context.Context, durationMs uint16) (string, error) {
	if !s.Supports(FeatureRainbow) {
		return "", newCommandError("set_rainbow", "No command configured for set_rainbow")
	}
	return s.lighting("set_rainbow", fmt.Sprint(durationMs), "rainbow",
		fmt.Sprintf("Rainbow effect applied (%d ms)", durationMs))
}

func (s *Simulated) SetPowerMode(ctx context.Context, mode settings.PowerMode) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const op = "set_power_mode"
	if err := s.record(op, mode.String()); err != nil {
		return "", err
	}
	if !s.capabilities.PowerSupported {
		return "", newCommandError(op, "ACPI not available")
	}
	if !s.capabilities.SupportsPowerMode(mode) {
		return "", newCommandError(op, "power mode %s is not available", mode)
	}
	s.state.GMode = false
	s.state.PowerMode = mode
	if mode == settings.PowerModePerformance {
		s.state.Fans = settings.FanSpeeds{Cpu: 100, Gpu: 100}
		return "Performance mode enabled, fans at 100% (2/2 succeeded)", nil
	}
	return fmt.Sprintf("Power mode: %s", mode), nil
}

func (s *Simulated) SetFanBoost(ctx context.Context, cpuPercent, gpuPercent uint8) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const op = "set_fan_boost"
	if err := s.record(op, fmt.Sprintf("%d,%d", cpuPercent, gpuPercent)); err != nil {
		return "", err
	}
	if !s.capabilities.PowerSupported {
		return "", newCommandError(op, "ACPI not available")
	}
	s.state.Fans = settings.FanSpeeds{Cpu: cpuPercent, Gpu: gpuPercent}
	return fmt.Sprintf("Fans set: CPU %d%%, GPU %d%% (2/2 succeeded)", cpuPercent, gpuPercent), nil
}

func (s *Simulated) ToggleTurbo(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const op = "toggle_turbo"
	if err := s.record(op, ""); err != nil {
		return "", err
	}
	if !s.capabilities.PowerSupported {
		return "", newCommandError(op, "ACPI not available")
	}
	s.state.GMode = !s.state.GMode
	if s.state.GMode {
		return "Turbo mode enabled", nil
	}
	return "Turbo mode disabled", nil
}

// PressTurboKey flips the G mode the way the hardware hotkey does, without recording a call.
func (s *Simulated) PressTurboKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.GMode = !s.state.GMode
}

func (s *Simulated) GetSensors(ctx context.Context) (device.SensorSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const op = "get_sensors"
	if err := s.record(op, ""); err != nil {
		return device.SensorSnapshot{}, err
	}
	if !s.capabilities.PowerSupported {
		return device.SensorSnapshot{}, newCommandError(op, "ACPI not available")
	}
	snapshot := s.sensors
	snapshot.Time = time.Now()
	return snapshot, nil
}

func (s *Simulated) Supports(feature Feature) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch feature {
	case FeatureKeyboard:
		return s.capabilities.KeyboardSupported
	case FeaturePower:
		return s.capabilities.PowerSupported
	case FeatureSpectrum:
		return s.capabilities.KeyboardSupported && s.spectrum
	case FeatureRainbow:
		return s.capabilities.KeyboardSupported && s.rainbow
	default:
		return false
	}
}
