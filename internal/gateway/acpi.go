package gateway

import (
	"errors"
	"fmt"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/markusressel/g2go/internal/util"
)

const (
	IntelAcpiMethod = `\_SB.AMWW.WMAX`
	AmdAcpiMethod   = `\_SB.AMW3.WMAX`

	// acpiNoValue is returned by the WMAX method for unavailable readings.
	acpiNoValue = 0xffffffff

	fanCpu = 0x32
	fanGpu = 0x33
)

// acpiCommand is a WMAX call: an operation and up to three arguments.
type acpiCommand struct {
	name string
	op   byte
	args [3]byte
}

func (c acpiCommand) with(index int, arg byte) acpiCommand {
	c.args[index] = arg
	return c
}

// encode renders the acpi_call argument string, e.g. "0 0x15 {0x01, 0xa0, 0x00, 0x00}".
func (c acpiCommand) encode() string {
	return fmt.Sprintf("0 0x%02x {0x%02x, 0x%02x, 0x%02x, 0x00}", c.op, c.args[0], c.args[1], c.args[2])
}

var (
	cmdGetLaptopModel = acpiCommand{name: "get_laptop_model", op: 0x1a, args: [3]byte{0x02, 0x02}}
	cmdSetPowerMode   = acpiCommand{name: "set_power_mode", op: 0x15, args: [3]byte{0x01}}
	cmdToggleGMode    = acpiCommand{name: "toggle_G_mode", op: 0x25, args: [3]byte{0x01}}
	cmdGetGMode       = acpiCommand{name: "get_G_mode", op: 0x25, args: [3]byte{0x02}}
	cmdSetFanBoost    = acpiCommand{name: "set_fan_boost", op: 0x15, args: [3]byte{0x02}}
	cmdGetFanRpm      = acpiCommand{name: "get_fan_rpm", op: 0x14, args: [3]byte{0x05}}
	cmdGetCpuTemp     = acpiCommand{name: "get_cpu_temp", op: 0x14, args: [3]byte{0x04, 0x01}}
	cmdGetGpuTemp     = acpiCommand{name: "get_gpu_temp", op: 0x14, args: [3]byte{0x04, 0x06}}
)

// powerModeCodes maps power modes to their thermal table codes.
var powerModeCodes = map[settings.PowerMode]byte{
	settings.PowerModeBalanced:    0xa0,
	settings.PowerModePerformance: 0xa1,
	settings.PowerModeQuiet:       0xa3,
	settings.PowerModeManual:      0x00,
}

var errAcpiUnavailable = errors.New("ACPI interface not available, is the acpi_call module loaded?")

// AcpiController talks to the Dell WMAX method through acpi_call.
type AcpiController struct {
	call   util.AcpiCallFunc
	method string
	model  device.Model
	known  bool
}

// NewAcpiController creates a controller. An empty method is autodetected by Detect.
func NewAcpiController(call util.AcpiCallFunc, method string) *AcpiController {
	return &AcpiController{
		call:   call,
		method: method,
	}
}

// Detect determines the laptop model and the WMAX method path.
// The DMI product name is preferred, ACPI probing of both method paths is the fallback.
// An error means the ACPI interface is not usable at all.
func (a *AcpiController) Detect(productName string) error {
	configuredMethod := a.method

	if model, ok := device.FindModel(productName); ok {
		a.model = model
		a.known = true
		if configuredMethod == "" {
			a.method = methodFor(model.Amd)
		}
		if _, err := a.execute(cmdGetLaptopModel); err != nil {
			ui.Warning("ACPI probe for %s failed: %v", model.Name, err)
			return errAcpiUnavailable
		}
		ui.Info("Model detected: %s (%s)", model.Name, a.method)
		return nil
	}

	if device.IsGSeries(productName) {
		ui.Info("Generic Dell G-series detected, probing ACPI interface...")
	}

	candidates := []bool{false, true}
	if configuredMethod != "" {
		candidates = []bool{configuredMethod == AmdAcpiMethod}
	}

	reachable := ""
	for _, amd := range candidates {
		a.method = configuredMethod
		if a.method == "" {
			a.method = methodFor(amd)
		}
		result, err := a.execute(cmdGetLaptopModel)
		if err != nil {
			ui.Debug("ACPI model probe on %s failed: %v", a.method, err)
			continue
		}
		if reachable == "" {
			reachable = a.method
		}
		if model, ok := device.FindModelByProbe(amd, result); ok {
			a.model = model
			a.known = true
			ui.Info("Model detected: %s (%s)", model.Name, a.method)
			return nil
		}
	}

	if reachable == "" {
		return errAcpiUnavailable
	}
	a.method = reachable
	ui.Info("Could not determine specific model, using generic configuration")
	return nil
}

func methodFor(amd bool) string {
	if amd {
		return AmdAcpiMethod
	}
	return IntelAcpiMethod
}

func (a *AcpiController) Method() string {
	return a.method
}

// Model returns the detected model and whether it is a known one.
func (a *AcpiController) Model() (device.Model, bool) {
	return a.model, a.known
}

// PowerModes returns the power modes of the detected model.
func (a *AcpiController) PowerModes() settings.PowerModeSet {
	if a.known {
		return a.model.PowerModes
	}
	return settings.NewPowerModeSet(settings.PowerModes()...)
}

func (a *AcpiController) execute(cmd acpiCommand) (int64, error) {
	args := cmd.encode()
	ui.Debug("ACPI command [%s]: %s %s", cmd.name, a.method, args)
	result, err := a.call(a.method, args)
	if err != nil {
		return 0, err
	}
	ui.Debug("ACPI result [%s]: 0x%x", cmd.name, result)
	return result, nil
}

func (a *AcpiController) SetPowerMode(mode settings.PowerMode) error {
	code, ok := powerModeCodes[mode]
	if !ok || !a.PowerModes().Contains(mode) {
		return fmt.Errorf("power mode %s is not available, available modes: %v", mode, a.PowerModes().Modes())
	}
	_, err := a.execute(cmdSetPowerMode.with(1, code))
	return err
}

// SetFanBoost sets the boost of one fan, fan is fanCpu or fanGpu.
func (a *AcpiController) SetFanBoost(fan byte, boost uint8) error {
	_, err := a.execute(cmdSetFanBoost.with(1, fan).with(2, boost))
	return err
}

func (a *AcpiController) GetFanRpm(fan byte) (uint32, error) {
	result, err := a.execute(cmdGetFanRpm.with(1, fan))
	if err != nil {
		return 0, err
	}
	return uint32(normalizeReading(result)), nil
}

func (a *AcpiController) GetCpuTemp() (float64, error) {
	result, err := a.execute(cmdGetCpuTemp)
	if err != nil {
		return 0, err
	}
	return float64(normalizeReading(result)), nil
}

func (a *AcpiController) GetGpuTemp() (float64, error) {
	result, err := a.execute(cmdGetGpuTemp)
	if err != nil {
		return 0, err
	}
	return float64(normalizeReading(result)), nil
}

// GModeEnabled reports whether the firmware G mode (turbo) is active.
func (a *AcpiController) GModeEnabled() (bool, error) {
	result, err := a.execute(cmdGetGMode)
	if err != nil {
		return false, err
	}
	return normalizeReading(result) == 1, nil
}

func (a *AcpiController) ToggleGMode() error {
	_, err := a.execute(cmdToggleGMode)
	return err
}

func normalizeReading(value int64) int64 {
	if value == acpiNoValue || value < 0 {
		return 0
	}
	return value
}
