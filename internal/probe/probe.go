package probe

import (
	"context"
	"errors"
	"strings"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/status"
)

// Result is the outcome of a probe. Exactly one terminal status line is always set.
type Result struct {
	Capabilities device.Capabilities `json:"capabilities"`
	Status       status.Line         `json:"status"`
	SetupNeeded  bool                `json:"setupNeeded"`
	Err          error               `json:"-"`
}

// Prober determines which subsystems of the device are usable.
type Prober struct {
	gateway gateway.SetupGateway
	board   *status.Board
}

func NewProber(gw gateway.SetupGateway, board *status.Board) *Prober {
	return &Prober{
		gateway: gw,
		board:   board,
	}
}

// Probe runs device initialization, falling back to USB enumeration and
// finally to the permission state to tell apart a missing device from a missing setup.
func (p *Prober) Probe(ctx context.Context) Result {
	caps, err := p.gateway.InitDevice(ctx)
	if err == nil && caps.PowerSupported {
		return p.success(caps, "Device ready: %s", caps.Model)
	}

	initErr := err
	if initErr != nil {
		caps = device.Unknown()
	}

	if devices, ok := p.checkUsb(ctx); ok {
		return p.success(caps, "Compatible devices found: %s", strings.Join(devices, ", "))
	}

	answer, err := p.gateway.CheckPermissions(ctx)
	if err != nil {
		return p.failure(caps, &InitializationError{Cause: err}, "Permission check failed: %v", err)
	}

	configured, missing, err := gateway.ParsePermissions(answer)
	switch {
	case err != nil:
		return p.failure(caps, &InitializationError{Cause: err}, "Permission check failed: %v", err)
	case configured:
		if devices, ok := p.checkUsb(ctx); ok {
			return p.success(caps, "Compatible devices found: %s", strings.Join(devices, ", "))
		}
		cause := initErr
		if cause == nil {
			cause = errors.New("no compatible device found")
		}
		return p.failure(caps, &InitializationError{Cause: cause}, "Device not reachable although permissions are configured: %v", cause)
	default:
		permissionErr := &PermissionError{Missing: missing}
		return p.failure(caps, permissionErr, "Setup required, %v", permissionErr)
	}
}

func (p *Prober) checkUsb(ctx context.Context) ([]string, bool) {
	devices, err := p.gateway.CheckUsbDevices(ctx)
	if err != nil || len(devices) == 0 {
		return nil, false
	}
	return devices, true
}

func (p *Prober) success(caps device.Capabilities, format string, a ...interface{}) Result {
	return Result{
		Capabilities: caps,
		Status:       p.board.Success(format, a...),
	}
}

func (p *Prober) failure(caps device.Capabilities, err error, format string, a ...interface{}) Result {
	return Result{
		Capabilities: caps,
		Status:       p.board.Failure(format, a...),
		SetupNeeded:  true,
		Err:          err,
	}
}

// RunSetup invokes the privileged setup script. A restart is required afterwards.
func (p *Prober) RunSetup(ctx context.Context) (string, error) {
	result, err := p.gateway.RunSetupScript(ctx)
	if err != nil {
		setupErr := &SetupError{Cause: err}
		p.board.Failure("%v", setupErr)
		return "", setupErr
	}
	p.board.Success("%s", result)
	return result, nil
}
