package hotkey

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/holoplot/go-evdev"
	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/events"
	"github.com/markusressel/g2go/internal/ui"
	"golang.org/x/exp/slices"
)

const (
	keyPressed = 1

	origin = "hotkey"
)

// inputDevice is the part of *evdev.InputDevice used by the monitor.
type inputDevice interface {
	Path() string
	CapableEvents(t evdev.EvType) []evdev.EvCode
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Monitor publishes events.TurboToggled whenever the turbo key is pressed.
type Monitor struct {
	inputPath string
	keyCode   evdev.EvCode
	bus       *events.Bus

	list func() ([]evdev.InputPath, error)
	open func(path string) (inputDevice, error)
}

func NewMonitor(config configuration.HotkeyConfig, bus *events.Bus) *Monitor {
	return &Monitor{
		inputPath: config.InputPath,
		keyCode:   evdev.EvCode(config.KeyCode),
		bus:       bus,
		list:      evdev.ListDevicePaths,
		open: func(path string) (inputDevice, error) {
			return evdev.Open(path)
		},
	}
}

// FindDevices opens all event devices below the input path that are able to emit the turbo key.
// The caller must close the returned devices.
func (m *Monitor) FindDevices() ([]inputDevice, error) {
	paths, err := m.list()
	if err != nil {
		return nil, err
	}
	var devices []inputDevice
	for _, path := range paths {
		if filepath.Dir(path.Path) != filepath.Clean(m.inputPath) {
			continue
		}
		device, err := m.open(path.Path)
		if err != nil {
			ui.Debug("Unable to open %s (%s): %v", path.Path, path.Name, err)
			continue
		}
		if !slices.Contains(device.CapableEvents(evdev.EV_KEY), m.keyCode) {
			_ = device.Close()
			continue
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// Run listens on all matching devices until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	devices, err := m.FindDevices()
	if err != nil {
		ui.Warning("Unable to list input devices, turbo hotkey disabled: %v", err)
	}
	if len(devices) == 0 {
		ui.Warning("No input device provides key code %d, turbo hotkey disabled", m.keyCode)
		<-ctx.Done()
		return nil
	}

	var wg sync.WaitGroup
	for _, device := range devices {
		ui.Info("Listening for turbo hotkey on %s", device.Path())
		wg.Add(1)
		go func(device inputDevice) {
			defer wg.Done()
			if err := m.listen(device); err != nil {
				ui.Warning("Stopped listening on %s: %v", device.Path(), err)
			}
		}(device)
	}

	<-ctx.Done()
	for _, device := range devices {
		_ = device.Close()
	}
	wg.Wait()
	return nil
}

// listen reads input events from device until it is closed or exhausted.
func (m *Monitor) listen(device inputDevice) error {
	for {
		event, err := device.ReadOne()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
		if event.Type == evdev.EV_KEY && event.Code == m.keyCode && event.Value == keyPressed {
			ui.Debug("Turbo hotkey pressed")
			m.bus.Publish(events.NewTurboToggled(origin))
		}
	}
}
