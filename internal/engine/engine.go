package engine

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/events"
	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/persistence"
	"github.com/markusressel/g2go/internal/settings"
	"github.com/markusressel/g2go/internal/status"
	"github.com/markusressel/g2go/internal/ui"
)

const (
	DisplayTurbo = "Turbo"

	notificationTitle = "Dell G-Series Controller"
)

var (
	ErrPowerNotSupported     = errors.New("power control is not available on this device")
	ErrKeyboardNotSupported  = errors.New("keyboard lighting is not available on this device")
	ErrFanControlLimited     = errors.New("manual fan control is not supported on this model, use a fan preset instead")
	ErrPowerModeNotSupported = errors.New("power mode is not available on this model")
	ErrInvalidFanPreset      = errors.New("unknown fan preset")
	ErrInvalidFanSpeed       = errors.New("fan speed must be within 0-100")
)

// Notifier delivers desktop notifications.
type Notifier interface {
	Notify(title, text string) bool
}

// Result is the outcome of an intent: the status line shown to the user and the configuration after it.
type Result struct {
	Status        status.Line            `json:"status"`
	Configuration settings.Configuration `json:"configuration"`
}

// Engine owns the authoritative configuration. Every user intent and every
// externally pushed event passes through it.
type Engine struct {
	gateway         gateway.Gateway
	store           persistence.SettingsStore
	bus             *events.Bus
	board           *status.Board
	notifier        Notifier
	modeSwitchDelay time.Duration

	// power serializes power, fan and turbo intents so hardware and configuration see the same order
	power sync.Mutex
	// lighting serializes lighting intents
	lighting sync.Mutex

	// mu guards config and caps, every configuration change is applied while holding it
	mu     sync.Mutex
	config settings.Configuration
	caps   device.Capabilities
	// turbo is the live turbo state. It is only written while holding mu.
	turbo atomic.Bool
	// unsaved is set when the store rejected a commit, config is then ahead of the store
	unsaved bool
}

func NewEngine(
	gw gateway.Gateway,
	store persistence.SettingsStore,
	bus *events.Bus,
	board *status.Board,
	notifier Notifier,
	modeSwitchDelay time.Duration,
) *Engine {
	return &Engine{
		gateway:         gw,
		store:           store,
		bus:             bus,
		board:           board,
		notifier:        notifier,
		modeSwitchDelay: modeSwitchDelay,
		config:          settings.Default(),
		caps:            device.Unknown(),
	}
}

// Start loads the persisted configuration, adopts the turbo state reported by the
// device and subscribes to external turbo toggles. The returned function unsubscribes.
func (e *Engine) Start(caps device.Capabilities) events.UnsubscribeFunc {
	e.mu.Lock()
	e.caps = caps
	e.config = e.store.Load()
	e.turbo.Store(e.config.TurboActive)
	if caps.PowerSupported && e.config.TurboActive != caps.TurboInitiallyEnabled {
		ui.Debug("Adopting turbo state reported by the device: %v", caps.TurboInitiallyEnabled)
		e.commit(settings.Set(settings.KeyTurboActive, caps.TurboInitiallyEnabled))
	}
	e.mu.Unlock()

	return e.bus.Subscribe(events.TurboToggled, func(event events.Event) {
		e.onTurboToggledExternally(event)
	})
}

// Capabilities returns the capabilities the engine was started with.
func (e *Engine) Capabilities() device.Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caps
}

// UpdateCapabilities replaces the capabilities after the device was probed again.
func (e *Engine) UpdateCapabilities(caps device.Capabilities) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.caps = caps
}

// Snapshot returns a copy of the current configuration.
func (e *Engine) Snapshot() settings.Configuration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() settings.Configuration {
	config := e.config
	config.TurboActive = e.turbo.Load()
	return config
}

// TurboActive reads the live turbo state.
func (e *Engine) TurboActive() bool {
	return e.turbo.Load()
}

// DisplayMode is the mode shown to the user. An active turbo overrides the power mode.
func (e *Engine) DisplayMode() string {
	if e.turbo.Load() {
		return DisplayTurbo
	}
	return e.Snapshot().PowerMode.String()
}

// commit merges changes into the latest persisted record and adopts the result.
// A store failure is not fatal, the change is then kept in memory only and the
// full configuration is written again by the next commit. Must hold mu.
func (e *Engine) commit(changes ...settings.Change) error {
	updated, err := e.snapshotLocked().Apply(changes...)
	if err != nil {
		return err
	}

	if e.unsaved {
		err = e.store.Save(updated)
	} else {
		var stored settings.Configuration
		if stored, err = e.store.Apply(changes...); err == nil {
			updated = stored
		}
	}
	if err != nil {
		ui.Warning("Unable to persist settings, keeping them in memory: %v", err)
	}
	e.unsaved = err != nil

	e.config = updated
	e.turbo.Store(updated.TurboActive)
	return nil
}

// Reload adopts changes written to the store by another g2go process.
// It returns false when the store already matches the current configuration.
func (e *Engine) Reload() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.snapshotLocked()
	if e.unsaved {
		if err := e.store.Save(current); err != nil {
			ui.Warning("Unable to persist settings, keeping them in memory: %v", err)
			return false
		}
		e.unsaved = false
		return false
	}

	loaded := e.store.Load()
	if reflect.DeepEqual(loaded, current) {
		return false
	}
	e.config = loaded
	e.turbo.Store(loaded.TurboActive)
	e.board.Info("Settings were changed externally and have been reloaded")
	return true
}

func (e *Engine) result(line status.Line) Result {
	return Result{
		Status:        line,
		Configuration: e.Snapshot(),
	}
}

func (e *Engine) reject(err error, format string, a ...interface{}) (Result, error) {
	return e.result(e.board.Failure(format, a...)), err
}

func (e *Engine) notify(text string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(notificationTitle, text)
}
