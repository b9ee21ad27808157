package sensors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/status"
	"github.com/markusressel/g2go/internal/ui"
)

// Source provides live telemetry.
type Source interface {
	GetSensors(ctx context.Context) (device.SensorSnapshot, error)
	Supports(feature gateway.Feature) bool
}

// TransientError is a failed poll. The next tick retries.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("sensor read failed: %v", e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// Feed polls the sensors at a fixed rate. Snapshots are only kept for display.
type Feed struct {
	source      Source
	board       *status.Board
	pollingRate time.Duration

	mu      sync.RWMutex
	last    *device.SensorSnapshot
	changed chan struct{}
}

func NewFeed(source Source, board *status.Board, pollingRate time.Duration) *Feed {
	return &Feed{
		source:      source,
		board:       board,
		pollingRate: pollingRate,
		changed:     make(chan struct{}, 1),
	}
}

// SetPollingRate changes the interval, a running feed picks it up immediately.
func (f *Feed) SetPollingRate(pollingRate time.Duration) {
	f.mu.Lock()
	f.pollingRate = pollingRate
	f.mu.Unlock()

	select {
	case f.changed <- struct{}{}:
	default:
	}
}

func (f *Feed) currentPollingRate() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pollingRate
}

// Run polls until ctx is done. Without power control it only waits for ctx.
func (f *Feed) Run(ctx context.Context) error {
	if !f.source.Supports(gateway.FeaturePower) {
		ui.Info("Power control not available, sensor feed disabled")
		<-ctx.Done()
		return nil
	}

	_, _ = f.Poll(ctx)

	tick := time.NewTicker(f.currentPollingRate())
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.changed:
			rate := f.currentPollingRate()
			ui.Debug("Sensor polling rate changed to %s", rate)
			tick.Reset(rate)
		case <-tick.C:
			_, _ = f.Poll(ctx)
		}
	}
}

// Poll reads a single snapshot. A failure is posted as status and keeps the previous snapshot.
func (f *Feed) Poll(ctx context.Context) (device.SensorSnapshot, error) {
	snapshot, err := f.source.GetSensors(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return device.SensorSnapshot{}, ctx.Err()
		}
		transientErr := &TransientError{Cause: err}
		f.board.Failure("%v", transientErr)
		return device.SensorSnapshot{}, transientErr
	}
	ui.Debug("Sensors: %s", snapshot)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = &snapshot
	return snapshot, nil
}

// Last returns the most recent successful snapshot.
func (f *Feed) Last() (device.SensorSnapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.last == nil {
		return device.SensorSnapshot{}, false
	}
	return *f.last, true
}
