package sensors

import (
	"context"
	"testing"
	"time"

	"github.com/markusressel/g2go/internal/device"
	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/status"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	pterm.DisableOutput()
}

func TestFeed_PollSuccess(t *testing.T) {
	// GIVEN
	sim := gateway.NewSimulated().WithSensors(device.SensorSnapshot{Fan1Rpm: 3000, CpuTemp: 70})
	feed := NewFeed(sim, status.NewBoard(), time.Second)

	// WHEN
	snapshot, err := feed.Poll(context.Background())

	// THEN
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), snapshot.Fan1Rpm)
	last, ok := feed.Last()
	assert.True(t, ok)
	assert.Equal(t, snapshot, last)
}

func TestFeed_FailureKeepsPreviousSnapshot(t *testing.T) {
	// GIVEN
	sim := gateway.NewSimulated()
	board := status.NewBoard()
	feed := NewFeed(sim, board, time.Second)
	previous, err := feed.Poll(context.Background())
	require.NoError(t, err)
	sim.FailTimes("get_sensors", "EC busy", 1)

	// WHEN
	_, err = feed.Poll(context.Background())

	// THEN
	var transientErr *TransientError
	require.ErrorAs(t, err, &transientErr)
	last, ok := feed.Last()
	assert.True(t, ok)
	assert.Equal(t, previous, last)
	line, _ := board.Last()
	assert.True(t, line.IsError())
	assert.Contains(t, line.Message, "EC busy")
}

func TestFeed_FailsOnceThenRecovers(t *testing.T) {
	// GIVEN
	sim := gateway.NewSimulated()
	sim.FailTimes("get_sensors", "EC busy", 1)
	board := status.NewBoard()
	feed := NewFeed(sim, board, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)

	// WHEN
	go func() {
		done <- feed.Run(ctx)
	}()

	// THEN
	assert.Eventually(t, func() bool {
		_, ok := feed.Last()
		return ok
	}, time.Second, 5*time.Millisecond)
	line, _ := board.Last()
	assert.True(t, line.IsError())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("feed did not stop")
	}
	assert.GreaterOrEqual(t, sim.CallCount("get_sensors"), 2)
}

func TestFeed_DisabledWithoutPower(t *testing.T) {
	// GIVEN
	sim := gateway.NewSimulated().WithCapabilities(device.Capabilities{KeyboardSupported: true})
	feed := NewFeed(sim, status.NewBoard(), 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// WHEN
	err := feed.Run(ctx)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 0, sim.CallCount("get_sensors"))
	_, ok := feed.Last()
	assert.False(t, ok)
}

func TestFeed_SetPollingRateWhileRunning(t *testing.T) {
	// GIVEN
	sim := gateway.NewSimulated()
	feed := NewFeed(sim, status.NewBoard(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- feed.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		return sim.CallCount("get_sensors") == 1
	}, time.Second, 5*time.Millisecond)

	// WHEN
	feed.SetPollingRate(10 * time.Millisecond)

	// THEN
	assert.Eventually(t, func() bool {
		return sim.CallCount("get_sensors") >= 3
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}
