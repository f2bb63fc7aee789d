package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarahan/ferrysim/pkg/config"
)

// fastConfig scales the canonical delays down to milliseconds so full runs
// finish quickly under test.
func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.RunDuration = config.Duration(20 * time.Second)
	cfg.Delays = config.Delays{
		TollServiceMin:   config.Duration(time.Millisecond),
		TollServiceMax:   config.Duration(2 * time.Millisecond),
		TravelMin:        config.Duration(2 * time.Millisecond),
		TravelMax:        config.Duration(3 * time.Millisecond),
		ErrandMin:        config.Duration(5 * time.Millisecond),
		ErrandMax:        config.Duration(10 * time.Millisecond),
		UnloadPerVehicle: config.Duration(time.Millisecond),
		IdlePoll:         config.Duration(5 * time.Millisecond),
		DepartureGrace:   config.Duration(time.Millisecond),
		StatusInterval:   config.Duration(time.Second),
	}
	return cfg
}

func TestSimulatorTransportsWholeFleet(t *testing.T) {
	cfg := fastConfig()
	// The fleet's quota demand matches the capacity exactly, so the ferry
	// waits for everyone and crosses full no matter which side it starts on.
	cfg.FerryCapacity = 7
	cfg.Fleet = config.Fleet{Cars: 2, Minibuses: 1, Trucks: 1}

	sim := NewSimulator(cfg, 42)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Expected)
	assert.Equal(t, 4, result.Transported, "every vehicle completes its round trip")
	assert.Equal(t, 0, result.Dropped)
	assert.Equal(t, 0, result.Remaining.Total(), "no vehicle left inside the system")
	assert.GreaterOrEqual(t, result.Trips, 2, "at least one crossing each way")
	assert.Less(t, result.Duration, cfg.RunDuration.Std(), "run ends before the time budget")

	records := result.Records
	require.Len(t, records, 4)
	for _, record := range records {
		assert.True(t, record.CompletedRoundTrip, "vehicle %d", record.ID)
		assert.GreaterOrEqual(t, record.OutboundQueueTime, time.Duration(0))
		assert.GreaterOrEqual(t, record.ReturnQueueTime, time.Duration(0))
		assert.Greater(t, record.RoundTripTime, time.Duration(0))
		assert.GreaterOrEqual(t, record.RoundTripTime, record.OutboundJourneyTime)
		assert.Greater(t, record.ReturnTrip, record.OutboundTrip, "return crossing comes after the outbound one")
	}

	// Conservation across the whole run.
	assert.Equal(t, result.Expected, result.Transported+result.Dropped+result.Remaining.Total())
}

func TestSimulatorWaitsForArrivalWaves(t *testing.T) {
	cfg := fastConfig()
	cfg.RunDuration = config.Duration(3500 * time.Millisecond)
	cfg.Fleet = config.Fleet{Cars: 1}
	cfg.ArrivalWaves = []config.Wave{
		{Schedule: "* * * * * *", Side: config.SideA, Cars: 1},
	}

	sim := NewSimulator(cfg, 11)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	// One fleet car plus one wave car per whole second of the window: the
	// run must not end after the lone fleet car just because later wave
	// arrivals have not been injected yet.
	assert.GreaterOrEqual(t, result.Expected, 4, "wave arrivals keep the run alive")
	assert.GreaterOrEqual(t, result.Duration, 2*time.Second, "run outlasts the scheduled waves")
	assert.GreaterOrEqual(t, result.Transported, 4,
		"fleet car and early wave cars all complete")
	assert.Equal(t, result.Expected, result.Transported+result.Dropped+result.Remaining.Total())
}

func TestSimulatorTimeBudgetTruncatesRun(t *testing.T) {
	cfg := fastConfig()
	cfg.RunDuration = config.Duration(50 * time.Millisecond)
	// Errands far longer than the budget keep vehicles at the destination.
	cfg.Delays.ErrandMin = config.Duration(time.Minute)
	cfg.Delays.ErrandMax = config.Duration(time.Minute)
	cfg.Fleet = config.Fleet{Cars: 4, Minibuses: 0, Trucks: 0}

	sim := NewSimulator(cfg, 7)
	result, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Expected)
	assert.Equal(t, 0, result.Transported, "no round trip finishes inside the budget")
	assert.Equal(t, result.Expected, result.Transported+result.Dropped+result.Remaining.Total(),
		"every vehicle is accounted for in the final snapshot")
}

func TestSimulatorParentCancellation(t *testing.T) {
	cfg := fastConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := NewSimulator(cfg, 1)
	result, err := sim.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, cfg.Fleet.Total(), result.Expected)
	assert.Equal(t, result.Expected, result.Transported+result.Dropped+result.Remaining.Total())
}
