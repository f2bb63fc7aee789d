package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSide(booths, queueBound, waitingBound int) (*Side, *EventLog) {
	events := NewEventLog()
	return NewSide("Side_A", booths, queueBound, waitingBound, events), events
}

func TestSidePipelineFlow(t *testing.T) {
	side, _ := newTestSide(2, 10, 10)
	v := NewVehicle(1, Truck)

	require.True(t, side.EnqueueArrival(v))
	assert.Equal(t, "Side_A", v.Origin)
	assert.False(t, v.Leg(LegOutbound).Arrival.IsZero())

	queued, waiting, inBooth := side.Counts()
	assert.Equal(t, [3]int{1, 0, 0}, [3]int{queued, waiting, inBooth})

	claimed, ok := side.claimNext(0)
	require.True(t, ok)
	assert.Same(t, v, claimed)
	assert.Equal(t, 1, v.BoothID)
	assert.False(t, v.Leg(LegOutbound).TollEntry.IsZero())

	// The vehicle lives in exactly one container at a time.
	queued, waiting, inBooth = side.Counts()
	assert.Equal(t, [3]int{0, 0, 1}, [3]int{queued, waiting, inBooth})

	require.True(t, side.admitToWaitingArea(0, v))
	assert.False(t, v.Leg(LegOutbound).WaitingEntry.IsZero())

	queued, waiting, inBooth = side.Counts()
	assert.Equal(t, [3]int{0, 1, 0}, [3]int{queued, waiting, inBooth})
}

func TestSideClaimNext(t *testing.T) {
	side, _ := newTestSide(1, 10, 10)

	_, ok := side.claimNext(0)
	assert.False(t, ok, "empty queue")

	first := NewVehicle(1, Car)
	second := NewVehicle(2, Minibus)
	side.EnqueueArrival(first)
	side.EnqueueArrival(second)

	claimed, ok := side.claimNext(0)
	require.True(t, ok)
	assert.Same(t, first, claimed, "FIFO order")

	_, ok = side.claimNext(0)
	assert.False(t, ok, "booth slot already occupied")
}

func TestSideQueueOverflowDropsVehicle(t *testing.T) {
	side, events := newTestSide(1, 1, 1)

	assert.True(t, side.EnqueueArrival(NewVehicle(1, Car)))
	assert.False(t, side.EnqueueArrival(NewVehicle(2, Car)), "queue at bound")

	warnings := events.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, EventVehicleDropped, warnings[0].Type)

	queued, _, _ := side.Counts()
	assert.Equal(t, 1, queued, "dropped vehicle is not queued")
}

func TestSideWaitingAreaOverflowDropsVehicle(t *testing.T) {
	side, events := newTestSide(2, 10, 1)

	for id, class := range map[int]Class{1: Car, 2: Minibus} {
		require.True(t, side.EnqueueArrival(NewVehicle(id, class)))
	}

	first, ok := side.claimNext(0)
	require.True(t, ok)
	second, ok := side.claimNext(1)
	require.True(t, ok)

	assert.True(t, side.admitToWaitingArea(0, first))
	assert.False(t, side.admitToWaitingArea(1, second), "waiting area at bound")
	require.NotEmpty(t, events.Warnings())
}

func TestSideCandidateQuotas(t *testing.T) {
	side, _ := newTestSide(1, 10, 10)

	waitingV := NewVehicle(1, Minibus)
	boothV := NewVehicle(2, Truck)
	queuedV := NewVehicle(3, Car)

	require.True(t, side.EnqueueArrival(waitingV))
	claimed, ok := side.claimNext(0)
	require.True(t, ok)
	require.True(t, side.admitToWaitingArea(0, claimed))

	require.True(t, side.EnqueueArrival(boothV))
	_, ok = side.claimNext(0)
	require.True(t, ok)

	require.True(t, side.EnqueueArrival(queuedV))

	// Waiting area first, then booths, then the queue.
	assert.Equal(t, []int{2, 3, 1}, side.CandidateQuotas())
	assert.True(t, side.HasWork())
}

func TestSideTakeWaiting(t *testing.T) {
	side, _ := newTestSide(1, 10, 10)

	vehicles := []*Vehicle{NewVehicle(1, Truck), NewVehicle(2, Car), NewVehicle(3, Minibus)}
	for _, v := range vehicles {
		require.True(t, side.EnqueueArrival(v))
		claimed, ok := side.claimNext(0)
		require.True(t, ok)
		require.True(t, side.admitToWaitingArea(0, claimed))
	}

	// Budget of 4 quotas: the truck and the car fit, the minibus stays.
	budget := 4
	taken := side.TakeWaiting(func(v *Vehicle) bool {
		if v.Quota() <= budget {
			budget -= v.Quota()
			return true
		}
		return false
	})

	require.Len(t, taken, 2)
	assert.Equal(t, 1, taken[0].ID)
	assert.Equal(t, 2, taken[1].ID)
	assert.Equal(t, 1, side.WaitingCount())
}
