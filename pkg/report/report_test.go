package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skarahan/ferrysim/pkg/config"
	"github.com/skarahan/ferrysim/pkg/simulation"
)

func sampleResult() simulation.Result {
	// Five vehicles entered: one car transported, one car dropped, one car
	// remaining, plus a minibus and a truck transported.
	return simulation.Result{
		Duration:    95 * time.Second,
		Trips:       6,
		Transported: 3,
		Expected:    5,
		Dropped:     1,
		ExpectedByClass: map[simulation.Class]int{
			simulation.Car: 3, simulation.Minibus: 1, simulation.Truck: 1,
		},
		TransportedByClass: map[simulation.Class]int{
			simulation.Car: 1, simulation.Minibus: 1, simulation.Truck: 1,
		},
		Remaining: simulation.Remaining{
			SideAQueued: 1,
			FerrySide:   config.SideA,
			ByClass:     map[simulation.Class]int{simulation.Car: 1},
		},
	}
}

func TestGenerateSummary(t *testing.T) {
	out := NewGenerator().GenerateSummary(sampleResult())

	assert.Contains(t, out, "Ferry Simulation Report")
	assert.Contains(t, out, "Number of trips completed: 6")
	assert.Contains(t, out, "Total: 3 / 5 vehicles (60.0%)")
	assert.Contains(t, out, "Cars: 1 / 3 vehicles")
	assert.Contains(t, out, "Minibuses: 1 / 1 vehicles")
	assert.Contains(t, out, "Trucks: 1 / 1 vehicles")
	assert.Contains(t, out, "Dropped on overflow: 1 vehicles")
	assert.Contains(t, out, "Total remaining vehicles: 1")
	assert.Contains(t, out, "Current ferry location: Side_A")
	// Quota entered is 3*1 + 1*2 + 1*3 = 8; the dropped car's quota counts
	// neither as transported nor as remaining.
	assert.Contains(t, out, "Total quotas transported: 6 / 8 (75.0%)")
	assert.Contains(t, out, "Total remaining quotas: 1 / 8")
}

func TestGenerateVehicleTable(t *testing.T) {
	records := []simulation.VehicleRecord{
		{
			ID: 1, Class: simulation.Car, Quota: 1, Origin: config.SideA,
			OutboundJourneyTime: 8 * time.Second,
			ReturnJourneyTime:   6 * time.Second,
			RoundTripTime:       40 * time.Second,
			TimeAtDestination:   20 * time.Second,
			OutboundTrip:        1, ReturnTrip: 4,
			CompletedRoundTrip: true,
		},
		{
			ID: 2, Class: simulation.Truck, Quota: 3, Origin: config.SideB,
			OutboundJourneyTime: 12 * time.Second,
			OutboundTrip:        2,
		},
		{
			ID: 3, Class: simulation.Minibus, Quota: 2, Origin: config.SideA,
			OutboundJourneyTime: 10 * time.Second,
			OutboundTrip:        3,
		},
	}

	out := NewGenerator().GenerateVehicleTable(records)

	assert.Contains(t, out, "Detailed Vehicle Statistics")
	assert.Contains(t, out, "CAR")
	assert.Contains(t, out, "TRUCK")
	assert.Contains(t, out, "Round trip")
	assert.Contains(t, out, "One-way")
	assert.Contains(t, out, "All vehicles (outbound): 10.0s")
	assert.Contains(t, out, "All vehicles (return): 6.0s")
	assert.Contains(t, out, "Cars (outbound): 8.0s")
	assert.Contains(t, out, "Minibuses (outbound): 10.0s")
	assert.Contains(t, out, "Trucks (outbound): 12.0s")
	assert.Contains(t, out, "Completed Round Trips: 1 / 3 (33.3%)")
}

func TestGenerateVehicleTableEmpty(t *testing.T) {
	out := NewGenerator().GenerateVehicleTable(nil)
	assert.Contains(t, out, "No vehicles completed a trip.")
}

func TestGenerateEventSummary(t *testing.T) {
	events := []simulation.Event{
		{Type: simulation.EventVehicleQueued},
		{Type: simulation.EventVehicleQueued},
		{Type: simulation.EventTollCompleted},
		{Type: simulation.EventVehicleBoarded},
		{Type: simulation.EventFerryDocked},
		{Type: simulation.EventRoundTripDone},
	}

	out := NewGenerator().GenerateEventSummary(events)

	assert.Contains(t, out, "Total Events: 6")
	assert.Contains(t, out, "Vehicles Queued: 2")
	assert.Contains(t, out, "Toll Services: 1")
	assert.Contains(t, out, "Crossings: 1")
	assert.Contains(t, out, "Round Trips: 1")
}

func TestGenerateWarnings(t *testing.T) {
	gen := NewGenerator()

	assert.Contains(t, gen.GenerateWarnings(nil), "No warnings!")

	warnings := []simulation.Event{
		{Time: time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC), Message: "queue overflow", IsWarning: true},
	}
	out := gen.GenerateWarnings(warnings)
	assert.Contains(t, out, "queue overflow")
	assert.Contains(t, out, "Total Warnings: 1")
}

func TestGenerateDetailedTimelineLimit(t *testing.T) {
	events := make([]simulation.Event, 5)
	for i := range events {
		events[i] = simulation.Event{Type: simulation.EventVehicleQueued, Message: "queued"}
	}

	out := NewGenerator().GenerateDetailedTimeline(events, 3)
	assert.Contains(t, out, "showing first 3 events")
	assert.Contains(t, out, "... and 2 more events")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{59 * time.Second, "59.0s"},
		{95 * time.Second, "1m35s"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatDuration(tc.d))
	}
}
