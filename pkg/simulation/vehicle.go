package simulation

import (
	"fmt"
	"time"
)

// Class identifies a vehicle kind. The numeric value doubles as the quota
// the vehicle consumes on the ferry.
type Class int

const (
	Car     Class = 1
	Minibus Class = 2
	Truck   Class = 3
)

// Quota returns the capacity units the class consumes on the ferry.
func (c Class) Quota() int {
	return int(c)
}

func (c Class) String() string {
	switch c {
	case Car:
		return "CAR"
	case Minibus:
		return "MINIBUS"
	case Truck:
		return "TRUCK"
	}
	return fmt.Sprintf("CLASS(%d)", int(c))
}

// Leg selects one direction of a vehicle's round trip.
type Leg int

const (
	LegOutbound Leg = iota
	LegReturn
)

// Progress tracks how far a vehicle has come through its round trip.
type Progress int

const (
	NotTransported Progress = iota
	OutboundComplete
	RoundTripComplete
)

// LegTimes holds the timestamps recorded during one leg of a journey.
// Within a leg they must be non-decreasing; Repair enforces that before
// any duration is derived from them.
type LegTimes struct {
	Arrival      time.Time
	TollEntry    time.Time
	WaitingEntry time.Time
	Boarding     time.Time
	Unload       time.Time
	TripNumber   int
}

// Repair clamps unset or out-of-order timestamps forward so every derived
// duration is well-formed and non-negative. floor is the earliest instant
// the leg may have started (for a return leg, the outbound unload time).
func (lt *LegTimes) Repair(floor time.Time) {
	if lt.Arrival.IsZero() || lt.Arrival.Before(floor) {
		lt.Arrival = floor
	}
	if lt.TollEntry.IsZero() || lt.TollEntry.Before(lt.Arrival) {
		lt.TollEntry = lt.Arrival
	}
	if lt.WaitingEntry.IsZero() || lt.WaitingEntry.Before(lt.TollEntry) {
		lt.WaitingEntry = lt.TollEntry
	}
	if lt.Boarding.IsZero() || lt.Boarding.Before(lt.WaitingEntry) {
		lt.Boarding = lt.WaitingEntry
	}
	if lt.Unload.IsZero() || lt.Unload.Before(lt.Boarding) {
		lt.Unload = lt.Boarding
	}
}

// QueueWait is the time spent in the arrival queue before toll processing.
func (lt *LegTimes) QueueWait() time.Duration {
	return clampedSince(lt.TollEntry, lt.Arrival)
}

// WaitingAreaWait is the time spent in the waiting area before boarding.
func (lt *LegTimes) WaitingAreaWait() time.Duration {
	return clampedSince(lt.Boarding, lt.WaitingEntry)
}

// JourneyTime is the full leg duration, arrival to unload.
func (lt *LegTimes) JourneyTime() time.Duration {
	return clampedSince(lt.Unload, lt.Arrival)
}

// clampedSince returns end-start, clamped to zero. Guards derived durations
// against clock skew and unset timestamps.
func clampedSince(end, start time.Time) time.Duration {
	if end.IsZero() || start.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start)
}

// Vehicle is a passive entity moved between containers by the workers.
// At any instant it is owned by exactly one of: a side's arrival queue, a
// toll booth slot, a side's waiting area, the ferry, or a pending errand.
// Only the owning worker mutates it.
type Vehicle struct {
	ID          int
	Class       Class
	Origin      string
	CurrentSide string
	BoothID     int
	Progress    Progress
	ErrandTime  time.Duration

	legs [2]LegTimes
}

// NewVehicle creates a vehicle of the given class.
func NewVehicle(id int, class Class) *Vehicle {
	return &Vehicle{ID: id, Class: class}
}

// Quota returns the ferry capacity units this vehicle consumes.
func (v *Vehicle) Quota() int {
	return v.Class.Quota()
}

// CurrentLeg reports which leg the vehicle is on.
func (v *Vehicle) CurrentLeg() Leg {
	if v.Progress == NotTransported {
		return LegOutbound
	}
	return LegReturn
}

// Leg returns the timestamp set for the given leg.
func (v *Vehicle) Leg(leg Leg) *LegTimes {
	return &v.legs[leg]
}

// ResetReturnLeg clears all return-leg timestamps and stamps the return
// arrival, called when the vehicle re-enters the pipeline after its errand.
func (v *Vehicle) ResetReturnLeg(arrival time.Time) {
	v.legs[LegReturn] = LegTimes{Arrival: arrival}
}

// Label renders the vehicle's report name, e.g. "TRUCK_23".
func (v *Vehicle) Label() string {
	return fmt.Sprintf("%s_%d", v.Class, v.ID)
}
