package simulation

import (
	"sync"
	"time"
)

// Ferry is the sole mobile shared resource. Its state is guarded by its
// own mutex, separate from the side locks; only the controller mutates it,
// but the completion monitor and final report read it concurrently.
type Ferry struct {
	mu       sync.Mutex
	capacity int
	load     int
	boarded  []*Vehicle
	location *Side
	trips    int
}

// NewFerry creates a ferry with the given quota capacity.
func NewFerry(capacity int) *Ferry {
	return &Ferry{capacity: capacity}
}

// Capacity returns the ferry's fixed quota capacity.
func (f *Ferry) Capacity() int {
	return f.capacity
}

// Load returns the sum of boarded vehicles' quotas.
func (f *Ferry) Load() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load
}

// VehicleCount returns the number of boarded vehicles.
func (f *Ferry) VehicleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.boarded)
}

// Trips returns the number of completed crossings.
func (f *Ferry) Trips() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trips
}

// Location returns the side the ferry is docked at, or nil mid-crossing.
func (f *Ferry) Location() *Side {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location
}

// DockAt places the ferry at a side.
func (f *Ferry) DockAt(s *Side) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = s
}

// Board loads a vehicle if its quota fits in the remaining capacity,
// stamping the boarding time and trip number on the current leg.
func (f *Ferry) Board(v *Vehicle, tripNumber int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.load+v.Quota() > f.capacity {
		return false
	}
	leg := v.Leg(v.CurrentLeg())
	leg.Boarding = time.Now()
	leg.TripNumber = tripNumber
	f.boarded = append(f.boarded, v)
	f.load += v.Quota()
	return true
}

// Unload empties the ferry, transferring ownership of the boarded vehicles
// to the caller. Load and boarded set reset to zero atomically so the
// load-equals-sum-of-quotas invariant is never observable as violated.
func (f *Ferry) Unload() []*Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()

	vehicles := f.boarded
	f.boarded = nil
	f.load = 0
	return vehicles
}

// CompleteTrip docks the ferry at dest, clearing the in-transit state and
// incrementing the trip counter.
func (f *Ferry) CompleteTrip(dest *Side) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.location = dest
	f.trips++
	return f.trips
}

// beginCrossing clears the docked side for the duration of the crossing.
func (f *Ferry) beginCrossing() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = nil
}

// ClassCounts tallies boarded vehicles by class.
func (f *Ferry) ClassCounts(into map[Class]int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.boarded {
		into[v.Class]++
	}
}
