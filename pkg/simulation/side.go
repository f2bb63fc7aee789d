package simulation

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Side is one crossing endpoint: an arrival queue, a fixed set of toll
// booth slots, and a post-toll waiting area. All three containers are
// guarded by the side's own mutex and by nothing else. Cross-side checks
// acquire the other side's mutex separately and never while holding this
// one, so there is no lock ordering between sides.
type Side struct {
	Name string

	mu      sync.Mutex
	queue   *fifo[*Vehicle]
	waiting *fifo[*Vehicle]
	booths  []*Vehicle // one slot per booth, nil when idle

	events *EventLog
}

// NewSide creates a side with the given booth count and container bounds.
func NewSide(name string, booths, queueBound, waitingBound int, events *EventLog) *Side {
	return &Side{
		Name:    name,
		queue:   newFIFO[*Vehicle](queueBound),
		waiting: newFIFO[*Vehicle](waitingBound),
		booths:  make([]*Vehicle, booths),
		events:  events,
	}
}

// BoothCount returns the number of toll booth slots on this side.
func (s *Side) BoothCount() int {
	return len(s.booths)
}

// EnqueueArrival appends the vehicle to the tail of the arrival queue,
// stamping the leg-appropriate arrival time if not already set. A full
// queue is a configuration overflow: the vehicle is dropped with a warning
// event and false is returned.
func (s *Side) EnqueueArrival(v *Vehicle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	leg := v.Leg(v.CurrentLeg())
	if leg.Arrival.IsZero() {
		leg.Arrival = time.Now()
	}
	if v.CurrentLeg() == LegOutbound && v.Origin == "" {
		v.Origin = s.Name
		v.CurrentSide = s.Name
	}

	if !s.queue.Push(v) {
		s.events.Add(Event{
			Type:      EventVehicleDropped,
			VehicleID: v.ID,
			Side:      s.Name,
			Message:   fmt.Sprintf("Queue full at %s, cannot add vehicle %s", s.Name, v.Label()),
			IsWarning: true,
		})
		return false
	}

	s.events.Add(Event{
		Type:      EventVehicleQueued,
		VehicleID: v.ID,
		Side:      s.Name,
		Message:   fmt.Sprintf("%s (%d quota) arrived at %s and joined the queue", v.Label(), v.Quota(), s.Name),
	})
	return true
}

// claimNext pops the head of the arrival queue into the given booth slot,
// stamping the toll-entry time. It reports false when the slot is busy or
// the queue is empty.
func (s *Side) claimNext(booth int) (*Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.booths[booth] != nil {
		return nil, false
	}
	v, ok := s.queue.Pop()
	if !ok {
		return nil, false
	}

	s.booths[booth] = v
	v.BoothID = booth + 1
	v.Leg(v.CurrentLeg()).TollEntry = time.Now()
	return v, true
}

// admitToWaitingArea moves a serviced vehicle from its booth slot into the
// waiting area, stamping the waiting-entry time. Called only by the booth
// worker that holds the vehicle. On overflow the vehicle is dropped.
func (s *Side) admitToWaitingArea(booth int, v *Vehicle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.booths[booth] = nil
	v.Leg(v.CurrentLeg()).WaitingEntry = time.Now()

	if !s.waiting.Push(v) {
		s.events.Add(Event{
			Type:      EventVehicleDropped,
			VehicleID: v.ID,
			Side:      s.Name,
			Message:   fmt.Sprintf("Waiting area full at %s, cannot add vehicle %s", s.Name, v.Label()),
			IsWarning: true,
		})
		return false
	}

	s.events.Add(Event{
		Type:      EventTollCompleted,
		VehicleID: v.ID,
		Side:      s.Name,
		Message:   fmt.Sprintf("%s (%d quota) completed toll processing at %s_Booth_%d and entered the waiting area", v.Label(), v.Quota(), s.Name, v.BoothID),
	})
	return true
}

// TakeWaiting removes from the waiting area, in insertion order, every
// vehicle the predicate accepts. The caller becomes the owner of the
// returned vehicles.
func (s *Side) TakeWaiting(take func(*Vehicle) bool) []*Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting.RemoveFunc(take)
}

// restoreWaiting puts a vehicle back at the tail of the waiting area
// without re-stamping it.
func (s *Side) restoreWaiting(v *Vehicle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting.Push(v)
}

// CandidateQuotas returns the quotas of every vehicle visible at this side:
// waiting area first, then occupied booths, then the arrival queue.
func (s *Side) CandidateQuotas() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotas := make([]int, 0, s.waiting.Len()+len(s.booths)+s.queue.Len())
	for _, v := range s.waiting.Items() {
		quotas = append(quotas, v.Quota())
	}
	for _, v := range s.booths {
		if v != nil {
			quotas = append(quotas, v.Quota())
		}
	}
	for _, v := range s.queue.Items() {
		quotas = append(quotas, v.Quota())
	}
	return quotas
}

// HasWork reports whether any vehicle is queued or waiting on this side.
func (s *Side) HasWork() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len() > 0 || s.waiting.Len() > 0
}

// WaitingCount returns the number of vehicles in the waiting area.
func (s *Side) WaitingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting.Len()
}

// Counts returns the current container occupancy.
func (s *Side) Counts() (queued, waiting, inBooth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.booths {
		if v != nil {
			inBooth++
		}
	}
	return s.queue.Len(), s.waiting.Len(), inBooth
}

// ClassCounts tallies queued and waiting vehicles by class.
func (s *Side) ClassCounts(into map[Class]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.queue.Items() {
		into[v.Class]++
	}
	for _, v := range s.waiting.Items() {
		into[v.Class]++
	}
	for _, v := range s.booths {
		if v != nil {
			into[v.Class]++
		}
	}
}

// ShuffleQueue randomizes the arrival queue order.
func (s *Side) ShuffleQueue(rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Shuffle(rng)
}
