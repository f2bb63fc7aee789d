package simulation

import (
	"sync"
	"time"
)

// EventType defines the type of event in the simulation
type EventType string

const (
	EventVehicleQueued   EventType = "vehicle-queued"
	EventTollStarted     EventType = "toll-started"
	EventTollCompleted   EventType = "toll-completed"
	EventVehicleBoarded  EventType = "vehicle-boarded"
	EventFerryDeparted   EventType = "ferry-departed"
	EventFerryDocked     EventType = "ferry-docked"
	EventVehicleUnloaded EventType = "vehicle-unloaded"
	EventRoundTripDone   EventType = "round-trip-complete"
	EventErrandStarted   EventType = "errand-started"
	EventVehicleDropped  EventType = "vehicle-dropped"
	EventRecordsFull     EventType = "records-full"
	EventFerryStatus     EventType = "ferry-status"
)

// Event represents a point-in-time event in the simulation. Events exist
// for the reporting layer only; no scheduling decision reads them back.
type Event struct {
	Time      time.Time
	Type      EventType
	VehicleID int
	Side      string
	Trip      int
	Message   string
	IsWarning bool
}

// EventLog collects events from all workers. Safe for concurrent use.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add appends an event, stamping the current time if unset.
func (l *EventLog) Add(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
}

// Events returns a snapshot of all events in arrival order.
func (l *EventLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Warnings returns all warning events.
func (l *EventLog) Warnings() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	warnings := []Event{}
	for _, event := range l.events {
		if event.IsWarning {
			warnings = append(warnings, event)
		}
	}
	return warnings
}
