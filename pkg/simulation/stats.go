package simulation

import (
	"sort"
	"sync"
	"time"
)

// VehicleRecord is the per-vehicle lifecycle record handed to the
// reporting layer when a vehicle completes its round trip (or, for a
// truncated run, when the final snapshot is taken).
type VehicleRecord struct {
	ID     int
	Class  Class
	Quota  int
	Origin string

	OutboundQueueTime   time.Duration
	OutboundJourneyTime time.Duration
	OutboundTrip        int

	ReturnQueueTime   time.Duration
	ReturnJourneyTime time.Duration
	ReturnTrip        int

	RoundTripTime      time.Duration
	TimeAtDestination  time.Duration
	CompletedRoundTrip bool
}

// Recorder is the aggregate-counter exclusion domain: completed-trip
// records, the transported total, the expected total, and drop counts all
// live behind its mutex, separate from the side and ferry locks.
type Recorder struct {
	mu sync.Mutex

	limit   int
	records []VehicleRecord

	transported int
	expected    int
	dropped     int
	onErrand    int

	expectedByClass    map[Class]int
	transportedByClass map[Class]int

	events        *EventLog
	overflowNoted bool
}

// NewRecorder creates a recorder that stores at most limit records.
func NewRecorder(limit int, events *EventLog) *Recorder {
	return &Recorder{
		limit:              limit,
		expectedByClass:    map[Class]int{},
		transportedByClass: map[Class]int{},
		events:             events,
	}
}

// Record captures a completed round trip. Timestamps are repaired forward
// before durations are derived, so every duration is non-negative even
// under clock or measurement skew. When the record store is full the
// record is dropped with a single warning.
func (r *Recorder) Record(v *Vehicle) {
	outbound := v.Leg(LegOutbound)
	outbound.Repair(outbound.Arrival)
	ret := v.Leg(LegReturn)
	ret.Repair(outbound.Unload)

	record := VehicleRecord{
		ID:     v.ID,
		Class:  v.Class,
		Quota:  v.Quota(),
		Origin: v.Origin,

		OutboundQueueTime:   outbound.QueueWait(),
		OutboundJourneyTime: outbound.JourneyTime(),
		OutboundTrip:        outbound.TripNumber,

		RoundTripTime:     clampedSince(ret.Unload, outbound.Arrival),
		TimeAtDestination: v.ErrandTime,
	}

	if v.Progress == RoundTripComplete {
		record.ReturnQueueTime = ret.QueueWait()
		record.ReturnJourneyTime = ret.JourneyTime()
		record.ReturnTrip = ret.TripNumber
		record.CompletedRoundTrip = true
	} else {
		record.RoundTripTime = record.OutboundJourneyTime
		record.TimeAtDestination = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Class tallies are kept even past the record limit; only the
	// per-vehicle row is dropped.
	if record.CompletedRoundTrip {
		r.transportedByClass[v.Class]++
	}

	if len(r.records) >= r.limit {
		if !r.overflowNoted {
			r.overflowNoted = true
			r.events.Add(Event{
				Type:      EventRecordsFull,
				Message:   "Maximum vehicle record count reached, further records dropped",
				IsWarning: true,
			})
		}
		return
	}
	r.records = append(r.records, record)
}

// Records returns a copy of all records sorted by vehicle id.
func (r *Recorder) Records() []VehicleRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]VehicleRecord, len(r.records))
	copy(out, r.records)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// AddExpected counts a vehicle of the given class entering the system.
func (r *Recorder) AddExpected(class Class) {
	r.mu.Lock()
	r.expected++
	r.expectedByClass[class]++
	r.mu.Unlock()
}

// Expected returns the total number of vehicles created so far.
func (r *Recorder) Expected() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expected
}

// ExpectedByClass returns per-class counts of vehicles created so far.
func (r *Recorder) ExpectedByClass() map[Class]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyClassCounts(r.expectedByClass)
}

// TransportedByClass returns per-class counts of completed round trips.
func (r *Recorder) TransportedByClass() map[Class]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyClassCounts(r.transportedByClass)
}

func copyClassCounts(in map[Class]int) map[Class]int {
	out := make(map[Class]int, len(in))
	for class, n := range in {
		out[class] = n
	}
	return out
}

// AddTransported counts vehicles that completed their round trip.
func (r *Recorder) AddTransported(n int) {
	r.mu.Lock()
	r.transported += n
	r.mu.Unlock()
}

// TransportedTotal returns the number of completed round trips.
func (r *Recorder) TransportedTotal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.transported
}

// NoteDropped counts a vehicle lost to container overflow.
func (r *Recorder) NoteDropped() {
	r.mu.Lock()
	r.dropped++
	r.mu.Unlock()
}

// Dropped returns the number of vehicles lost to container overflow.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// errandStarted and errandEnded bracket a vehicle's dwell at its
// destination, keeping the conservation accounting exact while the vehicle
// is outside every container.
func (r *Recorder) errandStarted() {
	r.mu.Lock()
	r.onErrand++
	r.mu.Unlock()
}

func (r *Recorder) errandEnded() {
	r.mu.Lock()
	r.onErrand--
	r.mu.Unlock()
}

// OnErrand returns the number of vehicles currently dwelling at their
// destination.
func (r *Recorder) OnErrand() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onErrand
}
