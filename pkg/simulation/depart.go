package simulation

import (
	"fmt"
	"sort"
	"time"
)

// DepartSnapshot is everything the admission engine may look at: the
// ferry's load, the vehicles visible at the docked side, and two
// system-wide observations. CanDepart is a pure function of a snapshot.
type DepartSnapshot struct {
	Load         int
	Capacity     int
	BoardedCount int

	// CandidateQuotas are the quotas of every vehicle visible at the
	// docked side (waiting area, in-toll, queued), unfiltered.
	CandidateQuotas []int

	// RemainingVehicles counts vehicles system-wide that have not yet
	// completed their round trip.
	RemainingVehicles int

	OtherSideHasWork bool
}

// DepartReason explains a departure decision. Reasons feed the reporting
// layer only; they never influence scheduling.
type DepartReason int

const (
	ReasonNotLoaded DepartReason = iota
	ReasonWaitingForFit
	ReasonFull
	ReasonSliver
	ReasonFinalTrip
	ReasonOtherSideWaiting
	ReasonBothSidesEmpty
)

func (r DepartReason) String() string {
	switch r {
	case ReasonNotLoaded:
		return "not-loaded"
	case ReasonWaitingForFit:
		return "waiting-for-fit"
	case ReasonFull:
		return "full"
	case ReasonSliver:
		return "sliver"
	case ReasonFinalTrip:
		return "final-trip"
	case ReasonOtherSideWaiting:
		return "other-side-waiting"
	case ReasonBothSidesEmpty:
		return "both-sides-empty"
	}
	return "unknown"
}

// Decision is the admission engine's verdict for one snapshot.
type Decision struct {
	Depart bool
	Reason DepartReason

	// Unfilled is the capacity left on the ferry; FittedQuota and
	// FittedCount describe the best packing found among the candidates.
	Unfilled    int
	FittedQuota int
	FittedCount int
}

// CanDepart decides whether the ferry should depart now or wait for better
// packing. The packing check is a largest-first greedy approximation, not
// an exact solver. Rules, in order:
//
//  1. Nothing boarded: never depart.
//  2. Full: depart.
//  3. A candidate exactly fills the gap, or greedy packing can fill it:
//     wait, the packing is within reach.
//  4. Gap of 1-3 quota with zero fittable candidates: depart rather than
//     stall over a sliver of capacity.
//  5. The ferry holds every vehicle still needing transport: final trip.
//  6. Zero fittable candidates here but the other side has work: depart.
//  7. Zero fittable candidates anywhere: depart with a partial load.
//  8. Otherwise wait.
func CanDepart(s DepartSnapshot) Decision {
	if s.BoardedCount == 0 {
		return Decision{Reason: ReasonNotLoaded}
	}
	if s.Load == s.Capacity {
		return Decision{Depart: true, Reason: ReasonFull}
	}

	unfilled := s.Capacity - s.Load

	fittable := make([]int, 0, len(s.CandidateQuotas))
	for _, q := range s.CandidateQuotas {
		if q > 0 && q <= unfilled {
			fittable = append(fittable, q)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(fittable)))

	fitted, count := packGreedy(fittable, unfilled)

	d := Decision{Unfilled: unfilled, FittedQuota: fitted, FittedCount: count}
	switch {
	case fitted >= unfilled:
		d.Reason = ReasonWaitingForFit
	case unfilled <= 3 && fitted == 0:
		d.Depart, d.Reason = true, ReasonSliver
	case fitted == 0 && s.BoardedCount == s.RemainingVehicles:
		d.Depart, d.Reason = true, ReasonFinalTrip
	case fitted == 0 && s.OtherSideHasWork:
		d.Depart, d.Reason = true, ReasonOtherSideWaiting
	case fitted == 0:
		d.Depart, d.Reason = true, ReasonBothSidesEmpty
	default:
		// Some candidates fit but cannot close the gap; keep waiting
		// for more capacity-filling vehicles.
		d.Reason = ReasonWaitingForFit
	}
	return d
}

// packGreedy first looks for a single exact fit, then accumulates
// candidates largest-first while they fit in the remaining gap.
func packGreedy(sorted []int, unfilled int) (fitted, count int) {
	for _, q := range sorted {
		if q == unfilled {
			return q, 1
		}
	}
	remaining := unfilled
	for _, q := range sorted {
		if q <= remaining {
			remaining -= q
			fitted += q
			count++
			if remaining == 0 {
				break
			}
		}
	}
	return fitted, count
}

// statusTracker rate-limits ferry status events: one is emitted only when
// the decision state changes or after a minimum elapsed interval. Owned by
// the controller goroutine, so no locking.
type statusTracker struct {
	events   *EventLog
	interval time.Duration

	lastReason   DepartReason
	lastFitted   int
	lastUnfilled int
	lastEmit     time.Time
	seen         bool
}

func newStatusTracker(events *EventLog, interval time.Duration) *statusTracker {
	return &statusTracker{events: events, interval: interval}
}

// Observe emits the status message for a decision, if it is due.
func (t *statusTracker) Observe(d Decision, load, capacity int, side string) {
	if d.Reason == ReasonNotLoaded {
		return
	}

	changed := !t.seen || d.Reason != t.lastReason ||
		d.FittedCount != t.lastFitted || d.Unfilled != t.lastUnfilled
	if !changed && time.Since(t.lastEmit) < t.interval {
		return
	}
	t.seen = true
	t.lastReason = d.Reason
	t.lastFitted = d.FittedCount
	t.lastUnfilled = d.Unfilled
	t.lastEmit = time.Now()

	t.events.Add(Event{
		Type:    EventFerryStatus,
		Side:    side,
		Message: statusMessage(d, load, capacity),
	})
}

func statusMessage(d Decision, load, capacity int) string {
	switch d.Reason {
	case ReasonFull:
		return "Ferry is at full capacity and ready to depart"
	case ReasonWaitingForFit:
		return fmt.Sprintf("Waiting for %d more vehicles to reach full capacity before departing (%d/%d quotas filled)",
			d.FittedCount, load, capacity)
	case ReasonSliver:
		return fmt.Sprintf("Only %d quota(s) left unfilled and no fitting vehicles available - ready to depart", d.Unfilled)
	case ReasonFinalTrip:
		return "Final trip: ferry has all remaining vehicles - ready to depart"
	case ReasonOtherSideWaiting:
		return "No more vehicles at current side, but vehicles waiting at other side - ferry departing"
	case ReasonBothSidesEmpty:
		return fmt.Sprintf("Both sides empty, ferry departing with partial load: %d/%d quotas", load, capacity)
	}
	return ""
}
