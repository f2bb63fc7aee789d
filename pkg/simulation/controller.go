package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Controller drives the ferry's continuous operating loop: load eligible
// vehicles from the waiting area, consult the admission engine, travel,
// unload, repeat. It is the only goroutine that mutates ferry state.
type Controller struct {
	ferry        *Ferry
	sideA, sideB *Side

	travelDelay      delayRange
	errandDelay      delayRange
	unloadPerVehicle time.Duration
	idlePoll         time.Duration
	grace            time.Duration

	rng      *rand.Rand
	events   *EventLog
	recorder *Recorder
	errands  *ErrandPool
	status   *statusTracker
	idle     *idleTracker

	// One-shot repositioning rule: after the very first A->B crossing
	// completes, the ferry makes the first B->A crossing empty, with no
	// loading attempted, before normal admission logic applies. The rule
	// is deliberately not derived from the admission rules. It is keyed
	// to the A->B direction, not to the randomly chosen starting side: a
	// run starting at Side_B arms it only at its first A->B crossing,
	// which happens mid-run, after a loaded return crossing.
	firstOutboundDone  bool
	firstReturnPending bool
}

func newController(ferry *Ferry, sideA, sideB *Side, d delays, rng *rand.Rand,
	events *EventLog, recorder *Recorder, errands *ErrandPool) *Controller {
	return &Controller{
		ferry:            ferry,
		sideA:            sideA,
		sideB:            sideB,
		travelDelay:      d.travel,
		errandDelay:      d.errand,
		unloadPerVehicle: d.unloadPerVehicle,
		idlePoll:         d.idlePoll,
		grace:            d.grace,
		rng:              rng,
		events:           events,
		recorder:         recorder,
		errands:          errands,
		status:           newStatusTracker(events, d.statusInterval),
		idle:             newIdleTracker(events, d.statusInterval),
	}
}

// Run operates the ferry until ctx is cancelled. In-flight crossings and
// unloads always finish; the controller never abandons boarded vehicles
// mid-transit.
func (c *Controller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			slog.Debug("ferry controller stopped")
			return nil
		}

		if c.firstReturnPending && c.ferry.Location() == c.sideB {
			c.events.Add(Event{
				Type:    EventFerryDeparted,
				Side:    c.sideB.Name,
				Message: fmt.Sprintf("First return trip: ferry returning empty from %s to %s", c.sideB.Name, c.sideA.Name),
			})
			c.travel(c.sideA)
			c.firstReturnPending = false
			continue
		}

		if c.ferry.VehicleCount() > 0 && c.decide().Depart {
			// Grace interval for last-minute boarding, then re-check.
			if !sleepCtx(ctx, c.grace) {
				return nil
			}
			c.boardFromWaitingArea()
			if c.ferry.VehicleCount() > 0 && c.decide().Depart {
				dest := c.otherSide(c.ferry.Location())
				c.departEvent(dest)
				c.travel(dest)
				c.unload(ctx)
			}
			continue
		}

		// Not ready to depart: accumulate load opportunistically.
		if c.boardFromWaitingArea() > 0 {
			continue
		}

		current := c.ferry.Location()
		other := c.otherSide(current)
		if current.WaitingCount() == 0 && other.WaitingCount() > 0 && c.ferry.VehicleCount() == 0 {
			c.events.Add(Event{
				Type:    EventFerryDeparted,
				Side:    current.Name,
				Message: fmt.Sprintf("No vehicles at %s, but vehicles waiting at %s. Ferry departing empty.", current.Name, other.Name),
			})
			c.travel(other)
			continue
		}

		if !current.HasWork() && !other.HasWork() && c.ferry.VehicleCount() == 0 {
			c.idle.note(fmt.Sprintf("Ferry remains docked at %s - no vehicles to transport", current.Name))
		}
		if !sleepCtx(ctx, c.idlePoll) {
			return nil
		}
	}
}

// decide snapshots the world and runs the admission engine. The docked
// side's lock and the other side's lock are taken one after the other,
// never nested.
func (c *Controller) decide() Decision {
	location := c.ferry.Location()
	if location == nil {
		return Decision{Reason: ReasonNotLoaded}
	}

	snapshot := DepartSnapshot{
		Load:              c.ferry.Load(),
		Capacity:          c.ferry.Capacity(),
		BoardedCount:      c.ferry.VehicleCount(),
		CandidateQuotas:   location.CandidateQuotas(),
		RemainingVehicles: c.recorder.Expected() - c.recorder.TransportedTotal(),
		OtherSideHasWork:  c.otherSide(location).HasWork(),
	}

	decision := CanDepart(snapshot)
	c.status.Observe(decision, snapshot.Load, snapshot.Capacity, location.Name)
	return decision
}

// boardFromWaitingArea greedily boards every waiting vehicle whose quota
// fits the remaining capacity, in waiting-area order. Returns how many
// boarded. Only the controller boards, so the reserved capacity cannot be
// taken by anyone else between the reservation and the Board call.
func (c *Controller) boardFromWaitingArea() int {
	side := c.ferry.Location()
	if side == nil {
		return 0
	}
	remaining := c.ferry.Capacity() - c.ferry.Load()
	if remaining <= 0 {
		return 0
	}

	trip := c.ferry.Trips() + 1
	taken := side.TakeWaiting(func(v *Vehicle) bool {
		if v.Quota() <= remaining {
			remaining -= v.Quota()
			return true
		}
		return false
	})

	for _, v := range taken {
		if !c.ferry.Board(v, trip) {
			side.restoreWaiting(v)
			continue
		}
		leg := v.Leg(v.CurrentLeg())
		direction := "outbound"
		if v.CurrentLeg() == LegReturn {
			direction = "return"
		}
		c.events.Add(Event{
			Type:      EventVehicleBoarded,
			VehicleID: v.ID,
			Side:      side.Name,
			Trip:      trip,
			Message: fmt.Sprintf("%s (%d quota) boarded the ferry for %s journey (Used: %d/%d) - queue wait %s, waiting area %s",
				v.Label(), v.Quota(), direction, c.ferry.Load(), c.ferry.Capacity(),
				leg.QueueWait().Round(100*time.Millisecond), leg.WaitingAreaWait().Round(100*time.Millisecond)),
		})
	}
	return len(taken)
}

func (c *Controller) departEvent(dest *Side) {
	src := c.ferry.Location()
	c.events.Add(Event{
		Type:    EventFerryDeparted,
		Side:    src.Name,
		Trip:    c.ferry.Trips() + 1,
		Message: fmt.Sprintf("Ferry departing from %s to %s (Trip #%d)", src.Name, dest.Name, c.ferry.Trips()+1),
	})
}

// travel performs one crossing: clear the docked side, elapse a randomized
// transit delay, dock at the destination, count the trip. The crossing
// always completes even if the stop signal arrives mid-transit.
func (c *Controller) travel(dest *Side) {
	src := c.ferry.Location()
	c.ferry.beginCrossing()

	time.Sleep(c.travelDelay.pick(c.rng))

	trip := c.ferry.CompleteTrip(dest)
	c.events.Add(Event{
		Type:    EventFerryDocked,
		Side:    dest.Name,
		Trip:    trip,
		Message: fmt.Sprintf("Trip #%d completed: %s -> %s", trip, src.Name, dest.Name),
	})
	slog.Info("ferry docked", "side", dest.Name, "trip", trip)

	if src == c.sideA && dest == c.sideB && !c.firstOutboundDone {
		c.firstOutboundDone = true
		c.firstReturnPending = true
	}
	c.idle.reset()
}

// unload processes every boarded vehicle at the docked side: outbound-leg
// vehicles are handed to the errand scheduler, return-leg vehicles are
// complete and go to the statistics recorder. Unloading costs a
// per-vehicle delay.
func (c *Controller) unload(ctx context.Context) {
	dest := c.ferry.Location()
	vehicles := c.ferry.Unload()
	if len(vehicles) == 0 {
		return
	}

	now := time.Now()
	roundTrips := 0
	var toErrand []*Vehicle

	for _, v := range vehicles {
		switch v.Progress {
		case NotTransported:
			v.Leg(LegOutbound).Unload = now
			v.Progress = OutboundComplete
			v.CurrentSide = dest.Name
			v.ErrandTime = c.errandDelay.pick(c.rng)
			toErrand = append(toErrand, v)
			c.events.Add(Event{
				Type:      EventVehicleUnloaded,
				VehicleID: v.ID,
				Side:      dest.Name,
				Message: fmt.Sprintf("%s transported (outbound): total %s, ferry ride %s",
					v.Label(), v.Leg(LegOutbound).JourneyTime().Round(100*time.Millisecond),
					clampedSince(now, v.Leg(LegOutbound).Boarding).Round(100*time.Millisecond)),
			})
		case OutboundComplete:
			v.Leg(LegReturn).Unload = now
			v.Progress = RoundTripComplete
			v.CurrentSide = dest.Name
			roundTrips++
			c.recorder.Record(v)
			c.events.Add(Event{
				Type:      EventRoundTripDone,
				VehicleID: v.ID,
				Side:      dest.Name,
				Message: fmt.Sprintf("%s completed round trip: outbound %s, return %s",
					v.Label(), v.Leg(LegOutbound).JourneyTime().Round(100*time.Millisecond),
					v.Leg(LegReturn).JourneyTime().Round(100*time.Millisecond)),
			})
		}
	}

	c.recorder.AddTransported(roundTrips)

	// Per-vehicle unload cost; the step completes even on stop.
	time.Sleep(time.Duration(len(vehicles)) * c.unloadPerVehicle)

	for _, v := range toErrand {
		c.errands.Schedule(ctx, v, dest)
	}
}

func (c *Controller) otherSide(s *Side) *Side {
	if s == c.sideA {
		return c.sideB
	}
	return c.sideA
}

// idleTracker rate-limits the docked-and-idle report message.
type idleTracker struct {
	events   *EventLog
	interval time.Duration
	lastMsg  string
	lastEmit time.Time
}

func newIdleTracker(events *EventLog, interval time.Duration) *idleTracker {
	return &idleTracker{events: events, interval: interval}
}

func (t *idleTracker) note(msg string) {
	if msg == t.lastMsg && time.Since(t.lastEmit) < t.interval {
		return
	}
	t.lastMsg = msg
	t.lastEmit = time.Now()
	t.events.Add(Event{Type: EventFerryStatus, Message: msg})
}

func (t *idleTracker) reset() {
	t.lastMsg = ""
}
