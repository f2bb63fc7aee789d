package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrandPool runs per-vehicle destination dwell tasks. Each task owns its
// vehicle exclusively until it re-submits it to the side pipeline for the
// return leg. A weighted semaphore bounds how many errands run at once.
type ErrandPool struct {
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
	events   *EventLog
	recorder *Recorder
}

// NewErrandPool creates a pool that runs at most maxConcurrent errands.
func NewErrandPool(maxConcurrent int64, events *EventLog, recorder *Recorder) *ErrandPool {
	return &ErrandPool{
		sem:      semaphore.NewWeighted(maxConcurrent),
		events:   events,
		recorder: recorder,
	}
}

// Schedule starts the dwell task for a vehicle just unloaded at side. When
// the vehicle's errand time elapses it re-enters the arrival queue on its
// current (destination) side with a fresh return leg. If the run stops
// first, the vehicle simply never returns; a bounded run accepts that.
func (p *ErrandPool) Schedule(ctx context.Context, v *Vehicle, side *Side) {
	p.recorder.errandStarted()
	p.events.Add(Event{
		Type:      EventErrandStarted,
		VehicleID: v.ID,
		Side:      side.Name,
		Message:   fmt.Sprintf("%s will spend %s at %s before returning", v.Label(), v.ErrandTime.Round(time.Second), side.Name),
	})

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if err := p.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer p.sem.Release(1)

		if !sleepCtx(ctx, v.ErrandTime) {
			return
		}

		v.ResetReturnLeg(time.Now())
		slog.Debug("vehicle rejoining for return leg", "vehicle", v.Label(), "side", side.Name)
		p.recorder.errandEnded()
		if !side.EnqueueArrival(v) {
			p.recorder.NoteDropped()
		}
	}()
}

// Wait blocks until every scheduled errand task has exited. Call after the
// run context is cancelled.
func (p *ErrandPool) Wait() {
	p.wg.Wait()
}
