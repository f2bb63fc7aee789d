package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Booth is a toll booth worker. Each booth runs its own loop: claim the
// head of the side's arrival queue, hold the vehicle for a randomized
// service interval, then release it into the waiting area. The service
// hold happens without the side lock so other booths and the ferry
// controller are never blocked by one booth's service time.
type Booth struct {
	side     *Side
	index    int
	service  delayRange
	idlePoll time.Duration
	rng      *rand.Rand
	events   *EventLog
	recorder *Recorder
}

func newBooth(side *Side, index int, service delayRange, idlePoll time.Duration, rng *rand.Rand, events *EventLog, recorder *Recorder) *Booth {
	return &Booth{
		side:     side,
		index:    index,
		service:  service,
		idlePoll: idlePoll,
		rng:      rng,
		events:   events,
		recorder: recorder,
	}
}

// Name returns the booth's report name, e.g. "Side_A_Booth_1".
func (b *Booth) Name() string {
	return fmt.Sprintf("%s_Booth_%d", b.side.Name, b.index+1)
}

// Run processes vehicles until ctx is cancelled. An in-flight service is
// always finished before the stop signal is observed, so no vehicle is
// lost mid-service.
func (b *Booth) Run(ctx context.Context) error {
	slog.Debug("toll booth started", "booth", b.Name())
	for {
		if ctx.Err() != nil {
			slog.Debug("toll booth stopped", "booth", b.Name())
			return nil
		}

		v, ok := b.side.claimNext(b.index)
		if !ok {
			if !sleepCtx(ctx, b.idlePoll) {
				slog.Debug("toll booth stopped", "booth", b.Name())
				return nil
			}
			continue
		}

		b.events.Add(Event{
			Type:      EventTollStarted,
			VehicleID: v.ID,
			Side:      b.side.Name,
			Message:   fmt.Sprintf("%s (%d quota) is being processed at %s", v.Label(), v.Quota(), b.Name()),
		})

		// Service runs to completion even if the stop signal arrives.
		time.Sleep(b.service.pick(b.rng))

		if !b.side.admitToWaitingArea(b.index, v) {
			b.recorder.NoteDropped()
		}
	}
}

// delayRange is a uniform random duration range.
type delayRange struct {
	min, max time.Duration
}

func (r delayRange) pick(rng *rand.Rand) time.Duration {
	if r.max <= r.min {
		return r.min
	}
	return r.min + time.Duration(rng.Int63n(int64(r.max-r.min)))
}

// sleepCtx sleeps for d, returning false if ctx was cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
