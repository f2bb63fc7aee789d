package simulation

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/skarahan/ferrysim/pkg/config"
)

// WaveArrival is one scheduled vehicle arrival generated from a cron wave.
type WaveArrival struct {
	Time  time.Time
	Side  string
	Class Class
}

// ExpandWaves generates the individual arrivals for every configured wave
// over the run window, sorted by arrival time. Configs are validated at
// load time, so an unparseable schedule is skipped with a warning here.
func ExpandWaves(waves []config.Wave, start, end time.Time) []WaveArrival {
	arrivals := []WaveArrival{}

	for _, wave := range waves {
		schedule, err := config.WaveParser.Parse(wave.Schedule)
		if err != nil {
			slog.Warn("skipping arrival wave", "schedule", wave.Schedule, "err", err)
			continue
		}

		current := start
		for {
			next := schedule.Next(current)
			if next.IsZero() || next.After(end) {
				break
			}
			for i := 0; i < wave.Cars; i++ {
				arrivals = append(arrivals, WaveArrival{Time: next, Side: wave.Side, Class: Car})
			}
			for i := 0; i < wave.Minibuses; i++ {
				arrivals = append(arrivals, WaveArrival{Time: next, Side: wave.Side, Class: Minibus})
			}
			for i := 0; i < wave.Trucks; i++ {
				arrivals = append(arrivals, WaveArrival{Time: next, Side: wave.Side, Class: Truck})
			}
			current = next
		}
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].Time.Before(arrivals[j].Time)
	})
	return arrivals
}

// runWaves injects the expanded arrivals at their scheduled times.
func (s *Simulator) runWaves(ctx context.Context, arrivals []WaveArrival) error {
	for _, arrival := range arrivals {
		if !sleepCtx(ctx, time.Until(arrival.Time)) {
			return nil
		}

		v := s.newVehicle(arrival.Class)
		side := s.sideByName(arrival.Side)
		s.recorder.AddExpected(arrival.Class)
		slog.Debug("wave arrival", "vehicle", v.Label(), "side", side.Name)
		if !side.EnqueueArrival(v) {
			s.recorder.NoteDropped()
		}
		s.pendingWaves.Add(-1)
	}
	return nil
}

func (s *Simulator) sideByName(name string) *Side {
	if name == s.sideB.Name {
		return s.sideB
	}
	return s.sideA
}

func (s *Simulator) newVehicle(class Class) *Vehicle {
	return NewVehicle(int(s.nextID.Add(1)), class)
}
