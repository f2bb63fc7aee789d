package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skarahan/ferrysim/pkg/config"
)

// delays are the simulated operation durations, converted once from config.
type delays struct {
	toll             delayRange
	travel           delayRange
	errand           delayRange
	unloadPerVehicle time.Duration
	idlePoll         time.Duration
	grace            time.Duration
	statusInterval   time.Duration
}

func delaysFromConfig(d config.Delays) delays {
	return delays{
		toll:             delayRange{d.TollServiceMin.Std(), d.TollServiceMax.Std()},
		travel:           delayRange{d.TravelMin.Std(), d.TravelMax.Std()},
		errand:           delayRange{d.ErrandMin.Std(), d.ErrandMax.Std()},
		unloadPerVehicle: d.UnloadPerVehicle.Std(),
		idlePoll:         d.IdlePoll.Std(),
		grace:            d.DepartureGrace.Std(),
		statusInterval:   d.StatusInterval.Std(),
	}
}

// Remaining is the final container occupancy snapshot.
type Remaining struct {
	SideAQueued  int
	SideAWaiting int
	SideAInBooth int
	SideBQueued  int
	SideBWaiting int
	SideBInBooth int
	OnFerry      int
	OnErrand     int
	FerrySide    string
	ByClass      map[Class]int
}

// Total counts every vehicle still inside the system.
func (r Remaining) Total() int {
	return r.SideAQueued + r.SideAWaiting + r.SideAInBooth +
		r.SideBQueued + r.SideBWaiting + r.SideBInBooth +
		r.OnFerry + r.OnErrand
}

// Result is the run-level output handed to the reporting layer. The
// per-class maps count every vehicle that entered the system, fleet and
// wave arrivals alike.
type Result struct {
	Duration           time.Duration
	Trips              int
	Transported        int
	Expected           int
	Dropped            int
	ExpectedByClass    map[Class]int
	TransportedByClass map[Class]int
	Records            []VehicleRecord
	Remaining          Remaining
}

// Simulator wires the sides, the ferry, and the workers together and owns
// the run lifecycle.
type Simulator struct {
	cfg    *config.Config
	d      delays
	seed   int64
	rng    *rand.Rand
	nextID atomic.Int64

	// pendingWaves counts expanded wave arrivals not yet injected. The
	// monitor must not end the run while any are outstanding.
	pendingWaves atomic.Int64

	sideA, sideB *Side
	ferry        *Ferry
	events       *EventLog
	recorder     *Recorder
	errands      *ErrandPool

	start  time.Time
	result Result
}

// NewSimulator creates a simulator from the configuration. The seed makes
// a run reproducible up to goroutine scheduling.
func NewSimulator(cfg *config.Config, seed int64) *Simulator {
	events := NewEventLog()
	recorder := NewRecorder(cfg.RecordLimit, events)

	s := &Simulator{
		cfg:      cfg,
		d:        delaysFromConfig(cfg.Delays),
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
		sideA:    NewSide(config.SideA, cfg.TollBoothsPerSide, cfg.QueueBound, cfg.WaitingAreaBound, events),
		sideB:    NewSide(config.SideB, cfg.TollBoothsPerSide, cfg.QueueBound, cfg.WaitingAreaBound, events),
		ferry:    NewFerry(cfg.FerryCapacity),
		events:   events,
		recorder: recorder,
		errands:  NewErrandPool(int64(cfg.MaxConcurrentErrands), events, recorder),
	}
	return s
}

// Events returns the lifecycle event stream for the reporting layer.
func (s *Simulator) Events() []Event {
	return s.events.Events()
}

// Warnings returns the warning events.
func (s *Simulator) Warnings() []Event {
	return s.events.Warnings()
}

// Result returns the run-level output. Valid after Run returns.
func (s *Simulator) Result() Result {
	return s.result
}

// Run executes the simulation: it creates the fleet at the ferry's
// starting side, runs all workers until every vehicle completes its round
// trip or the time budget elapses, then takes the final snapshot.
func (s *Simulator) Run(parent context.Context) (Result, error) {
	runCtx, cancel := context.WithTimeout(parent, s.cfg.RunDuration.Std())
	defer cancel()

	s.start = time.Now()
	s.initFleet()

	g, ctx := errgroup.WithContext(runCtx)

	for _, side := range []*Side{s.sideA, s.sideB} {
		for i := 0; i < side.BoothCount(); i++ {
			booth := newBooth(side, i, s.d.toll, s.d.idlePoll, s.workerRNG(), s.events, s.recorder)
			g.Go(func() error { return booth.Run(ctx) })
		}
	}

	controller := newController(s.ferry, s.sideA, s.sideB, s.d, s.workerRNG(), s.events, s.recorder, s.errands)
	g.Go(func() error { return controller.Run(ctx) })

	if len(s.cfg.ArrivalWaves) > 0 {
		arrivals := ExpandWaves(s.cfg.ArrivalWaves, s.start, s.start.Add(s.cfg.RunDuration.Std()))
		s.pendingWaves.Store(int64(len(arrivals)))
		g.Go(func() error { return s.runWaves(ctx, arrivals) })
	}

	g.Go(func() error { return s.monitor(ctx, cancel) })

	err := g.Wait()
	s.errands.Wait()

	s.result = s.snapshot(time.Since(s.start))
	slog.Info("simulation finished",
		"duration", s.result.Duration.Round(time.Millisecond),
		"trips", s.result.Trips,
		"transported", s.result.Transported,
		"expected", s.result.Expected)
	if err != nil {
		return s.result, fmt.Errorf("simulation failed: %w", err)
	}
	return s.result, nil
}

// initFleet creates the configured fleet at the ferry's randomly chosen
// starting side and shuffles the queue order.
func (s *Simulator) initFleet() {
	start := s.sideA
	if s.rng.Intn(2) == 1 {
		start = s.sideB
	}
	s.ferry.DockAt(start)
	slog.Info("simulation initialized", "ferry_start", start.Name)

	classes := []struct {
		class Class
		count int
	}{
		{Car, s.cfg.Fleet.Cars},
		{Minibus, s.cfg.Fleet.Minibuses},
		{Truck, s.cfg.Fleet.Trucks},
	}
	for _, c := range classes {
		for i := 0; i < c.count; i++ {
			v := s.newVehicle(c.class)
			s.recorder.AddExpected(c.class)
			if !start.EnqueueArrival(v) {
				s.recorder.NoteDropped()
			}
		}
	}

	start.ShuffleQueue(s.rng)
}

// monitor ends the run early once every injected vehicle has completed its
// round trip and no wave arrival is still scheduled.
func (s *Simulator) monitor(ctx context.Context, cancel context.CancelFunc) error {
	ticker := time.NewTicker(s.d.idlePoll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Read before the expected total: once this is zero, every
			// injected vehicle has already been counted.
			if s.pendingWaves.Load() > 0 {
				continue
			}
			expected := s.recorder.Expected()
			if expected == 0 {
				continue
			}
			transported := s.recorder.TransportedTotal()
			dropped := s.recorder.Dropped()
			if transported+dropped >= expected {
				slog.Info("all vehicles transported", "transported", transported, "dropped", dropped)
				cancel()
				return nil
			}
		}
	}
}

// snapshot captures the final state for the reporting layer.
func (s *Simulator) snapshot(elapsed time.Duration) Result {
	byClass := map[Class]int{}
	s.sideA.ClassCounts(byClass)
	s.sideB.ClassCounts(byClass)
	s.ferry.ClassCounts(byClass)

	aQ, aW, aB := s.sideA.Counts()
	bQ, bW, bB := s.sideB.Counts()

	ferrySide := "in transit"
	if loc := s.ferry.Location(); loc != nil {
		ferrySide = loc.Name
	}

	return Result{
		Duration:           elapsed,
		Trips:              s.ferry.Trips(),
		Transported:        s.recorder.TransportedTotal(),
		Expected:           s.recorder.Expected(),
		Dropped:            s.recorder.Dropped(),
		ExpectedByClass:    s.recorder.ExpectedByClass(),
		TransportedByClass: s.recorder.TransportedByClass(),
		Records:            s.recorder.Records(),
		Remaining: Remaining{
			SideAQueued:  aQ,
			SideAWaiting: aW,
			SideAInBooth: aB,
			SideBQueued:  bQ,
			SideBWaiting: bW,
			SideBInBooth: bB,
			OnFerry:      s.ferry.VehicleCount(),
			OnErrand:     s.recorder.OnErrand(),
			FerrySide:    ferrySide,
			ByClass:      byClass,
		},
	}
}

// workerRNG derives an independent random source for one worker so workers
// never contend on a shared generator.
func (s *Simulator) workerRNG() *rand.Rand {
	return rand.New(rand.NewSource(s.rng.Int63()))
}
