package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can use values like "500ms" or "3s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration back as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config represents the entire configuration for the ferry simulator
type Config struct {
	FerryCapacity        int      `yaml:"ferryCapacity"`
	TollBoothsPerSide    int      `yaml:"tollBoothsPerSide"`
	QueueBound           int      `yaml:"queueBound"`
	WaitingAreaBound     int      `yaml:"waitingAreaBound"`
	RecordLimit          int      `yaml:"recordLimit"`
	MaxConcurrentErrands int      `yaml:"maxConcurrentErrands"`
	RunDuration          Duration `yaml:"runDuration"`
	Fleet                Fleet    `yaml:"fleet"`
	Delays               Delays   `yaml:"delays"`
	ArrivalWaves         []Wave   `yaml:"arrivalWaves,omitempty"`
}

// Fleet defines how many vehicles of each class enter the system at start.
type Fleet struct {
	Cars      int `yaml:"cars"`
	Minibuses int `yaml:"minibuses"`
	Trucks    int `yaml:"trucks"`
}

// Total returns the number of vehicles in the fleet.
func (f Fleet) Total() int {
	return f.Cars + f.Minibuses + f.Trucks
}

// TotalQuota returns the summed capacity demand of the fleet.
func (f Fleet) TotalQuota() int {
	return f.Cars*1 + f.Minibuses*2 + f.Trucks*3
}

// Delays holds the simulated operation durations. Randomized operations are
// drawn uniformly from their min/max range.
type Delays struct {
	TollServiceMin   Duration `yaml:"tollServiceMin"`
	TollServiceMax   Duration `yaml:"tollServiceMax"`
	TravelMin        Duration `yaml:"travelMin"`
	TravelMax        Duration `yaml:"travelMax"`
	ErrandMin        Duration `yaml:"errandMin"`
	ErrandMax        Duration `yaml:"errandMax"`
	UnloadPerVehicle Duration `yaml:"unloadPerVehicle"`
	IdlePoll         Duration `yaml:"idlePoll"`
	DepartureGrace   Duration `yaml:"departureGrace"`
	StatusInterval   Duration `yaml:"statusInterval"`
}

// Wave describes a cron-scheduled batch of vehicles arriving during the run.
// The schedule uses a six-field cron expression with a seconds column, so
// "*/30 * * * * *" injects a batch every 30 seconds.
type Wave struct {
	Schedule  string `yaml:"schedule"`
	Side      string `yaml:"side"`
	Cars      int    `yaml:"cars"`
	Minibuses int    `yaml:"minibuses"`
	Trucks    int    `yaml:"trucks"`
}

// Side names used throughout the simulation and in wave configs.
const (
	SideA = "Side_A"
	SideB = "Side_B"
)

// Default returns the canonical simulation parameters: a 20-quota ferry,
// two booths per side, and a 12/10/8 fleet over a three minute run.
func Default() *Config {
	return &Config{
		FerryCapacity:        20,
		TollBoothsPerSide:    2,
		QueueBound:           30,
		WaitingAreaBound:     30,
		RecordLimit:          100,
		MaxConcurrentErrands: 30,
		RunDuration:          Duration(180 * time.Second),
		Fleet: Fleet{
			Cars:      12,
			Minibuses: 10,
			Trucks:    8,
		},
		Delays: Delays{
			TollServiceMin:   Duration(500 * time.Millisecond),
			TollServiceMax:   Duration(1500 * time.Millisecond),
			TravelMin:        Duration(3 * time.Second),
			TravelMax:        Duration(5 * time.Second),
			ErrandMin:        Duration(10 * time.Second),
			ErrandMax:        Duration(30 * time.Second),
			UnloadPerVehicle: Duration(500 * time.Millisecond),
			IdlePoll:         Duration(100 * time.Millisecond),
			DepartureGrace:   Duration(500 * time.Millisecond),
			StatusInterval:   Duration(5 * time.Second),
		},
	}
}
