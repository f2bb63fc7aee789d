package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// WaveParser parses arrival wave schedules: a standard cron expression
// extended with a leading seconds field, since simulation runs are short.
var WaveParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// LoadConfig loads and parses the configuration file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.FerryCapacity <= 0 {
		return fmt.Errorf("ferryCapacity must be greater than 0")
	}

	if config.TollBoothsPerSide <= 0 {
		return fmt.Errorf("tollBoothsPerSide must be greater than 0")
	}

	if config.QueueBound <= 0 {
		return fmt.Errorf("queueBound must be greater than 0")
	}

	if config.WaitingAreaBound <= 0 {
		return fmt.Errorf("waitingAreaBound must be greater than 0")
	}

	if config.RecordLimit <= 0 {
		return fmt.Errorf("recordLimit must be greater than 0")
	}

	if config.MaxConcurrentErrands <= 0 {
		return fmt.Errorf("maxConcurrentErrands must be greater than 0")
	}

	if config.RunDuration <= 0 {
		return fmt.Errorf("runDuration must be greater than 0")
	}

	if config.Fleet.Cars < 0 || config.Fleet.Minibuses < 0 || config.Fleet.Trucks < 0 {
		return fmt.Errorf("fleet counts must not be negative")
	}

	if config.Fleet.Total() == 0 && len(config.ArrivalWaves) == 0 {
		return fmt.Errorf("at least one vehicle must enter the system")
	}

	if err := validateDelays(&config.Delays); err != nil {
		return err
	}

	for i, wave := range config.ArrivalWaves {
		if _, err := WaveParser.Parse(wave.Schedule); err != nil {
			return fmt.Errorf("arrival wave %d: invalid schedule %q: %w", i, wave.Schedule, err)
		}

		if wave.Side != SideA && wave.Side != SideB {
			return fmt.Errorf("arrival wave %d: side must be %q or %q", i, SideA, SideB)
		}

		if wave.Cars+wave.Minibuses+wave.Trucks <= 0 {
			return fmt.Errorf("arrival wave %d: at least one vehicle per batch is required", i)
		}
	}

	return nil
}

func validateDelays(delays *Delays) error {
	ranges := []struct {
		name     string
		min, max Duration
	}{
		{"tollService", delays.TollServiceMin, delays.TollServiceMax},
		{"travel", delays.TravelMin, delays.TravelMax},
		{"errand", delays.ErrandMin, delays.ErrandMax},
	}

	for _, r := range ranges {
		if r.min <= 0 {
			return fmt.Errorf("%sMin must be greater than 0", r.name)
		}
		if r.max < r.min {
			return fmt.Errorf("%sMax must not be less than %sMin", r.name, r.name)
		}
	}

	if delays.UnloadPerVehicle <= 0 {
		return fmt.Errorf("unloadPerVehicle must be greater than 0")
	}

	if delays.IdlePoll <= 0 {
		return fmt.Errorf("idlePoll must be greater than 0")
	}

	if delays.DepartureGrace <= 0 {
		return fmt.Errorf("departureGrace must be greater than 0")
	}

	if delays.StatusInterval <= 0 {
		return fmt.Errorf("statusInterval must be greater than 0")
	}

	return nil
}
