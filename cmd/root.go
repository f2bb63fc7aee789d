package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skarahan/ferrysim/pkg/config"
	"github.com/skarahan/ferrysim/pkg/report"
	"github.com/skarahan/ferrysim/pkg/simulation"
	"github.com/spf13/cobra"
)

var (
	configFile       string
	durationOverride time.Duration
	seed             int64
	showTimeline     bool
	timelineLimit    int
	showEventSummary bool
)

var rootCmd = &cobra.Command{
	Use:   "ferrysim",
	Short: "Ferry Crossing Simulator",
	Long: `A CLI tool that simulates round-trip vehicle transport across a
two-sided crossing serviced by a single capacity-limited ferry.

Vehicles pass toll booths on each side, gather in a waiting area, and the
ferry decides on every tick whether to depart or wait for better packing.
The tool prints a statistics report when the run completes.`,
	RunE: runSimulation,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (defaults apply when omitted)")
	rootCmd.Flags().DurationVarP(&durationOverride, "duration", "d", 0, "Override the configured run duration")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	rootCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	rootCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	rootCmd.Flags().BoolVarP(&showEventSummary, "summary", "s", true, "Show event summary")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		fmt.Printf("Loaded configuration from %s\n", configFile)
	}
	if durationOverride > 0 {
		cfg.RunDuration = config.Duration(durationOverride)
	}

	fmt.Printf("Simulation parameters:\n")
	fmt.Printf("  - Ferry Capacity: %d quotas\n", cfg.FerryCapacity)
	fmt.Printf("  - Toll Booths per Side: %d\n", cfg.TollBoothsPerSide)
	fmt.Printf("  - Fleet: %d cars, %d minibuses, %d trucks\n", cfg.Fleet.Cars, cfg.Fleet.Minibuses, cfg.Fleet.Trucks)
	fmt.Printf("  - Run Duration: %s\n", cfg.RunDuration.Std())
	fmt.Printf("  - Arrival Waves: %d\n\n", len(cfg.ArrivalWaves))

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := simulation.NewSimulator(cfg, seed)
	result, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	generator := report.NewGenerator()

	fmt.Println(generator.GenerateSummary(result))
	fmt.Println(generator.GenerateVehicleTable(result.Records))

	if showEventSummary {
		fmt.Println(generator.GenerateEventSummary(sim.Events()))
	}

	fmt.Println(generator.GenerateWarnings(sim.Warnings()))

	if showTimeline {
		fmt.Println(generator.GenerateDetailedTimeline(sim.Events(), timelineLimit))
	}

	return nil
}
