package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/skarahan/ferrysim/pkg/simulation"
)

const reportWidth = 80

// Generator formats simulation results for the terminal. It consumes only
// the final statistics and events the core produces.
type Generator struct {
	width int
}

// NewGenerator creates a new report generator
func NewGenerator() *Generator {
	return &Generator{width: reportWidth}
}

// GenerateSummary generates the run-level report: trips, transported and
// remaining vehicles, and quota utilization.
func (g *Generator) GenerateSummary(result simulation.Result) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Ferry Simulation Report\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Total simulation time: %s\n", FormatDuration(result.Duration)))
	sb.WriteString(fmt.Sprintf("Number of trips completed: %d\n", result.Trips))

	expected := result.Expected
	completion := 0.0
	if expected > 0 {
		completion = float64(result.Transported) / float64(expected) * 100.0
	}

	sb.WriteString("\nTransported Vehicles:\n")
	sb.WriteString(fmt.Sprintf("  Total: %d / %d vehicles (%.1f%%)\n", result.Transported, expected, completion))
	for _, class := range []simulation.Class{simulation.Car, simulation.Minibus, simulation.Truck} {
		sb.WriteString(fmt.Sprintf("  %s: %d / %d vehicles\n", pluralClass(class),
			result.TransportedByClass[class], result.ExpectedByClass[class]))
	}
	if result.Dropped > 0 {
		sb.WriteString(fmt.Sprintf("  Dropped on overflow: %d vehicles\n", result.Dropped))
	}

	r := result.Remaining
	sb.WriteString("\nRemaining Vehicles:\n")
	sb.WriteString(fmt.Sprintf("  Total remaining vehicles: %d\n", r.Total()))
	sb.WriteString(fmt.Sprintf("  Waiting at Side_A: %d (in queue: %d, in booth: %d, in waiting area: %d)\n",
		r.SideAQueued+r.SideAInBooth+r.SideAWaiting, r.SideAQueued, r.SideAInBooth, r.SideAWaiting))
	sb.WriteString(fmt.Sprintf("  Waiting at Side_B: %d (in queue: %d, in booth: %d, in waiting area: %d)\n",
		r.SideBQueued+r.SideBInBooth+r.SideBWaiting, r.SideBQueued, r.SideBInBooth, r.SideBWaiting))
	sb.WriteString(fmt.Sprintf("  On ferry: %d\n", r.OnFerry))
	sb.WriteString(fmt.Sprintf("  At destination (errand): %d\n", r.OnErrand))
	sb.WriteString(fmt.Sprintf("  Current ferry location: %s\n", r.FerrySide))

	totalQuota := 0
	transportedQuota := 0
	remainingQuota := 0
	for class, n := range result.ExpectedByClass {
		totalQuota += n * class.Quota()
	}
	for class, n := range result.TransportedByClass {
		transportedQuota += n * class.Quota()
	}
	for class, n := range result.Remaining.ByClass {
		remainingQuota += n * class.Quota()
	}

	sb.WriteString("\nQuota Usage:\n")
	if totalQuota > 0 {
		sb.WriteString(fmt.Sprintf("  Total quotas transported: %d / %d (%.1f%%)\n",
			transportedQuota, totalQuota, float64(transportedQuota)/float64(totalQuota)*100.0))
	}
	sb.WriteString(fmt.Sprintf("  Total remaining quotas: %d / %d\n", remainingQuota, totalQuota))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateVehicleTable renders the per-vehicle statistics table with
// per-class averages underneath.
func (g *Generator) GenerateVehicleTable(records []simulation.VehicleRecord) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Vehicle Statistics\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	if len(records) == 0 {
		sb.WriteString("No vehicles completed a trip.\n")
		return sb.String()
	}

	separator := "+----+----------+---------+-------------+-------------+-------------+------------+-------------+\n"
	sb.WriteString(separator)
	sb.WriteString("| ID | Type     | Origin  | Outbound    | Return      | At Dest.    | Trip #     | Status      |\n")
	sb.WriteString(separator)

	var totalOutbound, totalReturn, totalRoundTrip time.Duration
	classOutbound := map[simulation.Class]time.Duration{}
	classReturn := map[simulation.Class]time.Duration{}
	classCount := map[simulation.Class]int{}
	completed := 0

	for _, record := range records {
		status := "One-way"
		returnTime := time.Duration(0)
		atDest := time.Duration(0)
		returnTrip := 0
		if record.CompletedRoundTrip {
			status = "Round trip"
			returnTime = record.ReturnJourneyTime
			atDest = record.TimeAtDestination
			returnTrip = record.ReturnTrip
			completed++
			totalReturn += record.ReturnJourneyTime
			totalRoundTrip += record.RoundTripTime
			classReturn[record.Class] += record.ReturnJourneyTime
		}

		sb.WriteString(fmt.Sprintf("| %2d | %-8s | %-7s | %11s | %11s | %11s | %2d -> %-4d | %-11s |\n",
			record.ID, record.Class, strings.TrimPrefix(record.Origin, "Side_"),
			FormatDuration(record.OutboundJourneyTime),
			FormatDuration(returnTime),
			FormatDuration(atDest),
			record.OutboundTrip, returnTrip, status))
		sb.WriteString(separator)

		totalOutbound += record.OutboundJourneyTime
		classOutbound[record.Class] += record.OutboundJourneyTime
		classCount[record.Class]++
	}

	sb.WriteString("\nAverage Transport Times:\n")
	sb.WriteString(fmt.Sprintf("  All vehicles (outbound): %s\n", FormatDuration(totalOutbound/time.Duration(len(records)))))
	if completed > 0 {
		sb.WriteString(fmt.Sprintf("  All vehicles (return): %s\n", FormatDuration(totalReturn/time.Duration(completed))))
		sb.WriteString(fmt.Sprintf("  All vehicles (round trip): %s\n", FormatDuration(totalRoundTrip/time.Duration(completed))))
	}
	for _, class := range []simulation.Class{simulation.Car, simulation.Minibus, simulation.Truck} {
		if classCount[class] > 0 {
			sb.WriteString(fmt.Sprintf("  %s (outbound): %s\n", pluralClass(class),
				FormatDuration(classOutbound[class]/time.Duration(classCount[class]))))
		}
	}

	sb.WriteString(fmt.Sprintf("\nCompleted Round Trips: %d / %d (%.1f%%)\n",
		completed, len(records), float64(completed)/float64(len(records))*100.0))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateEventSummary generates a summary of events
func (g *Generator) GenerateEventSummary(events []simulation.Event) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Event Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	eventsByType := make(map[simulation.EventType]int)
	for _, event := range events {
		eventsByType[event.Type]++
	}

	sb.WriteString(fmt.Sprintf("Total Events: %d\n", len(events)))
	sb.WriteString(fmt.Sprintf("  - Vehicles Queued: %d\n", eventsByType[simulation.EventVehicleQueued]))
	sb.WriteString(fmt.Sprintf("  - Toll Services: %d\n", eventsByType[simulation.EventTollCompleted]))
	sb.WriteString(fmt.Sprintf("  - Boardings: %d\n", eventsByType[simulation.EventVehicleBoarded]))
	sb.WriteString(fmt.Sprintf("  - Crossings: %d\n", eventsByType[simulation.EventFerryDocked]))
	sb.WriteString(fmt.Sprintf("  - Round Trips: %d\n", eventsByType[simulation.EventRoundTripDone]))
	sb.WriteString(fmt.Sprintf("  - Vehicles Dropped: %d\n", eventsByType[simulation.EventVehicleDropped]))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateWarnings generates a list of warnings
func (g *Generator) GenerateWarnings(warnings []simulation.Event) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Warnings\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	if len(warnings) == 0 {
		sb.WriteString("No warnings!\n")
		return sb.String()
	}

	for _, warning := range warnings {
		timestamp := warning.Time.Format("15:04:05.000")
		sb.WriteString(fmt.Sprintf("[%s] %s\n", timestamp, warning.Message))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total Warnings: %d\n", len(warnings)))
	sb.WriteString("\n")

	return sb.String()
}

// GenerateDetailedTimeline generates a detailed timeline of events
func (g *Generator) GenerateDetailedTimeline(events []simulation.Event, limit int) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Detailed Timeline")
	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf(" (showing first %d events)", limit))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	displayCount := len(events)
	if limit > 0 && limit < displayCount {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		event := events[i]
		timestamp := event.Time.Format("15:04:05.000")

		typeIcon := " "
		switch event.Type {
		case simulation.EventVehicleQueued:
			typeIcon = "Q"
		case simulation.EventTollStarted, simulation.EventTollCompleted:
			typeIcon = "T"
		case simulation.EventVehicleBoarded:
			typeIcon = "B"
		case simulation.EventFerryDeparted, simulation.EventFerryDocked:
			typeIcon = "F"
		case simulation.EventVehicleUnloaded, simulation.EventRoundTripDone:
			typeIcon = "U"
		case simulation.EventErrandStarted:
			typeIcon = "E"
		case simulation.EventVehicleDropped, simulation.EventRecordsFull:
			typeIcon = "!"
		case simulation.EventFerryStatus:
			typeIcon = "~"
		}

		sb.WriteString(fmt.Sprintf("[%s] %s %s\n", timestamp, typeIcon, event.Message))
	}

	if limit > 0 && limit < len(events) {
		sb.WriteString(fmt.Sprintf("\n... and %d more events\n", len(events)-limit))
	}

	sb.WriteString("\n")

	return sb.String()
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// pluralClass renders a class name as a report row label.
func pluralClass(class simulation.Class) string {
	switch class {
	case simulation.Car:
		return "Cars"
	case simulation.Minibus:
		return "Minibuses"
	case simulation.Truck:
		return "Trucks"
	}
	return titleCase(class.String()) + "s"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
