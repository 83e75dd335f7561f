package sim

import "fmt"

// Tick granularity and horizon. One tick is 15 minutes; the horizon is one
// non-leap year.
const (
	MinutesPerTick = 15
	TicksPerHour   = 4
	TicksPerDay    = 96
	DaysPerYear    = 365
	TicksPerYear   = TicksPerDay * DaysPerYear // 35040
	HoursPerDay    = 24
)

// TickToHour maps a tick index to its hour of day (0-23).
func TickToHour(tick int) int {
	return (tick % TicksPerDay) / TicksPerHour
}

// TickToTimestamp renders a tick as "Day N, HH:MM" with 1-based days.
// Used for diagnostics and traces only.
func TickToTimestamp(tick int) string {
	day := tick/TicksPerDay + 1
	tickOfDay := tick % TicksPerDay
	hour := tickOfDay / TicksPerHour
	minute := (tickOfDay % TicksPerHour) * MinutesPerTick
	return fmt.Sprintf("Day %d, %02d:%02d", day, hour, minute)
}

// TicksToHours converts a tick count to hours.
func TicksToHours(ticks float64) float64 {
	return ticks / TicksPerHour
}
