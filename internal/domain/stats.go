package domain

// DayStat is the per-day occupancy roll-up used by calendar heat-maps.
// Occupancy is nil when the day has no slots at all (closed day), which
// downstream renders as a no-data state rather than 0%
type DayStat struct {
	TotalSlots  int
	BookedSlots int
	Occupancy   *float64
}

// MonthlyStats maps day-of-month to its occupancy roll-up
type MonthlyStats map[int]DayStat
