package domain

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Slot is a bookable (activity, date, time) unit derived from the capacity
// template and overrides. Slots are materialized on read and never persisted
// themselves; IsVirtual marks slots with no override row behind them
type Slot struct {
	ActivityID  int64
	Date        time.Time
	StartTime   types.TimeString
	TotalSeats  int
	BookedSeats int
	IsVirtual   bool
}

// Remaining returns the number of seats still available
func (s *Slot) Remaining() int {
	remaining := s.TotalSeats - s.BookedSeats
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFull returns true if the slot has no remaining seats
func (s *Slot) IsFull() bool {
	return s.Remaining() <= 0
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *Slot) OccupancyRate() float64 {
	if s.TotalSeats == 0 {
		return 0
	}
	return float64(s.BookedSeats) / float64(s.TotalSeats) * 100
}
