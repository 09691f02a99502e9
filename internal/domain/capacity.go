package domain

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// CapacityTemplateEntry defines the default recurring inventory of an
// activity: on the given weekday, at the given time, this many seats exist
type CapacityTemplateEntry struct {
	ID         int64
	TenantID   int64
	ActivityID int64
	Weekday    time.Weekday
	StartTime  types.TimeString
	Seats      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CapacityOverride is a date-specific exception to the template.
// A row is persisted only when an operator changes the seat count for a
// concrete date, or once a reservation exists against that date/time
type CapacityOverride struct {
	ID         int64
	TenantID   int64
	ActivityID int64
	Date       time.Time
	StartTime  types.TimeString
	Seats      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
