package put_capacity_override

import (
	"github.com/tourbase/TB-AdmissionService/internal/domain"
)

// PutOverrideRequest HTTP request model
type PutOverrideRequest struct {
	Date      string `json:"date"`      // "2026-07-15"
	StartTime string `json:"startTime"` // "10:00"
	Seats     int    `json:"seats"`
}

// OverrideResponse HTTP response model
type OverrideResponse struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activityId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	Seats      int    `json:"seats"`
}

// FromDomainOverride конвертирует доменную модель в HTTP response
func FromDomainOverride(o *domain.CapacityOverride) *OverrideResponse {
	return &OverrideResponse{
		ID:         o.ID,
		ActivityID: o.ActivityID,
		Date:       o.Date.Format(domain.DateFormat),
		StartTime:  o.StartTime.String(),
		Seats:      o.Seats,
	}
}
