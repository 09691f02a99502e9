package get_capacity_template

import "github.com/tourbase/TB-AdmissionService/internal/domain"

// TemplateEntryResponse одна строка шаблона вместимости
type TemplateEntryResponse struct {
	Weekday   int    `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	StartTime string `json:"startTime"`
	Seats     int    `json:"seats"`
}

// CapacityTemplateResponse HTTP response model
type CapacityTemplateResponse struct {
	ActivityID int64                   `json:"activityId"`
	Entries    []TemplateEntryResponse `json:"entries"`
}

// FromDomainEntries конвертирует строки шаблона в HTTP response
func FromDomainEntries(activityID int64, entries []*domain.CapacityTemplateEntry) *CapacityTemplateResponse {
	resp := &CapacityTemplateResponse{
		ActivityID: activityID,
		Entries:    make([]TemplateEntryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		resp.Entries = append(resp.Entries, TemplateEntryResponse{
			Weekday:   int(e.Weekday),
			StartTime: e.StartTime.String(),
			Seats:     e.Seats,
		})
	}

	return resp
}
