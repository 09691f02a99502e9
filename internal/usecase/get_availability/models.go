package get_availability

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Request модель запроса доступности активности на дату
type Request struct {
	TenantID   int64     // ID тенанта
	ActivityID int64     // ID активности
	Date       time.Time // Дата (без времени)
}

// SlotAvailability доступность одного слота
type SlotAvailability struct {
	StartTime   types.TimeString `json:"startTime"`
	TotalSeats  int              `json:"totalSeats"`
	BookedSeats int              `json:"bookedSeats"`
	Remaining   int              `json:"remaining"`
	IsOverride  bool             `json:"isOverride"`
}

// Response модель ответа с доступностью на дату
// Слоты отсортированы по времени начала; у закрытого дня список пуст
type Response struct {
	ActivityID int64              `json:"activityId"`
	Date       string             `json:"date"`
	Slots      []SlotAvailability `json:"slots"`
}
