package update_quantity

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Request модель запроса изменения количества мест бронирования
type Request struct {
	TenantID      int64 // ID тенанта
	ReservationID int64 // ID бронирования
	NewQuantity   int   // Новое количество мест
}

// Response модель ответа с обновленным бронированием
type Response struct {
	ID         int64            // ID бронирования
	ActivityID int64            // ID активности
	Date       time.Time        // Дата слота
	StartTime  types.TimeString // Время начала
	Quantity   int              // Новое количество мест
	Status     string           // Статус бронирования
	Remaining  int              // Остаток мест слота после изменения
}
