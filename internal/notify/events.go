package notify

// ReservationEvent сообщение о событии бронирования для очереди уведомлений
// Содержит достаточно данных, чтобы потребители отправляли уведомления
// без обращения к основной БД
type ReservationEvent struct {
	EventID       string  `json:"event_id"`
	EventType     string  `json:"event_type"` // reservation.confirmed | reservation.cancelled
	TenantID      int64   `json:"tenant_id"`
	ReservationID int64   `json:"reservation_id"`
	ActivityID    int64   `json:"activity_id"`
	ActivityName  string  `json:"activity_name,omitempty"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	Quantity      int     `json:"quantity"`
	OrderNumber   *string `json:"order_number,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}

const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)
