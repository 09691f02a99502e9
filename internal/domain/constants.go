package domain

// Business validation constants
const (
	MinReservationQuantity = 1
	MaxReservationQuantity = 500
	MinSlotSeats           = 0
	MaxSlotSeats           = 10000
	MaxNotesLength         = 500
	MaxGroupMembers        = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ConsumingStatuses статусы, учитываемые при подсчете занятых мест
// Используется в SUM-запросах леджера: cancelled и completed строки
// остаются в таблице, но никогда не увеличивают потребление
var ConsumingStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses терминальные статусы бронирований
var TerminalStatuses = []ReservationStatus{
	StatusCancelled,
	StatusCompleted,
}
