package domain

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Reservation represents seats consumed from a slot
// Group key fields tie several rows into one logical booking:
// an explicit order number, or the (packageTourId, customerName,
// customerPhone) tuple for manually entered package bookings
type Reservation struct {
	ID         int64
	TenantID   int64
	ActivityID int64
	Date       time.Time
	StartTime  types.TimeString
	Quantity   int
	Status     ReservationStatus

	OrderNumber   *string
	PackageTourID *int64
	CustomerName  *string
	CustomerPhone *string

	Notes *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConsumesCapacity returns true if the reservation counts toward the
// booked-seat sum of its slot. Only pending and confirmed rows consume seats
func (r *Reservation) ConsumesCapacity() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsTerminal returns true if the reservation is in a terminal state
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusCompleted
}

// CanTransitionTo validates the status state machine:
// pending -> confirmed -> completed, {pending, confirmed} -> cancelled
func (r *Reservation) CanTransitionTo(next ReservationStatus) bool {
	switch r.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// HasGroupKey returns true if the reservation carries any group correlation key
func (r *Reservation) HasGroupKey() bool {
	return r.OrderNumber != nil || r.PackageTourID != nil
}

// ReservationsFilter фильтр для выборки бронирований
type ReservationsFilter struct {
	TenantID   int64               // Обязательный параметр
	ActivityID *int64              // Фильтр по активности (опционально)
	Date       *time.Time          // Фильтр по дате (опционально)
	StartTime  *types.TimeString   // Фильтр по времени слота (опционально)
	Statuses   []ReservationStatus // Фильтр по статусам (опционально)
	ForUpdate  bool                // Блокировать выбранные строки (только внутри транзакции)
}
