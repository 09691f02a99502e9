package reservations

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Reservation, error)
	GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	GetGroupByOrderNumber(ctx context.Context, tenantID int64, orderNumber string, forUpdate bool) ([]*domain.Reservation, error)
	GetGroupByPackageKey(ctx context.Context, tenantID int64, packageTourID int64, customerName, customerPhone string, date time.Time) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status domain.ReservationStatus) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс публикации событий бронирований
type Notifier interface {
	Publish(ctx context.Context, event notify.ReservationEvent) error
}

// AvailabilityCache интерфейс инвалидации кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, keys ...string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
