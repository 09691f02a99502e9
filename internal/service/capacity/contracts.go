package capacity

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// CapacityRepository интерфейс репозитория шаблонов и переопределений
type CapacityRepository interface {
	ListTemplateEntries(ctx context.Context, tenantID, activityID int64) ([]*domain.CapacityTemplateEntry, error)
	GetOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (*domain.CapacityOverride, error)
	UpsertOverride(ctx context.Context, override *domain.CapacityOverride) (*domain.CapacityOverride, error)
	DeleteOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) error
}

// ReservationRepository интерфейс репозитория бронирований
// Нужен для проверки, что переопределение не урезает уже проданные места
type ReservationRepository interface {
	GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
