package update_quantity

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Reservation, error)
	GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateQuantity(ctx context.Context, tenantID, id int64, quantity int) error
}

// SlotMaterializer интерфейс материализации слотов из шаблона и переопределений
type SlotMaterializer interface {
	MaterializeSlot(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (*domain.Slot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// AvailabilityCache интерфейс инвалидации кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, keys ...string)
}

// AdmissionMetrics интерфейс счетчика исходов admission
type AdmissionMetrics interface {
	IncAdmission(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
