package get_monthly_stats

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
)

// CapacityRepository интерфейс репозитория шаблонов вместимости
type CapacityRepository interface {
	ListTemplateActivityIDs(ctx context.Context, tenantID int64) ([]int64, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetBookedSums(ctx context.Context, tenantID int64, activityID *int64, from, to time.Time) ([]reservation.BookedSum, error)
}

// SlotMaterializer интерфейс материализации слотов из шаблона и переопределений
type SlotMaterializer interface {
	MaterializeRange(ctx context.Context, tenantID, activityID int64, from, to time.Time) ([]domain.Slot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
