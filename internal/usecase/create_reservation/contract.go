package create_reservation

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/internal/integrations/directoryservice"
	"github.com/tourbase/TB-AdmissionService/internal/integrations/licensingservice"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
}

// SlotMaterializer интерфейс материализации слотов из шаблона и переопределений
type SlotMaterializer interface {
	MaterializeSlot(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (*domain.Slot, error)
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetActivity(ctx context.Context, tenantID, activityID int64) (*directoryservice.Activity, error)
}

// LicensingServiceClient интерфейс клиента для LicensingService
type LicensingServiceClient interface {
	GetReservationQuotaWithGracefulDegradation(ctx context.Context, tenantID int64, date time.Time) (*licensingservice.Quota, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс публикации событий бронирования
type Notifier interface {
	Publish(ctx context.Context, event notify.ReservationEvent) error
}

// AvailabilityCache интерфейс инвалидации кеша доступности
type AvailabilityCache interface {
	Invalidate(ctx context.Context, keys ...string)
}

// AdmissionMetrics интерфейс счетчика исходов admission
type AdmissionMetrics interface {
	IncAdmission(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
