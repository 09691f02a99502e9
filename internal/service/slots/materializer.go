package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	storage "github.com/tourbase/TB-AdmissionService/internal/infra/storage/capacity"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Materializer разворачивает шаблоны вместимости в конкретные слоты
// Материализация выполняется на чтении и ничего не персистит:
// слот существует как чистая функция от (шаблон, дата, переопределения)
type Materializer struct {
	capacityRepo CapacityRepository
	logger       Logger
}

// NewMaterializer создает новый экземпляр материализатора слотов
func NewMaterializer(capacityRepo CapacityRepository, logger Logger) *Materializer {
	return &Materializer{
		capacityRepo: capacityRepo,
		logger:       logger,
	}
}

// MaterializeRange материализует слоты активности за диапазон дат,
// упорядоченные по дате и времени. BookedSeats не заполняется -
// суммы занятых мест подтягивает вызывающая сторона
func (m *Materializer) MaterializeRange(ctx context.Context, tenantID, activityID int64, from, to time.Time) ([]domain.Slot, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	entries, err := m.capacityRepo.ListTemplateEntries(ctx, tenantID, activityID)
	if err != nil {
		return nil, fmt.Errorf("%w: MaterializeRange - list template entries: %v", ErrInternal, err)
	}

	overrides, err := m.capacityRepo.ListOverridesForRange(ctx, tenantID, activityID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: MaterializeRange - list overrides: %v", ErrInternal, err)
	}

	return materialize(entries, overrides, from, to), nil
}

// MaterializeSlot материализует один слот для точного (activity, date, time)
// Возвращает ErrSlotNotFound, если ни шаблон, ни переопределение не порождают
// слот в это время
func (m *Materializer) MaterializeSlot(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (*domain.Slot, error) {
	// Переопределение имеет приоритет над шаблоном
	override, err := m.capacityRepo.GetOverride(ctx, tenantID, activityID, date, startTime)
	if err != nil && !errors.Is(err, storage.ErrOverrideNotFound) {
		return nil, fmt.Errorf("%w: MaterializeSlot - get override: %v", ErrInternal, err)
	}

	if override != nil {
		return &domain.Slot{
			ActivityID: activityID,
			Date:       dateOnly(date),
			StartTime:  startTime,
			TotalSeats: override.Seats,
			IsVirtual:  false,
		}, nil
	}

	entries, err := m.capacityRepo.ListTemplateEntries(ctx, tenantID, activityID)
	if err != nil {
		return nil, fmt.Errorf("%w: MaterializeSlot - list template entries: %v", ErrInternal, err)
	}

	for _, e := range entries {
		if e.Weekday == date.Weekday() && e.StartTime == startTime {
			return &domain.Slot{
				ActivityID: activityID,
				Date:       dateOnly(date),
				StartTime:  startTime,
				TotalSeats: e.Seats,
				IsVirtual:  true,
			}, nil
		}
	}

	return nil, ErrSlotNotFound
}
