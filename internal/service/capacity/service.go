package capacity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/cache"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	capacityRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/capacity"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// Service сервис управления шаблонами вместимости и переопределениями
type Service struct {
	capacityRepo    CapacityRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	availCache      AvailabilityCache
	logger          Logger
}

// NewService создает новый экземпляр сервиса вместимости
func NewService(
	capacityRepo CapacityRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	availCache AvailabilityCache,
	logger Logger,
) *Service {
	return &Service{
		capacityRepo:    capacityRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		availCache:      availCache,
		logger:          logger,
	}
}

// GetTemplate получает шаблон вместимости активности
func (s *Service) GetTemplate(ctx context.Context, tenantID, activityID int64) ([]*domain.CapacityTemplateEntry, error) {
	entries, err := s.capacityRepo.ListTemplateEntries(ctx, tenantID, activityID)
	if err != nil {
		s.logger.Error("GetTemplate: repository error for activity=%d: %v", activityID, err)
		return nil, fmt.Errorf("%w: GetTemplate - repository error: %v", ErrInternal, err)
	}
	return entries, nil
}

// SetOverride создает или обновляет переопределение вместимости на дату
// Проверка "вместимость не ниже проданного" и запись выполняются в одной
// сериализуемой транзакции, чтобы конкурентный admission не продал места
// между проверкой и записью
func (s *Service) SetOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString, seats int) (*domain.CapacityOverride, error) {
	if seats < domain.MinSlotSeats || seats > domain.MaxSlotSeats {
		return nil, fmt.Errorf("%w: seats must be between %d and %d", ErrInvalidInput, domain.MinSlotSeats, domain.MaxSlotSeats)
	}
	if err := startTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.logger.Info("SetOverride: tenant=%d, activity=%d, date=%s, time=%s, seats=%d",
		tenantID, activityID, date.Format(domain.DateFormat), startTime, seats)

	var result *domain.CapacityOverride

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booked, err := s.bookedSeats(txCtx, tenantID, activityID, date, startTime)
		if err != nil {
			return err
		}

		if seats < booked {
			s.logger.Warn("SetOverride: rejected, seats=%d below committed=%d for activity=%d %s %s",
				seats, booked, activityID, date.Format(domain.DateFormat), startTime)
			return fmt.Errorf("%w: %d seats requested, %d already committed", ErrInvalidOverride, seats, booked)
		}

		override := &domain.CapacityOverride{
			TenantID:   tenantID,
			ActivityID: activityID,
			Date:       date,
			StartTime:  startTime,
			Seats:      seats,
		}
		result, err = s.capacityRepo.UpsertOverride(txCtx, override)
		if err != nil {
			return fmt.Errorf("%w: SetOverride - upsert override: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.availCache.Invalidate(ctx, cache.Key(tenantID, activityID, date))
	return result, nil
}

// DeleteOverride удаляет переопределение, возвращая слот к шаблонному значению
// Возврат к шаблону тоже не должен урезать проданные места: если шаблонная
// вместимость (или ее отсутствие) ниже проданного, удаление отклоняется
func (s *Service) DeleteOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) error {
	s.logger.Info("DeleteOverride: tenant=%d, activity=%d, date=%s, time=%s",
		tenantID, activityID, date.Format(domain.DateFormat), startTime)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booked, err := s.bookedSeats(txCtx, tenantID, activityID, date, startTime)
		if err != nil {
			return err
		}

		if booked > 0 {
			templateSeats, found, err := s.templateSeats(txCtx, tenantID, activityID, date.Weekday(), startTime)
			if err != nil {
				return err
			}
			if !found || templateSeats < booked {
				s.logger.Warn("DeleteOverride: rejected, template seats=%d (found=%t) below committed=%d",
					templateSeats, found, booked)
				return fmt.Errorf("%w: template allows %d seats, %d already committed", ErrInvalidOverride, templateSeats, booked)
			}
		}

		if err := s.capacityRepo.DeleteOverride(txCtx, tenantID, activityID, date, startTime); err != nil {
			if errors.Is(err, capacityRepo.ErrOverrideNotFound) {
				return ErrOverrideNotFound
			}
			return fmt.Errorf("%w: DeleteOverride - delete override: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.availCache.Invalidate(ctx, cache.Key(tenantID, activityID, date))
	return nil
}

// bookedSeats суммирует pending/confirmed места слота с блокировкой строк
func (s *Service) bookedSeats(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (int, error) {
	rows, err := s.reservationRepo.GetByFilter(ctx, domain.ReservationsFilter{
		TenantID:   tenantID,
		ActivityID: &activityID,
		Date:       &date,
		StartTime:  &startTime,
		Statuses:   domain.ConsumingStatuses,
		ForUpdate:  true,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: bookedSeats - get reservations: %v", ErrInternal, err)
	}

	booked := 0
	for _, r := range rows {
		booked += r.Quantity
	}
	return booked, nil
}

// templateSeats ищет шаблонную вместимость для дня недели и времени
func (s *Service) templateSeats(ctx context.Context, tenantID, activityID int64, weekday time.Weekday, startTime types.TimeString) (int, bool, error) {
	entries, err := s.capacityRepo.ListTemplateEntries(ctx, tenantID, activityID)
	if err != nil {
		return 0, false, fmt.Errorf("%w: templateSeats - list template entries: %v", ErrInternal, err)
	}

	for _, e := range entries {
		if e.Weekday == weekday && e.StartTime == startTime {
			return e.Seats, true, nil
		}
	}
	return 0, false, nil
}
