package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/cache"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	reservationRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
	"github.com/tourbase/TB-AdmissionService/internal/service/reservations/models"
)

// Service сервис чтения, сверки и отмены бронирований
// Группировка - презентационный слой над леджером, но групповая отмена
// обязана соблюдать то же правило "все или ничего", что и групповой admission
type Service struct {
	reservationRepo ReservationRepository
	txManager       TransactionManager
	availCache      AvailabilityCache
	notifier        Notifier
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	availCache AvailabilityCache,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		txManager:       txManager,
		availCache:      availCache,
		notifier:        notifier,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.ReservationResponse, error) {
	res, err := s.reservationRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetByID: reservation id=%d not found for tenant=%d", id, tenantID)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetByID: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservation(res), nil
}

// GetGroupedByDate получает бронирования на дату, свернутые в логические
// бронирования по ключу группы. Отмененные строки в выдачу не попадают
func (s *Service) GetGroupedByDate(ctx context.Context, tenantID int64, date time.Time) (*models.GroupedReservationsResponse, error) {
	s.logger.Info("GetGroupedByDate: tenant=%d, date=%s", tenantID, date.Format(domain.DateFormat))

	filter := domain.ReservationsFilter{
		TenantID: tenantID,
		Date:     &date,
		Statuses: []domain.ReservationStatus{
			domain.StatusPending,
			domain.StatusConfirmed,
			domain.StatusCompleted,
		},
	}

	rows, err := s.reservationRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetGroupedByDate: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetGroupedByDate - repository error: %v", ErrInternal, err)
	}

	groups := GroupByKey(rows)

	resp := &models.GroupedReservationsResponse{
		Date:   date.Format(domain.DateFormat),
		Groups: make([]models.GroupResponse, 0, len(groups)),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, models.FromDomainGroup(g))
	}

	s.logger.Info("GetGroupedByDate: tenant=%d, date=%s, rows=%d, groups=%d",
		tenantID, date.Format(domain.DateFormat), len(rows), len(groups))
	return resp, nil
}

// Cancel отменяет бронирование
// Отмена уже отмененного бронирования - no-op (идемпотентность): места не
// освобождаются дважды, потому что consumption определяется статусом строки.
// При cancelGroup=true и наличии ключа группы отменяются все участники
// атомарно - либо вся группа, либо никто
func (s *Service) Cancel(ctx context.Context, tenantID, reservationID int64, cancelGroup bool) error {
	s.logger.Info("Cancel: tenant=%d, reservation=%d, cancelGroup=%t", tenantID, reservationID, cancelGroup)

	target, err := s.reservationRepo.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("Cancel: reservation id=%d not found for tenant=%d", reservationID, tenantID)
			return ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	var members []*domain.Reservation
	if cancelGroup && target.HasGroupKey() {
		members, err = s.groupMembers(ctx, target)
		if err != nil {
			return err
		}
	} else {
		members = []*domain.Reservation{target}
	}

	cancelled := make([]*domain.Reservation, 0, len(members))

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, m := range members {
			// Идемпотентность: уже отмененный участник пропускается
			if m.Status == domain.StatusCancelled {
				continue
			}
			if !m.CanBeCancelled() {
				s.logger.Warn("Cancel: reservation id=%d in terminal status=%s, aborting", m.ID, m.Status)
				return ErrCannotCancel
			}
			if err := s.reservationRepo.UpdateStatus(txCtx, tenantID, m.ID, domain.StatusCancelled); err != nil {
				if errors.Is(err, reservationRepo.ErrReservationNotFound) {
					return ErrReservationNotFound
				}
				return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
			}
			cancelled = append(cancelled, m)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateAndNotify(ctx, tenantID, cancelled)

	s.logger.Info("Cancel: tenant=%d, reservation=%d, cancelled %d member(s)",
		tenantID, reservationID, len(cancelled))
	return nil
}

// UpdateStatus переводит бронирование в новый статус по конечному автомату
// pending -> confirmed -> completed; {pending, confirmed} -> cancelled
func (s *Service) UpdateStatus(ctx context.Context, tenantID, reservationID int64, status string) error {
	newStatus, err := models.ToDomainReservationStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation id=%d", status, reservationID)
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, status)
	}

	res, err := s.reservationRepo.GetByID(ctx, tenantID, reservationID)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Повторная установка текущего статуса - no-op
	if res.Status == newStatus {
		return nil
	}

	if !res.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for reservation id=%d",
			res.Status, newStatus, reservationID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, res.Status, newStatus)
	}

	if err := s.reservationRepo.UpdateStatus(ctx, tenantID, reservationID, newStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("%w: UpdateStatus - update status: %v", ErrInternal, err)
	}

	if newStatus == domain.StatusCancelled {
		s.invalidateAndNotify(ctx, tenantID, []*domain.Reservation{res})
	}

	s.logger.Info("UpdateStatus: reservation id=%d transitioned %s -> %s", reservationID, res.Status, newStatus)
	return nil
}

// groupMembers разрешает полный состав группы целевого бронирования
func (s *Service) groupMembers(ctx context.Context, target *domain.Reservation) ([]*domain.Reservation, error) {
	if target.OrderNumber != nil && *target.OrderNumber != "" {
		members, err := s.reservationRepo.GetGroupByOrderNumber(ctx, target.TenantID, *target.OrderNumber, false)
		if err != nil {
			return nil, fmt.Errorf("%w: groupMembers - by order number: %v", ErrInternal, err)
		}
		return members, nil
	}

	name, phone := "", ""
	if target.CustomerName != nil {
		name = *target.CustomerName
	}
	if target.CustomerPhone != nil {
		phone = *target.CustomerPhone
	}
	members, err := s.reservationRepo.GetGroupByPackageKey(ctx, target.TenantID, *target.PackageTourID, name, phone, target.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: groupMembers - by package key: %v", ErrInternal, err)
	}
	return members, nil
}

// invalidateAndNotify инвалидирует кеш доступности затронутых слотов и
// асинхронно публикует события отмены. Ошибки доставки не влияют на результат
func (s *Service) invalidateAndNotify(ctx context.Context, tenantID int64, cancelled []*domain.Reservation) {
	if len(cancelled) == 0 {
		return
	}

	keys := make([]string, 0, len(cancelled))
	for _, m := range cancelled {
		keys = append(keys, cache.Key(tenantID, m.ActivityID, m.Date))
	}
	s.availCache.Invalidate(ctx, keys...)

	for _, m := range cancelled {
		event := notify.ReservationEvent{
			EventType:     notify.EventReservationCancelled,
			TenantID:      tenantID,
			ReservationID: m.ID,
			ActivityID:    m.ActivityID,
			Date:          m.Date.Format(domain.DateFormat),
			StartTime:     m.StartTime.String(),
			Quantity:      m.Quantity,
			OrderNumber:   m.OrderNumber,
		}
		go func() {
			publishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.notifier.Publish(publishCtx, event)
		}()
	}
}
