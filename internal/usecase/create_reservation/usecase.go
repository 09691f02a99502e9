package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/cache"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	directoryClient "github.com/tourbase/TB-AdmissionService/internal/integrations/directoryservice"
	licensingClient "github.com/tourbase/TB-AdmissionService/internal/integrations/licensingservice"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
	"github.com/tourbase/TB-AdmissionService/internal/service/slots"
)

// Счетчики исходов admission для метрик
const (
	outcomeCommitted           = "committed"
	outcomeOverbooked          = "overbooked"
	outcomeSlotNotFound        = "slot_not_found"
	outcomeLicenseLimit        = "license_limit"
	outcomeGroupPartialFailure = "group_partial_failure"
	outcomeError               = "error"
)

// UseCase use case зачисления бронирований (admission)
// Проверка вместимости и запись выполняются в одной сериализуемой транзакции
// с блокировкой строк слота, поэтому два конкурентных запроса на последние
// места не могут пройти оба
type UseCase struct {
	reservationRepo ReservationRepository
	materializer    SlotMaterializer
	directoryClient DirectoryServiceClient
	licensingClient LicensingServiceClient
	txManager       TransactionManager
	availCache      AvailabilityCache
	notifier        Notifier
	metrics         AdmissionMetrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	materializer SlotMaterializer,
	directoryClient DirectoryServiceClient,
	licensingClient LicensingServiceClient,
	txManager TransactionManager,
	availCache AvailabilityCache,
	notifier Notifier,
	metrics AdmissionMetrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		materializer:    materializer,
		directoryClient: directoryClient,
		licensingClient: licensingClient,
		txManager:       txManager,
		availCache:      availCache,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case зачисления бронирований
// Групповой запрос (len(Items) > 1) зачисляется по принципу "все или ничего":
// отказ любого участника откатывает транзакцию целиком
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: tenant=%d, items=%d", req.TenantID, len(req.Items))

	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.IncAdmission(outcomeForError(err))
		return nil, err
	}

	uc.metrics.IncAdmission(outcomeCommitted)
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем даты
	now := uc.timeProvider.Now()
	if err := validateDates(req.Items, now); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем активности в каталоге
	activityNames, err := uc.fetchActivities(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Проверяем дневную квоту тенанта
	degraded, err := uc.checkQuota(ctx, req.TenantID, now, len(req.Items))
	if err != nil {
		return nil, err
	}

	// 5. Упорядочиваем участников по (activityID, date, startTime):
	// все конкурентные транзакции блокируют слоты в одном и том же порядке,
	// что исключает deadlock при пересекающихся группах
	order := make([]int, len(req.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := req.Items[order[a]], req.Items[order[b]]
		if ia.ActivityID != ib.ActivityID {
			return ia.ActivityID < ib.ActivityID
		}
		if !ia.Date.Equal(ib.Date) {
			return ia.Date.Before(ib.Date)
		}
		return ia.StartTime.IsBefore(ib.StartTime)
	})

	isGroup := len(req.Items) > 1
	created := make([]*domain.Reservation, len(req.Items))
	remaining := make([]int, len(req.Items))

	// 6. Проверка вместимости и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, idx := range order {
			item := req.Items[idx]

			res, left, err := uc.admitMember(txCtx, req, item)
			if err != nil {
				if isGroup && isMemberFailure(err) {
					uc.logger.Warn("CreateReservation: group member activity=%d %s %s rejected: %v",
						item.ActivityID, item.Date.Format(domain.DateFormat), item.StartTime, err)
					return fmt.Errorf("%w: activity=%d date=%s time=%s: %v",
						ErrGroupPartialFailure, item.ActivityID, item.Date.Format(domain.DateFormat), item.StartTime, err)
				}
				return err
			}

			created[idx] = res
			remaining[idx] = left
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 7. После коммита: инвалидация кеша и уведомления
	uc.invalidateAndNotify(ctx, req, created, activityNames)

	resp := &Response{
		Reservations: make([]AdmittedReservation, len(created)),
		Degraded:     degraded,
	}
	for i, res := range created {
		resp.Reservations[i] = AdmittedReservation{
			ID:         res.ID,
			ActivityID: res.ActivityID,
			Date:       res.Date,
			StartTime:  res.StartTime,
			Quantity:   res.Quantity,
			Status:     string(res.Status),
			Remaining:  remaining[i],
			CreatedAt:  res.CreatedAt,
		}
	}

	uc.logger.Info("CreateReservation: admitted %d reservation(s) for tenant=%d", len(created), req.TenantID)
	return resp, nil
}

// admitMember проверяет вместимость одного слота и записывает бронирование
// Вызывается только внутри транзакции: строки слота блокируются FOR UPDATE,
// сумма считается в Go, так как Postgres не допускает агрегаты с FOR UPDATE
func (uc *UseCase) admitMember(txCtx context.Context, req *Request, item RequestItem) (*domain.Reservation, int, error) {
	slot, err := uc.materializer.MaterializeSlot(txCtx, req.TenantID, item.ActivityID, item.Date, item.StartTime)
	if err != nil {
		if errors.Is(err, slots.ErrSlotNotFound) {
			uc.logger.Warn("CreateReservation: slot not found, activity=%d, date=%s, time=%s",
				item.ActivityID, item.Date.Format(domain.DateFormat), item.StartTime)
			return nil, 0, ErrSlotNotFound
		}
		uc.logger.Error("CreateReservation: failed to materialize slot: %v", err)
		return nil, 0, fmt.Errorf("%w: failed to materialize slot: %v", ErrInternal, err)
	}

	active, err := uc.reservationRepo.GetByFilter(txCtx, domain.ReservationsFilter{
		TenantID:   req.TenantID,
		ActivityID: &item.ActivityID,
		Date:       &item.Date,
		StartTime:  &item.StartTime,
		Statuses:   domain.ConsumingStatuses,
		ForUpdate:  true,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to get slot reservations: %v", err)
		return nil, 0, fmt.Errorf("%w: failed to get slot reservations: %v", ErrInternal, err)
	}

	consumed := sumConsumed(active)
	if consumed+item.Quantity > slot.TotalSeats {
		uc.logger.Warn("CreateReservation: overbooked, requested=%d, consumed=%d/%d, activity=%d %s %s",
			item.Quantity, consumed, slot.TotalSeats, item.ActivityID, item.Date.Format(domain.DateFormat), item.StartTime)
		return nil, 0, ErrOverbooked
	}

	res, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
		TenantID:      req.TenantID,
		ActivityID:    item.ActivityID,
		Date:          item.Date,
		StartTime:     item.StartTime,
		Quantity:      item.Quantity,
		Status:        domain.StatusConfirmed,
		OrderNumber:   req.OrderNumber,
		PackageTourID: req.PackageTourID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
		return nil, 0, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
	}

	return res, slot.TotalSeats - consumed - item.Quantity, nil
}

// fetchActivities проверяет каждую активность запроса в каталоге
// и возвращает их названия для событий уведомлений
func (uc *UseCase) fetchActivities(ctx context.Context, req *Request) (map[int64]string, error) {
	names := make(map[int64]string)

	for _, activityID := range uniqueActivityIDs(req.Items) {
		activity, err := uc.directoryClient.GetActivity(ctx, req.TenantID, activityID)
		if err != nil {
			if errors.Is(err, directoryClient.ErrActivityNotFound) {
				uc.logger.Warn("CreateReservation: activity id=%d not found for tenant=%d", activityID, req.TenantID)
				return nil, ErrActivityNotFound
			}
			uc.logger.Error("CreateReservation: failed to get activity id=%d: %v", activityID, err)
			return nil, fmt.Errorf("%w: failed to get activity: %v", ErrInternal, err)
		}
		names[activityID] = activity.Name
	}

	return names, nil
}

// checkQuota проверяет дневную квоту тенанта в Licensing
// Возвращает degraded=true, когда Licensing недоступен и проверка пропущена
func (uc *UseCase) checkQuota(ctx context.Context, tenantID int64, now time.Time, n int) (bool, error) {
	quota, err := uc.licensingClient.GetReservationQuotaWithGracefulDegradation(ctx, tenantID, now)
	if err != nil {
		if errors.Is(err, licensingClient.ErrQuotaExceeded) {
			uc.logger.Warn("CreateReservation: quota exceeded for tenant=%d", tenantID)
			return false, ErrLicenseLimitExceeded
		}
		if errors.Is(err, licensingClient.ErrServiceDegraded) {
			uc.logger.Warn("CreateReservation: licensing degraded, admitting tenant=%d without quota check", tenantID)
			return true, nil
		}
		uc.logger.Error("CreateReservation: failed to get quota for tenant=%d: %v", tenantID, err)
		return false, fmt.Errorf("%w: failed to get quota: %v", ErrInternal, err)
	}

	if !quota.HasCapacityFor(n) {
		uc.logger.Warn("CreateReservation: quota %d/%d does not allow %d more for tenant=%d",
			quota.Used, quota.Limit, n, tenantID)
		return false, ErrLicenseLimitExceeded
	}

	return false, nil
}

// invalidateAndNotify инвалидирует кеш затронутых дней и публикует события
// Уведомления fire-and-forget: бронирования уже закоммичены, отказ брокера
// их не отменяет
func (uc *UseCase) invalidateAndNotify(ctx context.Context, req *Request, created []*domain.Reservation, activityNames map[int64]string) {
	keys := make([]string, 0, len(created))
	for _, res := range created {
		keys = append(keys, cache.Key(req.TenantID, res.ActivityID, res.Date))
	}
	uc.availCache.Invalidate(ctx, keys...)

	events := make([]notify.ReservationEvent, 0, len(created))
	for _, res := range created {
		events = append(events, notify.ReservationEvent{
			EventType:     notify.EventReservationConfirmed,
			TenantID:      res.TenantID,
			ReservationID: res.ID,
			ActivityID:    res.ActivityID,
			ActivityName:  activityNames[res.ActivityID],
			Date:          res.Date.Format(domain.DateFormat),
			StartTime:     string(res.StartTime),
			Quantity:      res.Quantity,
			OrderNumber:   res.OrderNumber,
		})
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, event := range events {
			if err := uc.notifier.Publish(pubCtx, event); err != nil {
				uc.logger.Warn("CreateReservation: failed to publish event for reservation id=%d: %v",
					event.ReservationID, err)
			}
		}
	}()
}

// isMemberFailure возвращает true для отказов уровня одного участника группы
func isMemberFailure(err error) bool {
	return errors.Is(err, ErrOverbooked) || errors.Is(err, ErrSlotNotFound)
}

// outcomeForError классифицирует ошибку admission для метрик
func outcomeForError(err error) string {
	switch {
	case errors.Is(err, ErrOverbooked):
		return outcomeOverbooked
	case errors.Is(err, ErrSlotNotFound):
		return outcomeSlotNotFound
	case errors.Is(err, ErrLicenseLimitExceeded):
		return outcomeLicenseLimit
	case errors.Is(err, ErrGroupPartialFailure):
		return outcomeGroupPartialFailure
	default:
		return outcomeError
	}
}
