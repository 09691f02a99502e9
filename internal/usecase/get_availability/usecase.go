package get_availability

import (
	"context"
	"fmt"

	"github.com/tourbase/TB-AdmissionService/internal/cache"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
)

// UseCase use case получения доступности активности на дату
// Слоты не хранятся в БД, а материализуются на чтение из шаблона
// и переопределений; занятость подтягивается суммой из леджера.
// Выдача кешируется в Redis и может чуть отставать - решение о зачислении
// всегда перепроверяется admission в транзакции
type UseCase struct {
	reservationRepo ReservationRepository
	materializer    SlotMaterializer
	availCache      AvailabilityCache
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	materializer SlotMaterializer,
	availCache AvailabilityCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		materializer:    materializer,
		availCache:      availCache,
		logger:          logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: tenant=%d, activity=%d, date=%s",
		req.TenantID, req.ActivityID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Пробуем кеш
	key := cache.Key(req.TenantID, req.ActivityID, req.Date)
	var cached Response
	if uc.availCache.Get(ctx, key, &cached) {
		uc.logger.Info("GetAvailability: cache hit for key=%s", key)
		return &cached, nil
	}

	// 3. Материализуем слоты дня
	slots, err := uc.materializer.MaterializeRange(ctx, req.TenantID, req.ActivityID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to materialize slots: %v", err)
		return nil, fmt.Errorf("%w: failed to materialize slots: %v", ErrInternal, err)
	}

	// 4. Суммы занятых мест из леджера
	sums, err := uc.reservationRepo.GetBookedSums(ctx, req.TenantID, &req.ActivityID, req.Date, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get booked sums: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked sums: %v", ErrInternal, err)
	}

	booked := make(map[string]int, len(sums))
	for _, s := range sums {
		booked[string(s.StartTime)] = s.Quantity
	}

	resp := &Response{
		ActivityID: req.ActivityID,
		Date:       req.Date.Format(domain.DateFormat),
		Slots:      make([]SlotAvailability, 0, len(slots)),
	}

	for _, slot := range slots {
		b := booked[string(slot.StartTime)]
		remaining := slot.TotalSeats - b
		if remaining < 0 {
			// Переопределение могло опустить вместимость ниже проданного
			// до введения проверки - наружу отрицательный остаток не отдаем
			remaining = 0
		}
		resp.Slots = append(resp.Slots, SlotAvailability{
			StartTime:   slot.StartTime,
			TotalSeats:  slot.TotalSeats,
			BookedSeats: b,
			Remaining:   remaining,
			IsOverride:  !slot.IsVirtual,
		})
	}

	// 5. Кладем в кеш
	uc.availCache.Set(ctx, key, resp)

	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ActivityID <= 0 {
		return fmt.Errorf("%w: activityID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
