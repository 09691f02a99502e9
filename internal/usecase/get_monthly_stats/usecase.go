package get_monthly_stats

import (
	"context"
	"fmt"
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/ptr"
)

// UseCase use case месячной статистики занятости для календарных тепловых карт
// Агрегат нигде не хранится: месяц материализуется один раз целиком и
// суммируется на чтение, для окна в один месяц это дешево
type UseCase struct {
	capacityRepo    CapacityRepository
	reservationRepo ReservationRepository
	materializer    SlotMaterializer
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	capacityRepo CapacityRepository,
	reservationRepo ReservationRepository,
	materializer SlotMaterializer,
	logger Logger,
) *UseCase {
	return &UseCase{
		capacityRepo:    capacityRepo,
		reservationRepo: reservationRepo,
		materializer:    materializer,
		logger:          logger,
	}
}

// Execute выполняет use case получения месячной статистики
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthlyStats: tenant=%d, year=%d, month=%d", req.TenantID, req.Year, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthlyStats: validation failed: %v", err)
		return nil, err
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	daysInMonth := to.Day()

	// 2. Определяем охват: одна активность или все активности тенанта
	activityIDs, err := uc.resolveActivityIDs(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Материализуем весь месяц по каждой активности и складываем вместимость по дням
	totalByDay := make(map[int]int, daysInMonth)
	for _, activityID := range activityIDs {
		slots, err := uc.materializer.MaterializeRange(ctx, req.TenantID, activityID, from, to)
		if err != nil {
			uc.logger.Error("GetMonthlyStats: failed to materialize activity=%d: %v", activityID, err)
			return nil, fmt.Errorf("%w: failed to materialize slots: %v", ErrInternal, err)
		}
		for _, slot := range slots {
			totalByDay[slot.Date.Day()] += slot.TotalSeats
		}
	}

	// 4. Суммы занятых мест из леджера одним запросом на весь месяц
	sums, err := uc.reservationRepo.GetBookedSums(ctx, req.TenantID, req.ActivityID, from, to)
	if err != nil {
		uc.logger.Error("GetMonthlyStats: failed to get booked sums: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked sums: %v", ErrInternal, err)
	}

	bookedByDay := make(map[int]int, daysInMonth)
	for _, s := range sums {
		bookedByDay[s.Date.Day()] += s.Quantity
	}

	// 5. Собираем статистику по каждому дню месяца
	resp := &Response{
		Year:  req.Year,
		Month: req.Month,
		Days:  make(map[int]DayStat, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		total := totalByDay[day]
		stat := DayStat{
			TotalSlots:  total,
			BookedSlots: bookedByDay[day],
		}
		// Закрытый день остается без процента занятости
		if total > 0 {
			stat.Occupancy = ptr.Ptr(float64(stat.BookedSlots) / float64(total) * 100)
		}
		resp.Days[day] = stat
	}

	return resp, nil
}

// resolveActivityIDs возвращает активности, по которым считается статистика
func (uc *UseCase) resolveActivityIDs(ctx context.Context, req *Request) ([]int64, error) {
	if req.ActivityID != nil {
		return []int64{*req.ActivityID}, nil
	}

	ids, err := uc.capacityRepo.ListTemplateActivityIDs(ctx, req.TenantID)
	if err != nil {
		uc.logger.Error("GetMonthlyStats: failed to list activities for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to list activities: %v", ErrInternal, err)
	}
	return ids, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.Year < 2000 || req.Year > 2100 {
		return fmt.Errorf("%w: year must be between 2000 and 2100", ErrInvalidInput)
	}

	if req.Month < 1 || req.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	}

	if req.ActivityID != nil && *req.ActivityID <= 0 {
		return fmt.Errorf("%w: activityID must be positive", ErrInvalidInput)
	}

	return nil
}
