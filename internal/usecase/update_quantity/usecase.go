package update_quantity

import (
	"context"
	"errors"
	"fmt"

	"github.com/tourbase/TB-AdmissionService/internal/cache"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	reservationRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
	"github.com/tourbase/TB-AdmissionService/internal/service/slots"
)

const (
	outcomeCommitted    = "committed"
	outcomeOverbooked   = "overbooked"
	outcomeSlotNotFound = "slot_not_found"
	outcomeError        = "error"
)

// UseCase use case изменения количества мест бронирования
// Увеличение - это тот же admission, что и новое бронирование: дельта
// проверяется против остатка слота в сериализуемой транзакции с блокировкой
// строк. Уменьшение всегда проходит
type UseCase struct {
	reservationRepo ReservationRepository
	materializer    SlotMaterializer
	txManager       TransactionManager
	availCache      AvailabilityCache
	metrics         AdmissionMetrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	materializer SlotMaterializer,
	txManager TransactionManager,
	availCache AvailabilityCache,
	metrics AdmissionMetrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		materializer:    materializer,
		txManager:       txManager,
		availCache:      availCache,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет use case изменения количества мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateQuantity: tenant=%d, reservation=%d, newQuantity=%d",
		req.TenantID, req.ReservationID, req.NewQuantity)

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
		uc.logger.Warn("UpdateQuantity: validation failed: %v", err)
		return nil, err
	}

	var result *domain.Reservation
	var remaining int

	// 2. Проверка дельты и запись в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := uc.reservationRepo.GetByID(txCtx, req.TenantID, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateQuantity: reservation id=%d not found for tenant=%d",
					req.ReservationID, req.TenantID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateQuantity: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		if !res.ConsumesCapacity() {
			uc.logger.Warn("UpdateQuantity: reservation id=%d has status %s", res.ID, res.Status)
			return ErrReservationInactive
		}

		slot, err := uc.materializer.MaterializeSlot(txCtx, req.TenantID, res.ActivityID, res.Date, res.StartTime)
		if err != nil {
			if errors.Is(err, slots.ErrSlotNotFound) {
				uc.logger.Warn("UpdateQuantity: slot not found for reservation id=%d", res.ID)
				return ErrSlotNotFound
			}
			uc.logger.Error("UpdateQuantity: failed to materialize slot: %v", err)
			return fmt.Errorf("%w: failed to materialize slot: %v", ErrInternal, err)
		}

		// Блокируем строки слота, сумму считаем в Go
		active, err := uc.reservationRepo.GetByFilter(txCtx, domain.ReservationsFilter{
			TenantID:   req.TenantID,
			ActivityID: &res.ActivityID,
			Date:       &res.Date,
			StartTime:  &res.StartTime,
			Statuses:   domain.ConsumingStatuses,
			ForUpdate:  true,
		})
		if err != nil {
			uc.logger.Error("UpdateQuantity: failed to get slot reservations: %v", err)
			return fmt.Errorf("%w: failed to get slot reservations: %v", ErrInternal, err)
		}

		consumed := 0
		for _, r := range active {
			consumed += r.Quantity
		}

		// Дельта: собственные места бронирования из суммы вычитаются
		newConsumed := consumed - res.Quantity + req.NewQuantity
		if newConsumed > slot.TotalSeats {
			uc.logger.Warn("UpdateQuantity: overbooked, new total %d exceeds %d seats for reservation id=%d",
				newConsumed, slot.TotalSeats, res.ID)
			return ErrOverbooked
		}

		if req.NewQuantity != res.Quantity {
			if err := uc.reservationRepo.UpdateQuantity(txCtx, req.TenantID, res.ID, req.NewQuantity); err != nil {
				uc.logger.Error("UpdateQuantity: failed to update reservation id=%d: %v", res.ID, err)
				return fmt.Errorf("%w: failed to update quantity: %v", ErrInternal, err)
			}
		}

		res.Quantity = req.NewQuantity
		result = res
		remaining = slot.TotalSeats - newConsumed
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3. После коммита инвалидируем кеш доступности затронутого дня
	uc.availCache.Invalidate(ctx, cache.Key(req.TenantID, result.ActivityID, result.Date))

	uc.logger.Info("UpdateQuantity: reservation id=%d updated to quantity=%d", result.ID, result.Quantity)

	return &Response{
		ID:         result.ID,
		ActivityID: result.ActivityID,
		Date:       result.Date,
		StartTime:  result.StartTime,
		Quantity:   result.Quantity,
		Status:     string(result.Status),
		Remaining:  remaining,
	}, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.NewQuantity < domain.MinReservationQuantity || req.NewQuantity > domain.MaxReservationQuantity {
		return fmt.Errorf("%w: quantity must be between %d and %d",
			ErrInvalidInput, domain.MinReservationQuantity, domain.MaxReservationQuantity)
	}

	return nil
}

// outcomeForError классифицирует ошибку изменения количества для метрик
func outcomeForError(err error) string {
	switch {
	case errors.Is(err, ErrOverbooked):
		return outcomeOverbooked
	case errors.Is(err, ErrSlotNotFound):
		return outcomeSlotNotFound
	default:
		return outcomeError
	}
}
