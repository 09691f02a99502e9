package update_quantity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	updateQuantity "github.com/tourbase/TB-AdmissionService/internal/usecase/update_quantity"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgReservationNotFound  = "бронирование не найдено"
	msgReservationInactive  = "бронирование уже отменено или завершено"
	msgSlotNotFound         = "слот бронирования не найден в расписании"
	msgOverbooked           = "недостаточно свободных мест в слоте"
	msgUnauthorized         = "тенант не определен"
)

type Handler struct {
	useCase UpdateQuantityUseCase
	logger  Logger
}

func NewHandler(useCase UpdateQuantityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/quantity
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/quantity - Invalid reservation ID: %s", vars["reservationId"])
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateQuantityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/quantity - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &updateQuantity.Request{
		TenantID:      tenantID,
		ReservationID: reservationID,
		NewQuantity:   req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, updateQuantity.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/quantity - Not found: reservation_id=%d, tenant_id=%d",
				reservationID, tenantID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, updateQuantity.ErrReservationInactive):
			h.logger.Warn("PATCH /reservations/{id}/quantity - Inactive: reservation_id=%d, tenant_id=%d",
				reservationID, tenantID)
			handlers.RespondConflict(w, msgReservationInactive)

		case errors.Is(err, updateQuantity.ErrSlotNotFound):
			h.logger.Warn("PATCH /reservations/{id}/quantity - Slot not found: reservation_id=%d, tenant_id=%d",
				reservationID, tenantID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, updateQuantity.ErrOverbooked):
			h.logger.Warn("PATCH /reservations/{id}/quantity - Overbooked: reservation_id=%d, tenant_id=%d",
				reservationID, tenantID)
			handlers.RespondConflict(w, msgOverbooked)

		case errors.Is(err, updateQuantity.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/quantity - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /reservations/{id}/quantity - Failed: reservation_id=%d, tenant_id=%d, error=%v",
				reservationID, tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/quantity - Updated: reservation_id=%d, tenant_id=%d, quantity=%d",
		reservationID, tenantID, result.Quantity)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
