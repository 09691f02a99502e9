package cancel_reservation

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	reservationsService "github.com/tourbase/TB-AdmissionService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgReservationNotFound  = "бронирование не найдено"
	msgCannotCancel         = "бронирование не может быть отменено"
	msgCancelled            = "бронирование отменено"
	msgUnauthorized         = "тенант не определен"
)

type Handler struct {
	service ReservationsService
	logger  Logger
}

func NewHandler(service ReservationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	reservationID, err := strconv.ParseInt(vars["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/cancel - Invalid reservation ID: %s", vars["reservationId"])
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Тело опционально: без него отменяется только указанная строка
	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Cancel(r.Context(), tenantID, reservationID, req.CancelGroup); err != nil {
		switch {
		case errors.Is(err, reservationsService.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/cancel - Not found: reservation_id=%d, tenant_id=%d",
				reservationID, tenantID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservationsService.ErrCannotCancel):
			h.logger.Warn("POST /reservations/{id}/cancel - Cannot cancel: reservation_id=%d, tenant_id=%d",
				reservationID, tenantID)
			handlers.RespondConflict(w, msgCannotCancel)

		default:
			h.logger.Error("POST /reservations/{id}/cancel - Failed: reservation_id=%d, tenant_id=%d, error=%v",
				reservationID, tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/cancel - Cancelled: reservation_id=%d, tenant_id=%d, group=%t",
		reservationID, tenantID, req.CancelGroup)
	handlers.RespondJSON(w, http.StatusOK, CancelReservationResponse{Message: msgCancelled})
}
