package create_reservation

import (
	"errors"
	"net/http"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	createReservation "github.com/tourbase/TB-AdmissionService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgSlotNotFound        = "слот не найден в расписании активности"
	msgOverbooked          = "недостаточно свободных мест в слоте"
	msgGroupPartialFailure = "групповое бронирование отклонено целиком: не все участники прошли проверку"
	msgLicenseLimit        = "дневной лимит бронирований тарифа исчерпан"
	msgActivityNotFound    = "активность не найдена"
	msgInvalidDate         = "некорректная дата бронирования"
	msgUnauthorized        = "тенант не определен"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrGroupPartialFailure):
			h.logger.Warn("POST /reservations - Group admission failed: tenant_id=%d, items=%d", tenantID, len(req.Items))
			handlers.RespondConflict(w, msgGroupPartialFailure)

		case errors.Is(err, createReservation.ErrOverbooked):
			h.logger.Warn("POST /reservations - Overbooked: tenant_id=%d", tenantID)
			handlers.RespondConflict(w, msgOverbooked)

		case errors.Is(err, createReservation.ErrSlotNotFound):
			h.logger.Warn("POST /reservations - Slot not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createReservation.ErrActivityNotFound):
			h.logger.Warn("POST /reservations - Activity not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgActivityNotFound)

		case errors.Is(err, createReservation.ErrLicenseLimitExceeded):
			h.logger.Warn("POST /reservations - License limit exceeded: tenant_id=%d", tenantID)
			handlers.RespondTooManyRequests(w, msgLicenseLimit)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Invalid date: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Admitted %d reservation(s): tenant_id=%d",
		len(result.Reservations), tenantID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
