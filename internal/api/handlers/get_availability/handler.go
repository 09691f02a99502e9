package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	getAvailability "github.com/tourbase/TB-AdmissionService/internal/usecase/get_availability"
)

const (
	msgInvalidActivityID = "некорректный ID активности"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDate       = "параметр date обязателен"
	msgUnauthorized      = "тенант не определен"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/activities/{activityId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	activityID, err := strconv.ParseInt(vars["activityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/availability - Invalid activity ID: %s", vars["activityId"])
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/availability - Invalid date: %s", rawDate)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		TenantID:   tenantID,
		ActivityID: activityID,
		Date:       date,
	})
	if err != nil {
		if errors.Is(err, getAvailability.ErrInvalidInput) {
			h.logger.Warn("GET /activities/{id}/availability - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidActivityID)
			return
		}
		h.logger.Error("GET /activities/{id}/availability - Failed: activity_id=%d, tenant_id=%d, error=%v",
			activityID, tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
