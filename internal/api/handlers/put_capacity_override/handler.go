package put_capacity_override

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	capacityService "github.com/tourbase/TB-AdmissionService/internal/service/capacity"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

const (
	msgInvalidActivityID  = "некорректный ID активности"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidOverride    = "вместимость не может быть ниже уже проданных мест"
	msgUnauthorized       = "тенант не определен"
)

type Handler struct {
	service CapacityService
	logger  Logger
}

func NewHandler(service CapacityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/activities/{activityId}/overrides
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	activityID, err := strconv.ParseInt(vars["activityId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /activities/{id}/overrides - Invalid activity ID: %s", vars["activityId"])
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	var req PutOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /activities/{id}/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("PUT /activities/{id}/overrides - Invalid date: %s", req.Date)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		h.logger.Warn("PUT /activities/{id}/overrides - Invalid time: %s", req.StartTime)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.service.SetOverride(r.Context(), tenantID, activityID, date, startTime, req.Seats)
	if err != nil {
		switch {
		case errors.Is(err, capacityService.ErrInvalidOverride):
			h.logger.Warn("PUT /activities/{id}/overrides - Invalid override: activity_id=%d, tenant_id=%d, seats=%d",
				activityID, tenantID, req.Seats)
			handlers.RespondConflict(w, msgInvalidOverride)

		case errors.Is(err, capacityService.ErrInvalidInput):
			h.logger.Warn("PUT /activities/{id}/overrides - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /activities/{id}/overrides - Failed: activity_id=%d, tenant_id=%d, error=%v",
				activityID, tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /activities/{id}/overrides - Override set: activity_id=%d, tenant_id=%d, date=%s, time=%s, seats=%d",
		activityID, tenantID, req.Date, req.StartTime, req.Seats)
	handlers.RespondJSON(w, http.StatusOK, FromDomainOverride(result))
}
