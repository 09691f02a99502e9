package delete_capacity_override

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
	msgInvalidActivityID = "некорректный ID активности"
	msgInvalidDateOrTime = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgOverrideNotFound  = "переопределение не найдено"
	msgInvalidOverride   = "шаблонная вместимость ниже уже проданных мест"
	msgUnauthorized      = "тенант не определен"
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

// Handle DELETE /api/v1/activities/{activityId}/overrides?date=YYYY-MM-DD&time=HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	activityID, err := strconv.ParseInt(vars["activityId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /activities/{id}/overrides - Invalid activity ID: %s", vars["activityId"])
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("DELETE /activities/{id}/overrides - Invalid date: %s", query.Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	startTime, err := types.NewTimeStringFromString(query.Get("time"))
	if err != nil {
		h.logger.Warn("DELETE /activities/{id}/overrides - Invalid time: %s", query.Get("time"))
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), tenantID, activityID, date, startTime); err != nil {
		switch {
		case errors.Is(err, capacityService.ErrOverrideNotFound):
			h.logger.Warn("DELETE /activities/{id}/overrides - Not found: activity_id=%d, tenant_id=%d",
				activityID, tenantID)
			handlers.RespondNotFound(w, msgOverrideNotFound)

		case errors.Is(err, capacityService.ErrInvalidOverride):
			h.logger.Warn("DELETE /activities/{id}/overrides - Template below committed: activity_id=%d, tenant_id=%d",
				activityID, tenantID)
			handlers.RespondConflict(w, msgInvalidOverride)

		default:
			h.logger.Error("DELETE /activities/{id}/overrides - Failed: activity_id=%d, tenant_id=%d, error=%v",
				activityID, tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /activities/{id}/overrides - Deleted: activity_id=%d, tenant_id=%d", activityID, tenantID)
	w.WriteHeader(http.StatusNoContent)
}
