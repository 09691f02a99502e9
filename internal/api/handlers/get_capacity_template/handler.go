package get_capacity_template

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
)

const (
	msgInvalidActivityID = "некорректный ID активности"
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

// Handle GET /api/v1/activities/{activityId}/capacity-template
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)
	activityID, err := strconv.ParseInt(vars["activityId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /activities/{id}/capacity-template - Invalid activity ID: %s", vars["activityId"])
		handlers.RespondBadRequest(w, msgInvalidActivityID)
		return
	}

	entries, err := h.service.GetTemplate(r.Context(), tenantID, activityID)
	if err != nil {
		h.logger.Error("GET /activities/{id}/capacity-template - Failed: activity_id=%d, tenant_id=%d, error=%v",
			activityID, tenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomainEntries(activityID, entries))
}
