package get_monthly_stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tourbase/TB-AdmissionService/internal/api/handlers"
	"github.com/tourbase/TB-AdmissionService/internal/api/middleware"
	getMonthlyStats "github.com/tourbase/TB-AdmissionService/internal/usecase/get_monthly_stats"
)

const (
	msgInvalidYearMonth  = "некорректные параметры year и month"
	msgInvalidActivityID = "некорректный параметр activityId"
	msgUnauthorized      = "тенант не определен"
)

type Handler struct {
	useCase GetMonthlyStatsUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthlyStatsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stats/monthly?year=2026&month=7[&activityId=42]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	query := r.URL.Query()

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidYearMonth)
		return
	}

	req := &getMonthlyStats.Request{
		TenantID: tenantID,
		Year:     year,
		Month:    month,
	}

	if raw := query.Get("activityId"); raw != "" {
		activityID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidActivityID)
			return
		}
		req.ActivityID = &activityID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, getMonthlyStats.ErrInvalidInput) {
			h.logger.Warn("GET /stats/monthly - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidYearMonth)
			return
		}
		h.logger.Error("GET /stats/monthly - Failed: tenant_id=%d, year=%d, month=%d, error=%v",
			tenantID, year, month, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
