package get_grouped_reservations

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/service/reservations/models"
)

type ReservationsService interface {
	GetGroupedByDate(ctx context.Context, tenantID int64, date time.Time) (*models.GroupedReservationsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
