package put_capacity_override

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

type CapacityService interface {
	SetOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString, seats int) (*domain.CapacityOverride, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
