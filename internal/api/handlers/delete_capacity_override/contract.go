package delete_capacity_override

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

type CapacityService interface {
	DeleteOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
