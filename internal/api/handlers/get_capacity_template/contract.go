package get_capacity_template

import (
	"context"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
)

type CapacityService interface {
	GetTemplate(ctx context.Context, tenantID, activityID int64) ([]*domain.CapacityTemplateEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
