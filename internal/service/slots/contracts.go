package slots

import (
	"context"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// CapacityRepository интерфейс репозитория шаблонов и переопределений
type CapacityRepository interface {
	ListTemplateEntries(ctx context.Context, tenantID, activityID int64) ([]*domain.CapacityTemplateEntry, error)
	ListOverridesForRange(ctx context.Context, tenantID, activityID int64, from, to time.Time) ([]*domain.CapacityOverride, error)
	GetOverride(ctx context.Context, tenantID, activityID int64, date time.Time, startTime types.TimeString) (*domain.CapacityOverride, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
