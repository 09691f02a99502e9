package get_monthly_stats

import (
	"context"

	getMonthlyStats "github.com/tourbase/TB-AdmissionService/internal/usecase/get_monthly_stats"
)

type GetMonthlyStatsUseCase interface {
	Execute(ctx context.Context, req *getMonthlyStats.Request) (*getMonthlyStats.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
