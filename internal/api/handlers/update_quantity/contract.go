package update_quantity

import (
	"context"

	updateQuantity "github.com/tourbase/TB-AdmissionService/internal/usecase/update_quantity"
)

type UpdateQuantityUseCase interface {
	Execute(ctx context.Context, req *updateQuantity.Request) (*updateQuantity.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
