package cancel_reservation

import "context"

type ReservationsService interface {
	Cancel(ctx context.Context, tenantID, reservationID int64, cancelGroup bool) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
