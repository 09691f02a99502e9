package update_quantity

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_quantity: reservation not found")

	// ErrReservationInactive возвращается при попытке изменить отмененное
	// или завершенное бронирование
	ErrReservationInactive = errors.New("update_quantity: reservation is not active")

	// ErrSlotNotFound возвращается, когда слот бронирования больше не выводится
	// из шаблона или переопределения
	ErrSlotNotFound = errors.New("update_quantity: slot not found")

	// ErrOverbooked возвращается, когда увеличение количества превышает
	// остаток слота
	ErrOverbooked = errors.New("update_quantity: not enough seats available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_quantity: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_quantity: internal error")
)
