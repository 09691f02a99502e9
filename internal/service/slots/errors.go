package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда ни шаблон, ни переопределение
	// не порождают слот в запрошенное время (закрытый день)
	ErrSlotNotFound = errors.New("slots: no slot at requested time")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("slots: invalid date range")

	// ErrInternal возвращается при внутренних ошибках материализатора
	ErrInternal = errors.New("slots: internal error")
)
