package capacity

import "errors"

var (
	// ErrInvalidOverride возвращается, когда новое переопределение установило бы
	// вместимость ниже уже проданного количества мест. Существующие бронирования
	// не урезаются молча - оператор должен сначала разобраться с ними
	ErrInvalidOverride = errors.New("override capacity is below committed reservations")

	// ErrOverrideNotFound возвращается, когда переопределение не найдено
	ErrOverrideNotFound = errors.New("override not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
