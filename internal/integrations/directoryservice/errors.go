package directoryservice

import "errors"

var (
	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("activity not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directoryservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directoryservice client: invalid response")
)
