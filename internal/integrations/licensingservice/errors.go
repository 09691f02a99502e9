package licensingservice

import "errors"

var (
	// ErrQuotaExceeded возвращается, когда дневная квота бронирований тенанта исчерпана
	ErrQuotaExceeded = errors.New("tenant daily reservation quota exceeded")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("licensingservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("licensingservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что Licensing недоступен и проверку квоты пропустили
	ErrServiceDegraded = errors.New("licensingservice unavailable: graceful degradation applied")
)
