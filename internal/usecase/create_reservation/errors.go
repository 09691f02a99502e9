package create_reservation

import "errors"

var (
	// ErrSlotNotFound возвращается, когда на запрошенную дату и время
	// нет ни строки шаблона, ни переопределения
	ErrSlotNotFound = errors.New("create_reservation: slot not found")

	// ErrOverbooked возвращается, когда запрошенное количество мест
	// превышает остаток слота
	ErrOverbooked = errors.New("create_reservation: not enough seats available")

	// ErrLicenseLimitExceeded возвращается, когда дневная квота бронирований
	// тенанта исчерпана
	ErrLicenseLimitExceeded = errors.New("create_reservation: tenant reservation limit exceeded")

	// ErrGroupPartialFailure возвращается, когда хотя бы один участник
	// группового запроса не прошел проверку вместимости. Частичного
	// зачисления не бывает - транзакция откатывается целиком
	ErrGroupPartialFailure = errors.New("create_reservation: group admission failed, no members admitted")

	// ErrActivityNotFound возвращается, когда активность не найдена в каталоге
	ErrActivityNotFound = errors.New("create_reservation: activity not found")

	// ErrInvalidDate возвращается при попытке бронирования на прошедшую дату
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
