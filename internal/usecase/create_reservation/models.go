package create_reservation

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// RequestItem один участник запроса на бронирование
type RequestItem struct {
	ActivityID int64            // ID активности из каталога
	Date       time.Time        // Дата слота (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Quantity   int              // Количество мест
}

// Request модель запроса на создание бронирования
// Один элемент Items - одиночное бронирование, несколько - групповое:
// либо зачисляются все участники, либо ни один
type Request struct {
	TenantID      int64         // ID тенанта
	Items         []RequestItem // Участники запроса, минимум один
	OrderNumber   *string       // Номер заказа для связи в группу (опционально)
	PackageTourID *int64        // ID пакетного тура (опционально)
	CustomerName  *string       // Имя клиента (опционально)
	CustomerPhone *string       // Телефон клиента (опционально)
	Notes         *string       // Дополнительные заметки (опционально)
}

// AdmittedReservation одно зачисленное бронирование в ответе
type AdmittedReservation struct {
	ID         int64            // ID созданного бронирования
	ActivityID int64            // ID активности
	Date       time.Time        // Дата слота
	StartTime  types.TimeString // Время начала
	Quantity   int              // Количество мест
	Status     string           // Статус бронирования
	Remaining  int              // Остаток мест слота после зачисления
	CreatedAt  time.Time        // Время создания
}

// Response модель ответа с зачисленными бронированиями
type Response struct {
	Reservations []AdmittedReservation // Зачисленные бронирования, в порядке Items
	Degraded     bool                  // true, если проверка квоты была пропущена из-за недоступности Licensing
}
