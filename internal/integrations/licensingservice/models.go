package licensingservice

// Quota модель дневной квоты бронирований тенанта
// Счетчик ведет Licensing; admission проверяет его синхронно перед записью
type Quota struct {
	TenantID  int64  `json:"tenant_id"`
	Date      string `json:"date"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Unlimited bool   `json:"unlimited"`
}

// HasCapacityFor возвращает true, если квота допускает еще n бронирований
func (q *Quota) HasCapacityFor(n int) bool {
	if q.Unlimited {
		return true
	}
	return q.Used+n <= q.Limit
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ErrorResponse модель ошибки от Licensing
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
