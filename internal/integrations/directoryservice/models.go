package directoryservice

// Activity модель активности из Activity Directory
type Activity struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ErrorResponse модель ошибки от Activity Directory
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
