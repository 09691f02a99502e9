package get_monthly_stats

// Request модель запроса месячной статистики занятости
type Request struct {
	TenantID   int64  // ID тенанта
	Year       int    // Год (например, 2026)
	Month      int    // Месяц (1-12)
	ActivityID *int64 // ID активности; nil - по всем активностям тенанта
}

// DayStat статистика занятости одного дня месяца
// Occupancy nil означает отсутствие данных (в этот день нет слотов),
// календарь рисует его как "нет данных", а не как 0%
type DayStat struct {
	TotalSlots  int      `json:"totalSlots"`
	BookedSlots int      `json:"bookedSlots"`
	Occupancy   *float64 `json:"occupancy"`
}

// Response модель ответа с месячной статистикой
// Days содержит запись для каждого дня месяца, от 1 до последнего числа
type Response struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Days  map[int]DayStat `json:"days"`
}
