package slots

import (
	"sort"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// materialize разворачивает шаблон и переопределения в конкретные слоты
// диапазона дат. Чистая функция без побочных эффектов: ничего не пишет
// и не обращается к хранилищу
//
// Для каждой даты берутся строки шаблона с совпадающим днем недели; при
// наличии переопределения на точное (date, time) используется его
// вместимость и слот помечается невиртуальным. Переопределение на время,
// которого нет в шаблоне, тоже порождает слот. День без строк шаблона и
// переопределений не порождает слотов вовсе ("закрытый день")
func materialize(
	entries []*domain.CapacityTemplateEntry,
	overrides []*domain.CapacityOverride,
	from, to time.Time,
) []domain.Slot {
	byWeekday := make(map[time.Weekday][]*domain.CapacityTemplateEntry)
	for _, e := range entries {
		byWeekday[e.Weekday] = append(byWeekday[e.Weekday], e)
	}

	overrideKey := func(date time.Time, t types.TimeString) string {
		return date.Format(domain.DateFormat) + "|" + t.String()
	}
	overrideByKey := make(map[string]*domain.CapacityOverride, len(overrides))
	for _, o := range overrides {
		overrideByKey[overrideKey(o.Date, o.StartTime)] = o
	}

	slots := make([]domain.Slot, 0)

	for date := dateOnly(from); !date.After(dateOnly(to)); date = date.AddDate(0, 0, 1) {
		seen := make(map[types.TimeString]bool)

		for _, e := range byWeekday[date.Weekday()] {
			slot := domain.Slot{
				ActivityID: e.ActivityID,
				Date:       date,
				StartTime:  e.StartTime,
				TotalSeats: e.Seats,
				IsVirtual:  true,
			}
			if o, ok := overrideByKey[overrideKey(date, e.StartTime)]; ok {
				slot.TotalSeats = o.Seats
				slot.IsVirtual = false
			}
			slots = append(slots, slot)
			seen[e.StartTime] = true
		}

		// Переопределения на времена, отсутствующие в шаблоне этого дня
		for _, o := range overrides {
			if !sameDay(o.Date, date) || seen[o.StartTime] {
				continue
			}
			slots = append(slots, domain.Slot{
				ActivityID: o.ActivityID,
				Date:       date,
				StartTime:  o.StartTime,
				TotalSeats: o.Seats,
				IsVirtual:  false,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}

// dateOnly обнуляет компонент времени
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
