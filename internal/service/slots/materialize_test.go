package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// 2026-07-15 - среда
var wednesday = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

func templateEntry(weekday time.Weekday, startTime string, seats int) *domain.CapacityTemplateEntry {
	return &domain.CapacityTemplateEntry{
		TenantID:   1,
		ActivityID: 10,
		Weekday:    weekday,
		StartTime:  types.TimeString(startTime),
		Seats:      seats,
	}
}

func override(date time.Time, startTime string, seats int) *domain.CapacityOverride {
	return &domain.CapacityOverride{
		TenantID:   1,
		ActivityID: 10,
		Date:       date,
		StartTime:  types.TimeString(startTime),
		Seats:      seats,
	}
}

func TestMaterialize_TemplateOnly(t *testing.T) {
	entries := []*domain.CapacityTemplateEntry{
		templateEntry(time.Wednesday, "10:00", 20),
		templateEntry(time.Wednesday, "14:00", 20),
		templateEntry(time.Thursday, "10:00", 15),
	}

	slots := materialize(entries, nil, wednesday, wednesday)

	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("14:00"), slots[1].StartTime)
	for _, s := range slots {
		assert.Equal(t, 20, s.TotalSeats)
		assert.True(t, s.IsVirtual)
	}
}

func TestMaterialize_OverridePrecedence(t *testing.T) {
	entries := []*domain.CapacityTemplateEntry{
		templateEntry(time.Wednesday, "10:00", 10),
	}
	overrides := []*domain.CapacityOverride{
		override(wednesday, "10:00", 5),
	}

	slots := materialize(entries, overrides, wednesday, wednesday)

	require.Len(t, slots, 1)
	assert.Equal(t, 5, slots[0].TotalSeats)
	assert.False(t, slots[0].IsVirtual)
}

func TestMaterialize_OverrideOnlyTime(t *testing.T) {
	// Переопределение на время, которого нет в шаблоне, порождает слот
	entries := []*domain.CapacityTemplateEntry{
		templateEntry(time.Wednesday, "10:00", 10),
	}
	overrides := []*domain.CapacityOverride{
		override(wednesday, "18:00", 8),
	}

	slots := materialize(entries, overrides, wednesday, wednesday)

	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
	assert.True(t, slots[0].IsVirtual)
	assert.Equal(t, types.TimeString("18:00"), slots[1].StartTime)
	assert.Equal(t, 8, slots[1].TotalSeats)
	assert.False(t, slots[1].IsVirtual)
}

func TestMaterialize_ClosedDay(t *testing.T) {
	// В шаблоне нет строк на четверг - день закрыт, слотов нет
	entries := []*domain.CapacityTemplateEntry{
		templateEntry(time.Wednesday, "10:00", 10),
	}

	thursday := wednesday.AddDate(0, 0, 1)
	slots := materialize(entries, nil, thursday, thursday)

	assert.Empty(t, slots)
}

func TestMaterialize_RangeSorted(t *testing.T) {
	entries := []*domain.CapacityTemplateEntry{
		templateEntry(time.Thursday, "09:00", 10),
		templateEntry(time.Wednesday, "14:00", 10),
		templateEntry(time.Wednesday, "10:00", 10),
	}

	thursday := wednesday.AddDate(0, 0, 1)
	slots := materialize(entries, nil, wednesday, thursday)

	require.Len(t, slots, 3)
	assert.Equal(t, wednesday, slots[0].Date)
	assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
	assert.Equal(t, types.TimeString("14:00"), slots[1].StartTime)
	assert.Equal(t, thursday, slots[2].Date)
	assert.Equal(t, types.TimeString("09:00"), slots[2].StartTime)
}
