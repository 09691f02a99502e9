package get_monthly_stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
	"github.com/tourbase/TB-AdmissionService/pkg/ptr"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

type fakeCapacityRepo struct {
	activityIDs []int64
}

func (r *fakeCapacityRepo) ListTemplateActivityIDs(_ context.Context, _ int64) ([]int64, error) {
	return r.activityIDs, nil
}

type fakeReservationRepo struct {
	sums []reservation.BookedSum
}

func (r *fakeReservationRepo) GetBookedSums(_ context.Context, _ int64, activityID *int64, _, _ time.Time) ([]reservation.BookedSum, error) {
	if activityID == nil {
		return r.sums, nil
	}
	filtered := make([]reservation.BookedSum, 0)
	for _, s := range r.sums {
		if s.ActivityID == *activityID {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

type fakeMaterializer struct {
	// activityID -> слоты за месяц
	slots map[int64][]domain.Slot
}

func (m *fakeMaterializer) MaterializeRange(_ context.Context, _, activityID int64, _, _ time.Time) ([]domain.Slot, error) {
	return m.slots[activityID], nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func julySlot(activityID int64, day int, startTime types.TimeString, seats int) domain.Slot {
	return domain.Slot{
		ActivityID: activityID,
		Date:       time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC),
		StartTime:  startTime,
		TotalSeats: seats,
		IsVirtual:  true,
	}
}

func julySum(activityID int64, day int, startTime types.TimeString, quantity int) reservation.BookedSum {
	return reservation.BookedSum{
		ActivityID: activityID,
		Date:       time.Date(2026, 7, day, 0, 0, 0, 0, time.UTC),
		StartTime:  startTime,
		Quantity:   quantity,
	}
}

func TestExecute_SingleActivity(t *testing.T) {
	uc := NewUseCase(
		&fakeCapacityRepo{},
		&fakeReservationRepo{sums: []reservation.BookedSum{
			julySum(10, 6, "10:00", 7),
			julySum(10, 6, "14:00", 3),
		}},
		&fakeMaterializer{slots: map[int64][]domain.Slot{
			10: {
				julySlot(10, 6, "10:00", 15),
				julySlot(10, 6, "14:00", 5),
				julySlot(10, 13, "10:00", 15),
			},
		}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Year: 2026, Month: 7, ActivityID: ptr.Ptr(int64(10)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, 7, resp.Month)

	// В июле 31 день, запись есть для каждого
	assert.Len(t, resp.Days, 31)

	day6 := resp.Days[6]
	assert.Equal(t, 20, day6.TotalSlots)
	assert.Equal(t, 10, day6.BookedSlots)
	require.NotNil(t, day6.Occupancy)
	assert.InDelta(t, 50.0, *day6.Occupancy, 0.001)

	// День со слотами без бронирований - 0%, а не nil
	day13 := resp.Days[13]
	assert.Equal(t, 15, day13.TotalSlots)
	assert.Equal(t, 0, day13.BookedSlots)
	require.NotNil(t, day13.Occupancy)
	assert.Zero(t, *day13.Occupancy)
}

func TestExecute_ClosedDayHasNilOccupancy(t *testing.T) {
	uc := NewUseCase(
		&fakeCapacityRepo{},
		&fakeReservationRepo{},
		&fakeMaterializer{slots: map[int64][]domain.Slot{
			10: {julySlot(10, 6, "10:00", 15)},
		}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID: 1, Year: 2026, Month: 7, ActivityID: ptr.Ptr(int64(10)),
	})
	require.NoError(t, err)

	day7 := resp.Days[7]
	assert.Zero(t, day7.TotalSlots)
	assert.Zero(t, day7.BookedSlots)
	assert.Nil(t, day7.Occupancy)
}

func TestExecute_AllActivitiesAggregated(t *testing.T) {
	uc := NewUseCase(
		&fakeCapacityRepo{activityIDs: []int64{10, 11}},
		&fakeReservationRepo{sums: []reservation.BookedSum{
			julySum(10, 6, "10:00", 5),
			julySum(11, 6, "12:00", 8),
		}},
		&fakeMaterializer{slots: map[int64][]domain.Slot{
			10: {julySlot(10, 6, "10:00", 10)},
			11: {julySlot(11, 6, "12:00", 20)},
		}},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, Year: 2026, Month: 7})
	require.NoError(t, err)

	day6 := resp.Days[6]
	assert.Equal(t, 30, day6.TotalSlots)
	assert.Equal(t, 13, day6.BookedSlots)
	require.NotNil(t, day6.Occupancy)
	assert.InDelta(t, 13.0/30.0*100, *day6.Occupancy, 0.001)
}

func TestExecute_FebruaryLeapYear(t *testing.T) {
	uc := NewUseCase(&fakeCapacityRepo{}, &fakeReservationRepo{}, &fakeMaterializer{}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, Year: 2028, Month: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Days, 29)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := NewUseCase(&fakeCapacityRepo{}, &fakeReservationRepo{}, &fakeMaterializer{}, nopLogger{})

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero tenant", req: &Request{Year: 2026, Month: 7}},
		{name: "month out of range", req: &Request{TenantID: 1, Year: 2026, Month: 13}},
		{name: "year out of range", req: &Request{TenantID: 1, Year: 1999, Month: 7}},
		{name: "non-positive activity", req: &Request{TenantID: 1, Year: 2026, Month: 7, ActivityID: ptr.Ptr(int64(0))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
