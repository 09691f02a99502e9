package capacity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	capacityRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/capacity"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// 2026-07-15 - среда
var testDate = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

type fakeCapacityRepo struct {
	entries   []*domain.CapacityTemplateEntry
	overrides map[string]*domain.CapacityOverride
	deleted   int
}

func overrideKey(date time.Time, startTime types.TimeString) string {
	return date.Format(domain.DateFormat) + "|" + string(startTime)
}

func (r *fakeCapacityRepo) ListTemplateEntries(_ context.Context, _, _ int64) ([]*domain.CapacityTemplateEntry, error) {
	return r.entries, nil
}

func (r *fakeCapacityRepo) GetOverride(_ context.Context, _, _ int64, date time.Time, startTime types.TimeString) (*domain.CapacityOverride, error) {
	o, ok := r.overrides[overrideKey(date, startTime)]
	if !ok {
		return nil, capacityRepo.ErrOverrideNotFound
	}
	return o, nil
}

func (r *fakeCapacityRepo) UpsertOverride(_ context.Context, override *domain.CapacityOverride) (*domain.CapacityOverride, error) {
	if r.overrides == nil {
		r.overrides = make(map[string]*domain.CapacityOverride)
	}
	stored := *override
	stored.ID = int64(len(r.overrides) + 1)
	r.overrides[overrideKey(override.Date, override.StartTime)] = &stored
	return &stored, nil
}

func (r *fakeCapacityRepo) DeleteOverride(_ context.Context, _, _ int64, date time.Time, startTime types.TimeString) error {
	key := overrideKey(date, startTime)
	if _, ok := r.overrides[key]; !ok {
		return capacityRepo.ErrOverrideNotFound
	}
	delete(r.overrides, key)
	r.deleted++
	return nil
}

type fakeReservationRepo struct {
	rows []*domain.Reservation
}

func (r *fakeReservationRepo) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, row := range r.rows {
		if row.TenantID != filter.TenantID {
			continue
		}
		if filter.StartTime != nil && row.StartTime != *filter.StartTime {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, st := range filter.Statuses {
				if row.Status == st {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, row)
	}
	return result, nil
}

type fakeTxManager struct{}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCache struct {
	keys []string
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) {
	c.keys = append(c.keys, keys...)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmed(quantity int) *domain.Reservation {
	return &domain.Reservation{
		TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00",
		Quantity: quantity, Status: domain.StatusConfirmed,
	}
}

func newService(capRepo *fakeCapacityRepo, resRepo *fakeReservationRepo) (*Service, *fakeCache) {
	cache := &fakeCache{}
	return NewService(capRepo, resRepo, &fakeTxManager{}, cache, nopLogger{}), cache
}

func TestSetOverride_Upserts(t *testing.T) {
	capRepo := &fakeCapacityRepo{}
	svc, cache := newService(capRepo, &fakeReservationRepo{rows: []*domain.Reservation{confirmed(12)}})

	override, err := svc.SetOverride(context.Background(), 1, 10, testDate, "10:00", 15)
	require.NoError(t, err)
	assert.Equal(t, 15, override.Seats)
	assert.Len(t, capRepo.overrides, 1)
	assert.Len(t, cache.keys, 1)
}

func TestSetOverride_BelowCommittedRejected(t *testing.T) {
	capRepo := &fakeCapacityRepo{}
	svc, cache := newService(capRepo, &fakeReservationRepo{rows: []*domain.Reservation{confirmed(12)}})

	_, err := svc.SetOverride(context.Background(), 1, 10, testDate, "10:00", 11)
	assert.ErrorIs(t, err, ErrInvalidOverride)
	assert.Empty(t, capRepo.overrides)
	assert.Empty(t, cache.keys)
}

func TestSetOverride_ExactlyCommittedAllowed(t *testing.T) {
	svc, _ := newService(&fakeCapacityRepo{}, &fakeReservationRepo{rows: []*domain.Reservation{confirmed(12)}})

	override, err := svc.SetOverride(context.Background(), 1, 10, testDate, "10:00", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, override.Seats)
}

func TestSetOverride_CancelledRowsIgnored(t *testing.T) {
	resRepo := &fakeReservationRepo{rows: []*domain.Reservation{
		{TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00", Quantity: 20, Status: domain.StatusCancelled},
	}}
	svc, _ := newService(&fakeCapacityRepo{}, resRepo)

	_, err := svc.SetOverride(context.Background(), 1, 10, testDate, "10:00", 5)
	require.NoError(t, err)
}

func TestSetOverride_ValidationErrors(t *testing.T) {
	svc, _ := newService(&fakeCapacityRepo{}, &fakeReservationRepo{})

	tests := []struct {
		name      string
		startTime types.TimeString
		seats     int
	}{
		{name: "negative seats", startTime: "10:00", seats: -1},
		{name: "seats over limit", startTime: "10:00", seats: domain.MaxSlotSeats + 1},
		{name: "bad time format", startTime: "25:00", seats: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetOverride(context.Background(), 1, 10, testDate, tt.startTime, tt.seats)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeleteOverride_RevertsToTemplate(t *testing.T) {
	capRepo := &fakeCapacityRepo{
		entries: []*domain.CapacityTemplateEntry{
			{TenantID: 1, ActivityID: 10, Weekday: time.Wednesday, StartTime: "10:00", Seats: 15},
		},
	}
	svc, cache := newService(capRepo, &fakeReservationRepo{rows: []*domain.Reservation{confirmed(12)}})

	_, err := svc.SetOverride(context.Background(), 1, 10, testDate, "10:00", 20)
	require.NoError(t, err)

	// Шаблон дает 15 мест при 12 проданных - возврат допустим
	err = svc.DeleteOverride(context.Background(), 1, 10, testDate, "10:00")
	require.NoError(t, err)
	assert.Equal(t, 1, capRepo.deleted)
	assert.Len(t, cache.keys, 2)
}

func TestDeleteOverride_TemplateBelowCommittedRejected(t *testing.T) {
	capRepo := &fakeCapacityRepo{
		entries: []*domain.CapacityTemplateEntry{
			{TenantID: 1, ActivityID: 10, Weekday: time.Wednesday, StartTime: "10:00", Seats: 10},
		},
	}
	svc, _ := newService(capRepo, &fakeReservationRepo{rows: []*domain.Reservation{confirmed(12)}})

	_, err := svc.SetOverride(context.Background(), 1, 10, testDate, "10:00", 20)
	require.NoError(t, err)

	err = svc.DeleteOverride(context.Background(), 1, 10, testDate, "10:00")
	assert.ErrorIs(t, err, ErrInvalidOverride)
	assert.Zero(t, capRepo.deleted)
}

func TestDeleteOverride_NoTemplateEntryRejected(t *testing.T) {
	// Слот существует только благодаря переопределению: удаление при проданных
	// местах оставило бы бронирования без слота
	capRepo := &fakeCapacityRepo{}
	svc, _ := newService(capRepo, &fakeReservationRepo{rows: []*domain.Reservation{
		{TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "18:00", Quantity: 3, Status: domain.StatusConfirmed},
	}})

	_, err := svc.SetOverride(context.Background(), 1, 10, testDate, "18:00", 5)
	require.NoError(t, err)

	err = svc.DeleteOverride(context.Background(), 1, 10, testDate, "18:00")
	assert.ErrorIs(t, err, ErrInvalidOverride)
}

func TestDeleteOverride_NotFound(t *testing.T) {
	svc, _ := newService(&fakeCapacityRepo{}, &fakeReservationRepo{})

	err := svc.DeleteOverride(context.Background(), 1, 10, testDate, "10:00")
	assert.ErrorIs(t, err, ErrOverrideNotFound)
}
