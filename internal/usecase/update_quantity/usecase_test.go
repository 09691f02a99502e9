package update_quantity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	reservationRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
	"github.com/tourbase/TB-AdmissionService/internal/service/slots"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

var testDate = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

type fakeStore struct {
	rows map[int64]*domain.Reservation
}

func (s *fakeStore) GetByID(_ context.Context, tenantID, id int64) (*domain.Reservation, error) {
	res, ok := s.rows[id]
	if !ok || res.TenantID != tenantID {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (s *fakeStore) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, r := range s.rows {
		if r.TenantID != filter.TenantID {
			continue
		}
		if filter.ActivityID != nil && r.ActivityID != *filter.ActivityID {
			continue
		}
		if filter.Date != nil && !r.Date.Equal(*filter.Date) {
			continue
		}
		if filter.StartTime != nil && r.StartTime != *filter.StartTime {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, st := range filter.Statuses {
				if r.Status == st {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *fakeStore) UpdateQuantity(_ context.Context, tenantID, id int64, quantity int) error {
	res, ok := s.rows[id]
	if !ok || res.TenantID != tenantID {
		return reservationRepo.ErrReservationNotFound
	}
	res.Quantity = quantity
	return nil
}

type fakeMaterializer struct {
	totalSeats int
	notFound   bool
}

func (m *fakeMaterializer) MaterializeSlot(_ context.Context, _, activityID int64, date time.Time, startTime types.TimeString) (*domain.Slot, error) {
	if m.notFound {
		return nil, slots.ErrSlotNotFound
	}
	return &domain.Slot{
		ActivityID: activityID,
		Date:       date,
		StartTime:  startTime,
		TotalSeats: m.totalSeats,
		IsVirtual:  true,
	}, nil
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

type fakeMetrics struct {
	outcomes map[string]int
}

func (m *fakeMetrics) IncAdmission(outcome string) {
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newFixture(totalSeats int, rows ...*domain.Reservation) (*UseCase, *fakeStore, *fakeCache, *fakeMetrics) {
	store := &fakeStore{rows: make(map[int64]*domain.Reservation)}
	for _, r := range rows {
		store.rows[r.ID] = r
	}
	cache := &fakeCache{}
	metrics := &fakeMetrics{}

	uc := NewUseCase(store, &fakeMaterializer{totalSeats: totalSeats}, &fakeTxManager{}, cache, metrics, nopLogger{})
	return uc, store, cache, metrics
}

func reservation(id int64, quantity int, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID: id, TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00",
		Quantity: quantity, Status: status,
	}
}

func TestExecute_GrowWithinCapacity(t *testing.T) {
	// 20 мест, занято 5 + чужие 10, рост до 8 дает 18 из 20
	uc, store, cache, metrics := newFixture(20,
		reservation(1, 5, domain.StatusConfirmed),
		reservation(2, 10, domain.StatusConfirmed),
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 1, NewQuantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Quantity)
	assert.Equal(t, 2, resp.Remaining)
	assert.Equal(t, 8, store.rows[1].Quantity)
	assert.Equal(t, 1, metrics.outcomes["committed"])
	assert.Len(t, cache.keys, 1)
}

func TestExecute_GrowOverCapacity(t *testing.T) {
	uc, store, _, metrics := newFixture(20,
		reservation(1, 5, domain.StatusConfirmed),
		reservation(2, 10, domain.StatusConfirmed),
	)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 1, NewQuantity: 11})
	assert.ErrorIs(t, err, ErrOverbooked)
	assert.Equal(t, 5, store.rows[1].Quantity)
	assert.Equal(t, 1, metrics.outcomes["overbooked"])
}

func TestExecute_ShrinkAlwaysPasses(t *testing.T) {
	// Слот переполнен переопределением вместимости, но уменьшение проходит
	uc, store, _, _ := newFixture(10,
		reservation(1, 8, domain.StatusConfirmed),
		reservation(2, 4, domain.StatusConfirmed),
	)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 1, NewQuantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 6, resp.Quantity)
	assert.Equal(t, 0, resp.Remaining)
	assert.Equal(t, 6, store.rows[1].Quantity)
}

func TestExecute_SameQuantityNoWrite(t *testing.T) {
	uc, _, _, metrics := newFixture(20, reservation(1, 5, domain.StatusConfirmed))

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 1, NewQuantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Quantity)
	assert.Equal(t, 15, resp.Remaining)
	assert.Equal(t, 1, metrics.outcomes["committed"])
}

func TestExecute_ReservationNotFound(t *testing.T) {
	uc, _, _, _ := newFixture(20)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 99, NewQuantity: 2})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_ForeignTenantNotFound(t *testing.T) {
	uc, _, _, _ := newFixture(20, reservation(1, 5, domain.StatusConfirmed))

	_, err := uc.Execute(context.Background(), &Request{TenantID: 2, ReservationID: 1, NewQuantity: 2})
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestExecute_InactiveReservation(t *testing.T) {
	uc, _, _, _ := newFixture(20, reservation(1, 5, domain.StatusCancelled))

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 1, NewQuantity: 2})
	assert.ErrorIs(t, err, ErrReservationInactive)
}

func TestExecute_SlotNotFound(t *testing.T) {
	uc, _, _, metrics := newFixture(20, reservation(1, 5, domain.StatusConfirmed))
	uc.materializer = &fakeMaterializer{notFound: true}

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ReservationID: 1, NewQuantity: 2})
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Equal(t, 1, metrics.outcomes["slot_not_found"])
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc, _, _, _ := newFixture(20)

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "zero tenant", req: &Request{TenantID: 0, ReservationID: 1, NewQuantity: 2}},
		{name: "zero reservation", req: &Request{TenantID: 1, ReservationID: 0, NewQuantity: 2}},
		{name: "zero quantity", req: &Request{TenantID: 1, ReservationID: 1, NewQuantity: 0}},
		{name: "quantity over limit", req: &Request{TenantID: 1, ReservationID: 1, NewQuantity: domain.MaxReservationQuantity + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
