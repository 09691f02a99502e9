package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	reservationRepo "github.com/tourbase/TB-AdmissionService/internal/infra/storage/reservation"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
	"github.com/tourbase/TB-AdmissionService/pkg/ptr"
)

var testDate = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

type fakeRepo struct {
	rows map[int64]*domain.Reservation
	// снимок для отката: заполняется fakeTxManager перед транзакцией
	snapshot map[int64]domain.ReservationStatus
}

func (r *fakeRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Reservation, error) {
	res, ok := r.rows[id]
	if !ok || res.TenantID != tenantID {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeRepo) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, row := range r.rows {
		if row.TenantID != filter.TenantID {
			continue
		}
		if filter.Date != nil && !row.Date.Equal(*filter.Date) {
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

func (r *fakeRepo) GetGroupByOrderNumber(_ context.Context, tenantID int64, orderNumber string, _ bool) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, row := range r.rows {
		if row.TenantID == tenantID && row.OrderNumber != nil && *row.OrderNumber == orderNumber {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetGroupByPackageKey(_ context.Context, tenantID int64, packageTourID int64, customerName, customerPhone string, date time.Time) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, row := range r.rows {
		if row.TenantID != tenantID || row.PackageTourID == nil || *row.PackageTourID != packageTourID {
			continue
		}
		if !row.Date.Equal(date) {
			continue
		}
		name, phone := "", ""
		if row.CustomerName != nil {
			name = *row.CustomerName
		}
		if row.CustomerPhone != nil {
			phone = *row.CustomerPhone
		}
		if name == customerName && phone == customerPhone {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, tenantID, id int64, status domain.ReservationStatus) error {
	res, ok := r.rows[id]
	if !ok || res.TenantID != tenantID {
		return reservationRepo.ErrReservationNotFound
	}
	res.Status = status
	return nil
}

// fakeTxManager снимает статусы перед транзакцией и восстанавливает при ошибке
type fakeTxManager struct {
	repo *fakeRepo
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.repo.snapshot = make(map[int64]domain.ReservationStatus, len(m.repo.rows))
	for id, row := range m.repo.rows {
		m.repo.snapshot[id] = row.Status
	}
	if err := fn(ctx); err != nil {
		for id, st := range m.repo.snapshot {
			m.repo.rows[id].Status = st
		}
		return err
	}
	return nil
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type fakeNotifier struct{}

func (fakeNotifier) Publish(context.Context, notify.ReservationEvent) error { return nil }

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

func newService(rows ...*domain.Reservation) (*Service, *fakeRepo, *fakeCache) {
	repo := &fakeRepo{rows: make(map[int64]*domain.Reservation)}
	for _, r := range rows {
		repo.rows[r.ID] = r
	}
	cache := &fakeCache{}
	svc := NewService(repo, &fakeTxManager{repo: repo}, cache, fakeNotifier{}, nopLogger{})
	return svc, repo, cache
}

func row(id int64, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID: id, TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00",
		Quantity: 2, Status: status,
	}
}

func orderRow(id int64, status domain.ReservationStatus, orderNumber string) *domain.Reservation {
	r := row(id, status)
	r.OrderNumber = ptr.Ptr(orderNumber)
	return r
}

func TestCancel_Single(t *testing.T) {
	svc, repo, cache := newService(row(1, domain.StatusConfirmed))

	err := svc.Cancel(context.Background(), 1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.rows[1].Status)
	assert.Len(t, cache.keys, 1)
}

func TestCancel_Idempotent(t *testing.T) {
	svc, repo, cache := newService(row(1, domain.StatusCancelled))

	err := svc.Cancel(context.Background(), 1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.rows[1].Status)
	// Ничего не отменялось - кеш не трогаем
	assert.Empty(t, cache.keys)
}

func TestCancel_CompletedRejected(t *testing.T) {
	svc, _, _ := newService(row(1, domain.StatusCompleted))

	err := svc.Cancel(context.Background(), 1, 1, false)
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_NotFound(t *testing.T) {
	svc, _, _ := newService()

	err := svc.Cancel(context.Background(), 1, 99, false)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel_GroupByOrderNumber(t *testing.T) {
	svc, repo, cache := newService(
		orderRow(1, domain.StatusConfirmed, "ORD-500"),
		orderRow(2, domain.StatusConfirmed, "ORD-500"),
		orderRow(3, domain.StatusConfirmed, "ORD-999"),
	)

	err := svc.Cancel(context.Background(), 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.rows[1].Status)
	assert.Equal(t, domain.StatusCancelled, repo.rows[2].Status)
	// Чужой заказ не затронут
	assert.Equal(t, domain.StatusConfirmed, repo.rows[3].Status)
	assert.Len(t, cache.keys, 2)
}

func TestCancel_GroupAllOrNothing(t *testing.T) {
	svc, repo, _ := newService(
		orderRow(1, domain.StatusConfirmed, "ORD-500"),
		orderRow(2, domain.StatusCompleted, "ORD-500"),
	)

	err := svc.Cancel(context.Background(), 1, 1, true)
	assert.ErrorIs(t, err, ErrCannotCancel)

	// Транзакция откатилась: первый участник не отменен
	assert.Equal(t, domain.StatusConfirmed, repo.rows[1].Status)
	assert.Equal(t, domain.StatusCompleted, repo.rows[2].Status)
}

func TestCancel_GroupSkipsAlreadyCancelled(t *testing.T) {
	svc, repo, cache := newService(
		orderRow(1, domain.StatusConfirmed, "ORD-500"),
		orderRow(2, domain.StatusCancelled, "ORD-500"),
	)

	err := svc.Cancel(context.Background(), 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.rows[1].Status)
	assert.Len(t, cache.keys, 1)
}

func TestCancel_GroupFlagWithoutKeyCancelsSingle(t *testing.T) {
	svc, repo, _ := newService(row(1, domain.StatusConfirmed))

	err := svc.Cancel(context.Background(), 1, 1, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.rows[1].Status)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	svc, repo, _ := newService(row(1, domain.StatusPending))

	err := svc.UpdateStatus(context.Background(), 1, 1, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.rows[1].Status)

	err = svc.UpdateStatus(context.Background(), 1, 1, "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.rows[1].Status)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc, _, _ := newService(row(1, domain.StatusPending))

	err := svc.UpdateStatus(context.Background(), 1, 1, "completed")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_SameStatusNoOp(t *testing.T) {
	svc, _, _ := newService(row(1, domain.StatusConfirmed))

	err := svc.UpdateStatus(context.Background(), 1, 1, "confirmed")
	assert.NoError(t, err)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, _, _ := newService(row(1, domain.StatusPending))

	err := svc.UpdateStatus(context.Background(), 1, 1, "paused")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_CancellationInvalidatesCache(t *testing.T) {
	svc, repo, cache := newService(row(1, domain.StatusConfirmed))

	err := svc.UpdateStatus(context.Background(), 1, 1, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, repo.rows[1].Status)
	assert.Len(t, cache.keys, 1)
}

func TestGetGroupedByDate_ExcludesCancelled(t *testing.T) {
	svc, _, _ := newService(
		orderRow(1, domain.StatusConfirmed, "ORD-500"),
		orderRow(2, domain.StatusCancelled, "ORD-500"),
		row(3, domain.StatusConfirmed),
	)

	resp, err := svc.GetGroupedByDate(context.Background(), 1, testDate)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-15", resp.Date)
	assert.Len(t, resp.Groups, 2)
}
