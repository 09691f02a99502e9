package create_reservation

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	"github.com/tourbase/TB-AdmissionService/internal/integrations/directoryservice"
	"github.com/tourbase/TB-AdmissionService/internal/integrations/licensingservice"
	"github.com/tourbase/TB-AdmissionService/internal/notify"
	"github.com/tourbase/TB-AdmissionService/internal/service/slots"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

var testDate = time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

// fakeStore in-memory хранилище бронирований с семантикой транзакций:
// Create пишет в staged, коммит переносит staged в rows, откат очищает
type fakeStore struct {
	rows   []*domain.Reservation
	staged []*domain.Reservation
	nextID int64
}

func (s *fakeStore) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.nextID++
	created := *res
	created.ID = s.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.staged = append(s.staged, &created)
	return &created, nil
}

func (s *fakeStore) GetByFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	all := make([]*domain.Reservation, 0, len(s.rows)+len(s.staged))
	all = append(all, s.rows...)
	all = append(all, s.staged...)

	result := make([]*domain.Reservation, 0)
	for _, r := range all {
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

// fakeTxManager сериализует транзакции мьютексом, как сериализуемые
// транзакции Postgres сериализуют конкурентный admission одного слота
type fakeTxManager struct {
	mu    sync.Mutex
	store *fakeStore
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.staged = nil
	if err := fn(ctx); err != nil {
		m.store.staged = nil
		return err
	}
	m.store.rows = append(m.store.rows, m.store.staged...)
	m.store.staged = nil
	return nil
}

// fakeMaterializer выдает слоты из фиксированной карты
type fakeMaterializer struct {
	seats map[string]int // "activityID|date|time" -> вместимость
}

func slotKey(activityID int64, date time.Time, startTime types.TimeString) string {
	return fmt.Sprintf("%d|%s|%s", activityID, date.Format(domain.DateFormat), startTime)
}

func (m *fakeMaterializer) MaterializeSlot(_ context.Context, _, activityID int64, date time.Time, startTime types.TimeString) (*domain.Slot, error) {
	seats, ok := m.seats[slotKey(activityID, date, startTime)]
	if !ok {
		return nil, slots.ErrSlotNotFound
	}
	return &domain.Slot{
		ActivityID: activityID,
		Date:       date,
		StartTime:  startTime,
		TotalSeats: seats,
		IsVirtual:  true,
	}, nil
}

type fakeDirectory struct {
	missing map[int64]bool
}

func (d *fakeDirectory) GetActivity(_ context.Context, _, activityID int64) (*directoryservice.Activity, error) {
	if d.missing[activityID] {
		return nil, directoryservice.ErrActivityNotFound
	}
	return &directoryservice.Activity{ID: activityID, Name: fmt.Sprintf("Activity %d", activityID), IsActive: true}, nil
}

type fakeLicensing struct {
	quota *licensingservice.Quota
	err   error
}

func (l *fakeLicensing) GetReservationQuotaWithGracefulDegradation(_ context.Context, tenantID int64, _ time.Time) (*licensingservice.Quota, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.quota != nil {
		return l.quota, nil
	}
	return &licensingservice.Quota{TenantID: tenantID, Unlimited: true}, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.ReservationEvent
}

func (n *fakeNotifier) Publish(_ context.Context, event notify.ReservationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type fakeCache struct {
	mu   sync.Mutex
	keys []string
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, keys...)
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) IncAdmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

func (m *fakeMetrics) count(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct{ now time.Time }

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type fixture struct {
	uc       *UseCase
	store    *fakeStore
	cache    *fakeCache
	notifier *fakeNotifier
	metrics  *fakeMetrics
}

func newFixture(seats map[string]int) *fixture {
	store := &fakeStore{}
	cache := &fakeCache{}
	notifier := &fakeNotifier{}
	metrics := &fakeMetrics{}

	uc := NewUseCase(
		store,
		&fakeMaterializer{seats: seats},
		&fakeDirectory{},
		&fakeLicensing{},
		&fakeTxManager{store: store},
		cache,
		notifier,
		metrics,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, store: store, cache: cache, notifier: notifier, metrics: metrics}
}

func singleItemRequest(quantity int) *Request {
	return &Request{
		TenantID: 1,
		Items: []RequestItem{
			{ActivityID: 10, Date: testDate, StartTime: "10:00", Quantity: quantity},
		},
	}
}

func TestExecute_AdmitsWithinCapacity(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})

	// 12 мест уже продано
	f.store.rows = append(f.store.rows, &domain.Reservation{
		ID: 100, TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00",
		Quantity: 12, Status: domain.StatusConfirmed,
	})
	f.store.nextID = 100

	resp, err := f.uc.Execute(context.Background(), singleItemRequest(3))
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, 3, resp.Reservations[0].Quantity)
	assert.Equal(t, 0, resp.Reservations[0].Remaining)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Reservations[0].Status)
	assert.False(t, resp.Degraded)

	assert.Equal(t, 1, f.metrics.count("committed"))
	assert.Len(t, f.store.rows, 2)
}

func TestExecute_RejectsWhenFull(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})

	f.store.rows = append(f.store.rows, &domain.Reservation{
		ID: 100, TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00",
		Quantity: 15, Status: domain.StatusConfirmed,
	})
	f.store.nextID = 100

	_, err := f.uc.Execute(context.Background(), singleItemRequest(1))
	assert.ErrorIs(t, err, ErrOverbooked)
	assert.Equal(t, 1, f.metrics.count("overbooked"))
	assert.Len(t, f.store.rows, 1)
}

func TestExecute_CancelledRowsDoNotConsume(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 10})

	// Отмененная строка остается в леджере, но мест не занимает
	f.store.rows = append(f.store.rows, &domain.Reservation{
		ID: 100, TenantID: 1, ActivityID: 10, Date: testDate, StartTime: "10:00",
		Quantity: 10, Status: domain.StatusCancelled,
	})
	f.store.nextID = 100

	resp, err := f.uc.Execute(context.Background(), singleItemRequest(10))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Reservations[0].Remaining)
}

func TestExecute_SlotNotFound(t *testing.T) {
	f := newFixture(map[string]int{})

	_, err := f.uc.Execute(context.Background(), singleItemRequest(1))
	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Equal(t, 1, f.metrics.count("slot_not_found"))
}

func TestExecute_GroupAllOrNothing(t *testing.T) {
	f := newFixture(map[string]int{
		slotKey(10, testDate, "10:00"): 10,
		slotKey(11, testDate, "14:00"): 2,
	})

	req := &Request{
		TenantID:    1,
		OrderNumber: strPtr("ORD-500"),
		Items: []RequestItem{
			{ActivityID: 10, Date: testDate, StartTime: "10:00", Quantity: 4},
			{ActivityID: 11, Date: testDate, StartTime: "14:00", Quantity: 5},
		},
	}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrGroupPartialFailure)
	assert.Equal(t, 1, f.metrics.count("group_partial_failure"))

	// Транзакция откатилась целиком: первый участник тоже не записан
	assert.Empty(t, f.store.rows)
}

func TestExecute_GroupAdmitted(t *testing.T) {
	f := newFixture(map[string]int{
		slotKey(10, testDate, "10:00"): 10,
		slotKey(11, testDate, "14:00"): 10,
	})

	req := &Request{
		TenantID:    1,
		OrderNumber: strPtr("ORD-501"),
		Items: []RequestItem{
			// Порядок нарочно не отсортирован - ответ сохраняет порядок запроса
			{ActivityID: 11, Date: testDate, StartTime: "14:00", Quantity: 2},
			{ActivityID: 10, Date: testDate, StartTime: "10:00", Quantity: 3},
		},
	}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 2)
	assert.Equal(t, int64(11), resp.Reservations[0].ActivityID)
	assert.Equal(t, int64(10), resp.Reservations[1].ActivityID)

	require.Len(t, f.store.rows, 2)
	for _, row := range f.store.rows {
		require.NotNil(t, row.OrderNumber)
		assert.Equal(t, "ORD-501", *row.OrderNumber)
	}
}

func TestExecute_LicenseLimitExceeded(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})
	f.uc.licensingClient = &fakeLicensing{
		quota: &licensingservice.Quota{TenantID: 1, Limit: 100, Used: 100},
	}

	_, err := f.uc.Execute(context.Background(), singleItemRequest(1))
	assert.ErrorIs(t, err, ErrLicenseLimitExceeded)
	assert.Equal(t, 1, f.metrics.count("license_limit"))
	assert.Empty(t, f.store.rows)
}

func TestExecute_LicensingDegradedFailsOpen(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})
	f.uc.licensingClient = &fakeLicensing{
		err: fmt.Errorf("%w: connection refused", licensingservice.ErrServiceDegraded),
	}

	resp, err := f.uc.Execute(context.Background(), singleItemRequest(1))
	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Len(t, f.store.rows, 1)
}

func TestExecute_ActivityNotFound(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})
	f.uc.directoryClient = &fakeDirectory{missing: map[int64]bool{10: true}}

	_, err := f.uc.Execute(context.Background(), singleItemRequest(1))
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "no items",
			req:     &Request{TenantID: 1},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero quantity",
			req:     singleItemRequest(0),
			wantErr: ErrInvalidInput,
		},
		{
			name: "invalid time format",
			req: &Request{TenantID: 1, Items: []RequestItem{
				{ActivityID: 10, Date: testDate, StartTime: "25:00", Quantity: 1},
			}},
			wantErr: ErrInvalidInput,
		},
		{
			name: "past date",
			req: &Request{TenantID: 1, Items: []RequestItem{
				{ActivityID: 10, Date: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), StartTime: "10:00", Quantity: 1},
			}},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InvalidatesCache(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})

	_, err := f.uc.Execute(context.Background(), singleItemRequest(2))
	require.NoError(t, err)

	f.cache.mu.Lock()
	defer f.cache.mu.Unlock()
	require.Len(t, f.cache.keys, 1)
	assert.Contains(t, f.cache.keys[0], "2026-07-15")
}

func TestExecute_PublishesConfirmedEvent(t *testing.T) {
	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): 15})

	_, err := f.uc.Execute(context.Background(), singleItemRequest(2))
	require.NoError(t, err)

	// Публикация асинхронная
	assert.Eventually(t, func() bool {
		f.notifier.mu.Lock()
		defer f.notifier.mu.Unlock()
		return len(f.notifier.events) == 1 &&
			f.notifier.events[0].EventType == notify.EventReservationConfirmed
	}, time.Second, 10*time.Millisecond)
}

// Конкурентный admission последних мест: при C местах и N > C запросах
// по одному месту проходят ровно C
func TestExecute_ConcurrentAdmission(t *testing.T) {
	const capacity = 5
	const requests = 8

	f := newFixture(map[string]int{slotKey(10, testDate, "10:00"): capacity})

	var wg sync.WaitGroup
	errs := make([]error, requests)

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), singleItemRequest(1))
		}(i)
	}
	wg.Wait()

	admitted, overbooked := 0, 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		require.ErrorIs(t, err, ErrOverbooked)
		overbooked++
	}

	assert.Equal(t, capacity, admitted)
	assert.Equal(t, requests-capacity, overbooked)
	assert.Len(t, f.store.rows, capacity)
}

func strPtr(s string) *string { return &s }
