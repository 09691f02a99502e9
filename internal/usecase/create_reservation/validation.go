package create_reservation

import (
	"fmt"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	if len(req.Items) > domain.MaxGroupMembers {
		return fmt.Errorf("%w: at most %d items per request", ErrInvalidInput, domain.MaxGroupMembers)
	}

	if req.OrderNumber != nil && *req.OrderNumber == "" {
		return fmt.Errorf("%w: orderNumber must not be empty", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	for i, item := range req.Items {
		if item.ActivityID <= 0 {
			return fmt.Errorf("%w: items[%d]: activityID must be positive", ErrInvalidInput, i)
		}

		if item.Date.IsZero() {
			return fmt.Errorf("%w: items[%d]: date is required", ErrInvalidInput, i)
		}

		if item.StartTime.IsZero() {
			return fmt.Errorf("%w: items[%d]: startTime is required", ErrInvalidInput, i)
		}

		if err := item.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: items[%d]: invalid startTime format: %v", ErrInvalidInput, i, err)
		}

		if item.Quantity < domain.MinReservationQuantity || item.Quantity > domain.MaxReservationQuantity {
			return fmt.Errorf("%w: items[%d]: quantity must be between %d and %d",
				ErrInvalidInput, i, domain.MinReservationQuantity, domain.MaxReservationQuantity)
		}
	}

	return nil
}

// validateDates проверяет, что ни одна дата запроса не в прошлом
func validateDates(items []RequestItem, now time.Time) error {
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i, item := range items {
		dateOnly := time.Date(item.Date.Year(), item.Date.Month(), item.Date.Day(), 0, 0, 0, 0, item.Date.Location())
		if dateOnly.Before(nowOnly) {
			return fmt.Errorf("%w: items[%d]: date %s is in the past",
				ErrInvalidDate, i, item.Date.Format(domain.DateFormat))
		}
	}

	return nil
}

// uniqueActivityIDs возвращает ID активностей запроса без дубликатов
func uniqueActivityIDs(items []RequestItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))

	for _, item := range items {
		if _, ok := seen[item.ActivityID]; ok {
			continue
		}
		seen[item.ActivityID] = struct{}{}
		ids = append(ids, item.ActivityID)
	}

	return ids
}

// sumConsumed суммирует места активных бронирований слота
func sumConsumed(reservations []*domain.Reservation) int {
	total := 0
	for _, r := range reservations {
		total += r.Quantity
	}
	return total
}
