package create_reservation

import (
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
	createReservation "github.com/tourbase/TB-AdmissionService/internal/usecase/create_reservation"
	"github.com/tourbase/TB-AdmissionService/pkg/types"
)

// ReservationItemRequest один участник запроса на бронирование
type ReservationItemRequest struct {
	ActivityID int64  `json:"activityId"`
	Date       string `json:"date"`      // "2026-07-15"
	StartTime  string `json:"startTime"` // "10:00"
	Quantity   int    `json:"quantity"`
}

// CreateReservationRequest HTTP request model
// Один элемент items - одиночное бронирование, несколько - групповое
type CreateReservationRequest struct {
	Items         []ReservationItemRequest `json:"items"`
	OrderNumber   *string                  `json:"orderNumber,omitempty"`
	PackageTourID *int64                   `json:"packageTourId,omitempty"`
	CustomerName  *string                  `json:"customerName,omitempty"`
	CustomerPhone *string                  `json:"customerPhone,omitempty"`
	Notes         *string                  `json:"notes,omitempty"`
}

// AdmittedReservationResponse одно зачисленное бронирование
type AdmittedReservationResponse struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activityId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	Quantity   int    `json:"quantity"`
	Status     string `json:"status"`
	Remaining  int    `json:"remaining"`
	CreatedAt  string `json:"createdAt"`
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	Reservations []AdmittedReservationResponse `json:"reservations"`
	Degraded     bool                          `json:"degraded,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(tenantID int64) (*createReservation.Request, error) {
	items := make([]createReservation.RequestItem, 0, len(r.Items))

	for _, item := range r.Items {
		date, err := time.Parse(domain.DateFormat, item.Date)
		if err != nil {
			return nil, err
		}

		startTime, err := types.NewTimeStringFromString(item.StartTime)
		if err != nil {
			return nil, err
		}

		items = append(items, createReservation.RequestItem{
			ActivityID: item.ActivityID,
			Date:       date,
			StartTime:  startTime,
			Quantity:   item.Quantity,
		})
	}

	return &createReservation.Request{
		TenantID:      tenantID,
		Items:         items,
		OrderNumber:   r.OrderNumber,
		PackageTourID: r.PackageTourID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	reservations := make([]AdmittedReservationResponse, 0, len(resp.Reservations))
	for _, res := range resp.Reservations {
		reservations = append(reservations, AdmittedReservationResponse{
			ID:         res.ID,
			ActivityID: res.ActivityID,
			Date:       res.Date.Format(domain.DateFormat),
			StartTime:  res.StartTime.String(),
			Quantity:   res.Quantity,
			Status:     res.Status,
			Remaining:  res.Remaining,
			CreatedAt:  res.CreatedAt.Format(time.RFC3339),
		})
	}

	return &CreateReservationResponse{
		Reservations: reservations,
		Degraded:     resp.Degraded,
	}
}
