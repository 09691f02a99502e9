package models

import (
	"errors"
	"time"

	"github.com/tourbase/TB-AdmissionService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// ReservationResponse модель бронирования для ответов API
type ReservationResponse struct {
	ID            int64   `json:"id"`
	ActivityID    int64   `json:"activityId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	Quantity      int     `json:"quantity"`
	Status        string  `json:"status"`
	OrderNumber   *string `json:"orderNumber,omitempty"`
	PackageTourID *int64  `json:"packageTourId,omitempty"`
	CustomerName  *string `json:"customerName,omitempty"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CancelledAt   *string `json:"cancelledAt,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// GroupResponse логическое бронирование: одна или несколько строк,
// связанных общим ключом группы
type GroupResponse struct {
	GroupKind     string                `json:"groupKind"` // order | package | none
	GroupValue    string                `json:"groupValue,omitempty"`
	Standalone    bool                  `json:"standalone"`
	TotalQuantity int                   `json:"totalQuantity"`
	CustomerName  *string               `json:"customerName,omitempty"`
	Members       []ReservationResponse `json:"members"`
}

// GroupedReservationsResponse список логических бронирований на дату
type GroupedReservationsResponse struct {
	Date   string          `json:"date"`
	Groups []GroupResponse `json:"groups"`
}

// FromDomainReservation конвертирует доменную модель в response
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	resp := &ReservationResponse{
		ID:            r.ID,
		ActivityID:    r.ActivityID,
		Date:          r.Date.Format(domain.DateFormat),
		StartTime:     r.StartTime.String(),
		Quantity:      r.Quantity,
		Status:        string(r.Status),
		OrderNumber:   r.OrderNumber,
		PackageTourID: r.PackageTourID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CancelledAt != nil {
		cancelledAt := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}
	return resp
}

// FromDomainGroup конвертирует группу бронирований в response
func FromDomainGroup(g *domain.ReservationGroup) GroupResponse {
	members := make([]ReservationResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, *FromDomainReservation(m))
	}

	resp := GroupResponse{
		GroupKind:     string(g.Key.Kind),
		Standalone:    g.IsStandalone(),
		TotalQuantity: g.TotalQuantity(),
		Members:       members,
	}
	if g.Key.Kind != domain.GroupKeyNone {
		resp.GroupValue = g.Key.Value
	}
	if len(g.Members) > 0 {
		resp.CustomerName = g.Members[0].CustomerName
	}
	return resp
}

// ToDomainReservationStatus конвертирует строку в доменный статус
func ToDomainReservationStatus(s string) (domain.ReservationStatus, error) {
	switch domain.ReservationStatus(s) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return domain.ReservationStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
