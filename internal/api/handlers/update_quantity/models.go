package update_quantity

import (
	"github.com/tourbase/TB-AdmissionService/internal/domain"
	updateQuantity "github.com/tourbase/TB-AdmissionService/internal/usecase/update_quantity"
)

// UpdateQuantityRequest HTTP request model
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantityResponse HTTP response model
type UpdateQuantityResponse struct {
	ID         int64  `json:"id"`
	ActivityID int64  `json:"activityId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	Quantity   int    `json:"quantity"`
	Status     string `json:"status"`
	Remaining  int    `json:"remaining"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateQuantity.Response) *UpdateQuantityResponse {
	return &UpdateQuantityResponse{
		ID:         resp.ID,
		ActivityID: resp.ActivityID,
		Date:       resp.Date.Format(domain.DateFormat),
		StartTime:  resp.StartTime.String(),
		Quantity:   resp.Quantity,
		Status:     resp.Status,
		Remaining:  resp.Remaining,
	}
}
