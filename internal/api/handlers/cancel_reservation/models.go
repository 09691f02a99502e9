package cancel_reservation

// CancelReservationRequest HTTP request model
// cancelGroup=true отменяет все бронирования группы атомарно
type CancelReservationRequest struct {
	CancelGroup bool `json:"cancelGroup"`
}

// CancelReservationResponse HTTP response model
type CancelReservationResponse struct {
	Message string `json:"message"`
}
