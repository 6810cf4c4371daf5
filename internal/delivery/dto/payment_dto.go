package dto

// Request DTOs

type InitiatePaymentRequest struct {
	AcknowledgementID string `json:"acknowledgement_id" validate:"required"`
}

type CompletePaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required"`
}

type FailPaymentRequest struct {
	PaymentReference string `json:"payment_reference" validate:"required"`
	Reason           string `json:"reason" validate:"omitempty,max=500"`
}

// Response DTOs

type PaymentResponse struct {
	PaymentReference  string           `json:"payment_reference"`
	AcknowledgementID *string          `json:"acknowledgement_id,omitempty"`
	Status            string           `json:"status"`
	Booking           *BookingResponse `json:"booking,omitempty"`
}
