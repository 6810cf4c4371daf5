package dto

// Request DTOs

type RequestCancellationRequest struct {
	AcknowledgementID string `json:"acknowledgement_id" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	Reason            string `json:"reason" validate:"omitempty,max=2000"`
}

// Response DTOs

type RequestCancellationResponse struct {
	// Cancelled is true when the booking was cancelled immediately
	// (APPROVED path). When false a confirmation email was sent and the
	// caller must follow the verification link.
	Cancelled        bool             `json:"cancelled"`
	VerificationSent bool             `json:"verification_sent"`
	Booking          *BookingResponse `json:"booking,omitempty"`
}

type VerifyCancellationResponse struct {
	Cancelled bool             `json:"cancelled"`
	Booking   *BookingResponse `json:"booking,omitempty"`
}
