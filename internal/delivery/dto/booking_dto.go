package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDraftRequest struct {
	Email              string  `json:"email" validate:"required,email"`
	FullName           string  `json:"full_name" validate:"omitempty,min=2,max=120"`
	Phone              string  `json:"phone" validate:"omitempty,min=7,max=15"`
	ConsentGiven       bool    `json:"consent_given"`
	PreferredDate      string  `json:"preferred_date" validate:"required"` // Format: YYYY-MM-DD
	PreferredPeriod    string  `json:"preferred_period" validate:"required,oneof=MORNING EVENING CUSTOM"`
	PreferredTimeStart *string `json:"preferred_time_start" validate:"omitempty"` // Format: HH:MM
	PreferredTimeEnd   *string `json:"preferred_time_end" validate:"omitempty"`
	Mode               string  `json:"mode" validate:"required,oneof=ONLINE OFFLINE"`
	PaymentMode        *string `json:"payment_mode" validate:"omitempty,oneof=UPI CARD NETBANKING"`
	Message            string  `json:"message" validate:"omitempty,max=2000"`
}

// Response DTOs

type BookingResponse struct {
	ID                 uuid.UUID             `json:"id"`
	AcknowledgementID  *string               `json:"acknowledgement_id,omitempty"`
	Status             string                `json:"status"`
	Email              string                `json:"email,omitempty"`
	PreferredDate      string                `json:"preferred_date"`
	PreferredPeriod    string                `json:"preferred_period"`
	PreferredTimeStart *time.Time            `json:"preferred_time_start,omitempty"`
	PreferredTimeEnd   *time.Time            `json:"preferred_time_end,omitempty"`
	Mode               string                `json:"mode"`
	PaymentMode        *string               `json:"payment_mode,omitempty"`
	Message            string                `json:"message,omitempty"`
	ApprovedSlotStart  *time.Time            `json:"approved_slot_start,omitempty"`
	ApprovedSlotEnd    *time.Time            `json:"approved_slot_end,omitempty"`
	Amount             *decimal.Decimal      `json:"amount,omitempty"`
	RejectionReason    string                `json:"rejection_reason,omitempty"`
	AlternateSlots     string                `json:"alternate_slots,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	CancelledBy        *string               `json:"cancelled_by,omitempty"`
	EmailVerified      bool                  `json:"email_verified"`
	Staff              *StaffResponse        `json:"staff,omitempty"`
	Organization       *OrganizationResponse `json:"organization,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

type CreateDraftResponse struct {
	Booking          *BookingResponse `json:"booking"`
	VerificationSent bool             `json:"verification_sent"`
}

// TimelineEntry is one reached milestone in a booking's history.
type TimelineEntry struct {
	Milestone string    `json:"milestone"`
	At        time.Time `json:"at"`
}

type BookingStatusResponse struct {
	AcknowledgementID *string          `json:"acknowledgement_id,omitempty"`
	Status            string           `json:"status"`
	Timeline          []TimelineEntry  `json:"timeline"`
	Booking           *BookingResponse `json:"booking,omitempty"`
}

type VerifyEmailResponse struct {
	Verified          bool    `json:"verified"`
	AcknowledgementID *string `json:"acknowledgement_id,omitempty"`
	Status            string  `json:"status"`
	AutoRejected      bool    `json:"auto_rejected,omitempty"`
}
