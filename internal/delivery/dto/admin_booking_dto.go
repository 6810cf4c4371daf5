package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type ApproveBookingRequest struct {
	SlotStart      string           `json:"slot_start" validate:"required"` // RFC 3339
	SlotEnd        string           `json:"slot_end" validate:"required"`
	StaffID        *uuid.UUID       `json:"staff_id" validate:"omitempty"`
	OrganizationID *uuid.UUID       `json:"organization_id" validate:"omitempty"`
	Amount         *decimal.Decimal `json:"amount" validate:"omitempty"`
}

type RejectBookingRequest struct {
	Reason         string `json:"reason" validate:"required,min=1,max=2000"`
	AlternateSlots string `json:"alternate_slots" validate:"omitempty,max=2000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// BatchDecisionItem is one action in a batch decide request. Approve items
// carry slot fields, reject items carry a reason.
type BatchDecisionItem struct {
	BookingID      uuid.UUID        `json:"booking_id" validate:"required"`
	Action         string           `json:"action" validate:"required,oneof=approve reject cancel complete"`
	SlotStart      *string          `json:"slot_start" validate:"omitempty"`
	SlotEnd        *string          `json:"slot_end" validate:"omitempty"`
	StaffID        *uuid.UUID       `json:"staff_id" validate:"omitempty"`
	OrganizationID *uuid.UUID       `json:"organization_id" validate:"omitempty"`
	Amount         *decimal.Decimal `json:"amount" validate:"omitempty"`
	Reason         *string          `json:"reason" validate:"omitempty,max=2000"`
	AlternateSlots *string          `json:"alternate_slots" validate:"omitempty,max=2000"`
}

type BatchDecideRequest struct {
	Decisions []BatchDecisionItem `json:"decisions" validate:"required,min=1,max=100,dive"`
}

// Response DTOs

type ApproveBookingResponse struct {
	Booking  *BookingResponse  `json:"booking"`
	Warnings []OverlapAdvisory `json:"warnings,omitempty"`
}

// OverlapAdvisory flags an approved slot that intersects another booking
// for the same staff member. Advisory only.
type OverlapAdvisory struct {
	BookingID         uuid.UUID `json:"booking_id"`
	AcknowledgementID *string   `json:"acknowledgement_id,omitempty"`
	SlotStart         *string   `json:"slot_start,omitempty"`
	SlotEnd           *string   `json:"slot_end,omitempty"`
}

// BatchDecisionResult reports the outcome of one batch item. Failures are
// isolated per item; Error is a human-readable message.
type BatchDecisionResult struct {
	BookingID uuid.UUID         `json:"booking_id"`
	Action    string            `json:"action"`
	Success   bool              `json:"success"`
	Status    string            `json:"status,omitempty"`
	Error     string            `json:"error,omitempty"`
	Warnings  []OverlapAdvisory `json:"warnings,omitempty"`
}

type BatchDecideResponse struct {
	Results   []BatchDecisionResult `json:"results"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}
