package converter

import (
	"sort"
	"time"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"

	"github.com/google/uuid"
)

// BookingToResponse converts a Booking entity to BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                 booking.ID,
		AcknowledgementID:  booking.AcknowledgementID,
		Status:             string(booking.Status),
		PreferredDate:      booking.PreferredDate.Format("2006-01-02"),
		PreferredPeriod:    string(booking.PreferredPeriod),
		PreferredTimeStart: booking.PreferredTimeStart,
		PreferredTimeEnd:   booking.PreferredTimeEnd,
		Mode:               string(booking.Mode),
		Message:            booking.Message,
		ApprovedSlotStart:  booking.ApprovedSlotStart,
		ApprovedSlotEnd:    booking.ApprovedSlotEnd,
		Amount:             booking.Amount,
		RejectionReason:    booking.RejectionReason,
		AlternateSlots:     booking.AlternateSlots,
		CancellationReason: booking.CancellationReason,
		EmailVerified:      booking.EmailVerified,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	if booking.PaymentMode != nil {
		mode := string(*booking.PaymentMode)
		response.PaymentMode = &mode
	}
	if booking.CancelledBy != nil {
		actor := string(*booking.CancelledBy)
		response.CancelledBy = &actor
	}
	if booking.User.ID != uuid.Nil {
		response.Email = booking.User.Email
	}
	if booking.Staff != nil {
		response.Staff = StaffToResponse(booking.Staff)
	}
	if booking.Organization != nil {
		response.Organization = OrganizationToResponse(booking.Organization)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i, booking := range bookings {
		resp := BookingToResponse(&booking)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// BookingToTimeline derives the ordered list of reached milestones from the
// booking's lifecycle timestamps. Only non-null timestamps appear.
func BookingToTimeline(booking *entity.Booking) []dto.TimelineEntry {
	type milestone struct {
		name string
		at   *time.Time
	}
	created := booking.CreatedAt
	candidates := []milestone{
		{"created", &created},
		{"email_verified", booking.EmailVerifiedAt},
		{"submitted", booking.SubmittedAt},
		{"approved", booking.ApprovedAt},
		{"payment_requested", booking.PaymentRequestedAt},
		{"confirmed", booking.ConfirmedAt},
		{"rejected", booking.RejectedAt},
		{"cancellation_requested", booking.CancellationRequestedAt},
		{"cancelled", booking.CancelledAt},
		{"completed", booking.CompletedAt},
	}

	timeline := make([]dto.TimelineEntry, 0, len(candidates))
	for _, m := range candidates {
		if m.at != nil {
			timeline = append(timeline, dto.TimelineEntry{Milestone: m.name, At: *m.at})
		}
	}
	// Candidates are in lifecycle order already; sort by timestamp so
	// out-of-order flows (e.g. a late cancellation request) read correctly.
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].At.Before(timeline[j].At)
	})
	return timeline
}
