package usecase

import (
	"context"
	"time"

	"mindsettler-api/internal/converter"
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"
	"mindsettler-api/internal/service"
	"mindsettler-api/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AdminBookingUsecase interface {
	List(ctx context.Context, statusFilter string) (*dto.BookingListResponse, error)
	Approve(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID, req *dto.ApproveBookingRequest) (*dto.ApproveBookingResponse, error)
	Reject(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID, req *dto.RejectBookingRequest) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	Complete(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, error)
	BatchDecide(ctx context.Context, actorID uuid.UUID, req *dto.BatchDecideRequest) (*dto.BatchDecideResponse, error)
}

type adminBookingUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	validate    *validator.Validate
	bookingRepo repository.BookingRepository
	staffRepo   repository.StaffRepository
	orgRepo     repository.OrganizationRepository
	lifecycle   *LifecycleService
	notifier    service.NotificationDispatcher
}

func NewAdminBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.Validate,
	bookingRepo repository.BookingRepository,
	staffRepo repository.StaffRepository,
	orgRepo repository.OrganizationRepository,
	lifecycle *LifecycleService,
	notifier service.NotificationDispatcher,
) AdminBookingUsecase {
	return &adminBookingUsecase{
		db:          db,
		log:         log,
		validate:    validate,
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		orgRepo:     orgRepo,
		lifecycle:   lifecycle,
		notifier:    notifier,
	}
}

// List returns bookings for the admin surface, optionally filtered by status.
func (u *adminBookingUsecase) List(ctx context.Context, statusFilter string) (*dto.BookingListResponse, error) {
	statuses, err := statusesFromFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	bookings, err := u.bookingRepo.FindByStatuses(u.db.WithContext(ctx), statuses)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

// Approve assigns a slot to a pending booking and sends the approval
// email. Overlaps with other bookings for the same staff member are
// returned as advisory warnings, never as failures.
func (u *adminBookingUsecase) Approve(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID, req *dto.ApproveBookingRequest) (*dto.ApproveBookingResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid approve request", err)
	}
	start, end, err := parseSlot(req.SlotStart, req.SlotEnd)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.findBooking(tx, bookingID)
	if err != nil {
		return nil, err
	}

	if req.StaffID != nil {
		staff, err := u.staffRepo.FindByID(tx, *req.StaffID)
		if err != nil {
			return nil, err
		}
		if staff == nil {
			return nil, apperr.Validationf("staff %s not found", req.StaffID)
		}
	}
	if req.OrganizationID != nil {
		org, err := u.orgRepo.FindByID(tx, *req.OrganizationID)
		if err != nil {
			return nil, err
		}
		if org == nil {
			return nil, apperr.Validationf("organization %s not found", req.OrganizationID)
		}
	}

	warnings, err := u.lifecycle.Approve(ctx, tx, &actorID, booking, start, end, req.StaffID, req.OrganizationID, req.Amount)
	if err != nil {
		return nil, err
	}

	if !booking.ApprovalEmailSent {
		if err := u.notifier.Dispatch(ctx, service.EventApproval, booking); err != nil {
			u.log.Errorf("Approval dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
			return nil, err
		}
		booking.ApprovalEmailSent = true
		if _, err := u.bookingRepo.UpdateWithVersion(tx, booking); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if len(warnings) > 0 {
		u.log.Warnf("Booking %s approved with %d overlapping slot(s) for staff %v", booking.ID, len(warnings), req.StaffID)
	} else {
		u.log.Infof("Booking %s approved, slot %s - %s", booking.ID, start, end)
	}
	return &dto.ApproveBookingResponse{
		Booking:  converter.BookingToResponse(booking),
		Warnings: overlapAdvisories(warnings),
	}, nil
}

// Reject refuses a booking with a mandatory reason and sends the
// rejection email.
func (u *adminBookingUsecase) Reject(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID, req *dto.RejectBookingRequest) (*dto.BookingResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid reject request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.findBooking(tx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := u.lifecycle.Reject(ctx, tx, &actorID, booking, req.Reason, req.AlternateSlots); err != nil {
		return nil, err
	}

	if !booking.RejectionEmailSent {
		if err := u.notifier.Dispatch(ctx, service.EventRejection, booking); err != nil {
			u.log.Errorf("Rejection dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
			return nil, err
		}
		booking.RejectionEmailSent = true
		if _, err := u.bookingRepo.UpdateWithVersion(tx, booking); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Booking %s rejected: %s", booking.ID, req.Reason)
	return converter.BookingToResponse(booking), nil
}

// Cancel is the admin-side cancellation, allowed from approved, payment
// pending and confirmed without a window check.
func (u *adminBookingUsecase) Cancel(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid cancel request", err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.findBooking(tx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := u.lifecycle.CancelByAdmin(ctx, tx, &actorID, booking, req.Reason); err != nil {
		return nil, err
	}
	if err := u.notifier.Dispatch(ctx, service.EventCancellation, booking); err != nil {
		u.log.Errorf("Cancellation dispatch failed for booking %s, rolling back: %+v", booking.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Booking %s cancelled by admin %s", booking.ID, actorID)
	return converter.BookingToResponse(booking), nil
}

// Complete closes a confirmed booking whose slot has elapsed.
func (u *adminBookingUsecase) Complete(ctx context.Context, actorID uuid.UUID, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	booking, err := u.findBooking(tx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := u.lifecycle.Complete(ctx, tx, &actorID, booking); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Booking %s completed", booking.ID)
	return converter.BookingToResponse(booking), nil
}

// BatchDecide applies one decision per booking. Each item runs in its own
// transaction; a failing item is reported and the rest proceed.
func (u *adminBookingUsecase) BatchDecide(ctx context.Context, actorID uuid.UUID, req *dto.BatchDecideRequest) (*dto.BatchDecideResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid batch request", err)
	}

	resp := &dto.BatchDecideResponse{
		Results: make([]dto.BatchDecisionResult, 0, len(req.Decisions)),
	}
	for _, item := range req.Decisions {
		result := u.decideOne(ctx, actorID, item)
		if result.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, result)
	}

	u.log.Infof("Batch decide finished: %d succeeded, %d failed", resp.Succeeded, resp.Failed)
	return resp, nil
}

func (u *adminBookingUsecase) decideOne(ctx context.Context, actorID uuid.UUID, item dto.BatchDecisionItem) dto.BatchDecisionResult {
	result := dto.BatchDecisionResult{BookingID: item.BookingID, Action: item.Action}

	switch item.Action {
	case "approve":
		if item.SlotStart == nil || item.SlotEnd == nil {
			result.Error = "approve requires slot_start and slot_end"
			return result
		}
		approveReq := &dto.ApproveBookingRequest{
			SlotStart:      *item.SlotStart,
			SlotEnd:        *item.SlotEnd,
			StaffID:        item.StaffID,
			OrganizationID: item.OrganizationID,
			Amount:         item.Amount,
		}
		approved, err := u.Approve(ctx, actorID, item.BookingID, approveReq)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Status = approved.Booking.Status
		result.Warnings = approved.Warnings

	case "reject":
		if item.Reason == nil || *item.Reason == "" {
			result.Error = "reject requires a reason"
			return result
		}
		rejectReq := &dto.RejectBookingRequest{Reason: *item.Reason}
		if item.AlternateSlots != nil {
			rejectReq.AlternateSlots = *item.AlternateSlots
		}
		rejected, err := u.Reject(ctx, actorID, item.BookingID, rejectReq)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Status = rejected.Status

	case "cancel":
		cancelReq := &dto.CancelBookingRequest{}
		if item.Reason != nil {
			cancelReq.Reason = *item.Reason
		}
		cancelled, err := u.Cancel(ctx, actorID, item.BookingID, cancelReq)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Status = cancelled.Status

	case "complete":
		completed, err := u.Complete(ctx, actorID, item.BookingID)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Success = true
		result.Status = completed.Status

	default:
		result.Error = "unknown action " + item.Action
	}

	return result
}

func (u *adminBookingUsecase) findBooking(tx *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	booking, err := u.bookingRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", id, err)
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	return booking, nil
}

func parseSlot(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validationf("invalid slot_start %q, expected RFC 3339", startStr)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validationf("invalid slot_end %q, expected RFC 3339", endStr)
	}
	return start, end, nil
}

func overlapAdvisories(warnings []OverlapWarning) []dto.OverlapAdvisory {
	if len(warnings) == 0 {
		return nil
	}
	advisories := make([]dto.OverlapAdvisory, len(warnings))
	for i, w := range warnings {
		advisories[i] = dto.OverlapAdvisory{
			BookingID:         w.BookingID,
			AcknowledgementID: w.AcknowledgementID,
		}
		if w.SlotStart != nil {
			s := w.SlotStart.Format(time.RFC3339)
			advisories[i].SlotStart = &s
		}
		if w.SlotEnd != nil {
			e := w.SlotEnd.Format(time.RFC3339)
			advisories[i].SlotEnd = &e
		}
	}
	return advisories
}
