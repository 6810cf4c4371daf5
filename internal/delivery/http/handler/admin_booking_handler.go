package handler

import (
	"encoding/json"
	"net/http"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/delivery/http/middleware"
	"mindsettler-api/internal/usecase"
	"mindsettler-api/pkg/response"
	"mindsettler-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminBookingHandler struct {
	adminUsecase usecase.AdminBookingUsecase
	validator    *validator.CustomValidator
}

func NewAdminBookingHandler(adminUsecase usecase.AdminBookingUsecase, validator *validator.CustomValidator) *AdminBookingHandler {
	return &AdminBookingHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

func (h *AdminBookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	bookings, err := h.adminUsecase.List(r.Context(), status)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved", bookings)
}

func (h *AdminBookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req dto.ApproveBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	approved, err := h.adminUsecase.Approve(r.Context(), actorID, bookingID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	message := "Booking approved"
	if len(approved.Warnings) > 0 {
		message = "Booking approved with overlap warnings"
	}
	response.Success(w, http.StatusOK, message, approved)
}

func (h *AdminBookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req dto.RejectBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rejected, err := h.adminUsecase.Reject(r.Context(), actorID, bookingID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking rejected", rejected)
}

func (h *AdminBookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	var req dto.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	cancelled, err := h.adminUsecase.Cancel(r.Context(), actorID, bookingID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled", cancelled)
}

func (h *AdminBookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	actorID, bookingID, ok := h.actorAndBooking(w, r)
	if !ok {
		return
	}

	completed, err := h.adminUsecase.Complete(r.Context(), actorID, bookingID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking completed", completed)
}

func (h *AdminBookingHandler) BatchDecide(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Account information not found")
		return
	}

	var req dto.BatchDecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	results, err := h.adminUsecase.BatchDecide(r.Context(), actorID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	// Partial success is still a 200; per-item outcomes are in the body.
	response.Success(w, http.StatusOK, "Batch processed", results)
}

func (h *AdminBookingHandler) actorAndBooking(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := middleware.GetAccountIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Account information not found")
		return uuid.Nil, uuid.Nil, false
	}

	vars := mux.Vars(r)
	bookingID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
		return uuid.Nil, uuid.Nil, false
	}

	return actorID, bookingID, true
}
