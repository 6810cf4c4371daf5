package handler

import (
	"encoding/json"
	"net/http"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/usecase"
	"mindsettler-api/pkg/response"
	"mindsettler-api/pkg/validator"
)

type BookingHandler struct {
	intakeUsecase usecase.BookingIntakeUsecase
	verifyUsecase usecase.VerificationUsecase
	queryUsecase  usecase.BookingQueryUsecase
	validator     *validator.CustomValidator
}

func NewBookingHandler(
	intakeUsecase usecase.BookingIntakeUsecase,
	verifyUsecase usecase.VerificationUsecase,
	queryUsecase usecase.BookingQueryUsecase,
	validator *validator.CustomValidator,
) *BookingHandler {
	return &BookingHandler{
		intakeUsecase: intakeUsecase,
		verifyUsecase: verifyUsecase,
		queryUsecase:  queryUsecase,
		validator:     validator,
	}
}

func (h *BookingHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	draft, err := h.intakeUsecase.CreateDraft(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Draft booking created", draft)
}

func (h *BookingHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	result, err := h.verifyUsecase.VerifyEmail(r.Context(), token)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Email verified", result)
}

func (h *BookingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	acknowledgementID := r.URL.Query().Get("acknowledgement_id")

	status, err := h.queryUsecase.GetStatus(r.Context(), acknowledgementID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking status retrieved", status)
}

func (h *BookingHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	bookings, err := h.queryUsecase.ListByEmail(r.Context(), email)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Bookings retrieved", bookings)
}

func (h *BookingHandler) GetActiveBooking(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	booking, err := h.queryUsecase.GetActiveBooking(r.Context(), email)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Active booking retrieved", booking)
}
