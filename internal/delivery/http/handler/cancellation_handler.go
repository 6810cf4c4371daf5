package handler

import (
	"encoding/json"
	"net/http"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/usecase"
	"mindsettler-api/pkg/response"
	"mindsettler-api/pkg/validator"
)

type CancellationHandler struct {
	cancellationUsecase usecase.CancellationUsecase
	validator           *validator.CustomValidator
}

func NewCancellationHandler(cancellationUsecase usecase.CancellationUsecase, validator *validator.CustomValidator) *CancellationHandler {
	return &CancellationHandler{
		cancellationUsecase: cancellationUsecase,
		validator:           validator,
	}
}

func (h *CancellationHandler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestCancellationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.cancellationUsecase.RequestCancellation(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	message := "Cancellation confirmation email sent"
	if result.Cancelled {
		message = "Booking cancelled"
	}
	response.Success(w, http.StatusOK, message, result)
}

func (h *CancellationHandler) VerifyCancellation(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	result, err := h.cancellationUsecase.VerifyCancellation(r.Context(), token)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Booking cancelled", result)
}
