package handler

import (
	"net/http"

	"mindsettler-api/internal/usecase"
	"mindsettler-api/pkg/response"

	"github.com/google/uuid"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{auditLogUsecase: auditLogUsecase}
}

func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if bookingIDStr := r.URL.Query().Get("booking_id"); bookingIDStr != "" {
		bookingID, err := uuid.Parse(bookingIDStr)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid booking ID", nil)
			return
		}
		logs, err := h.auditLogUsecase.ListByBooking(r.Context(), bookingID)
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.Success(w, http.StatusOK, "Audit logs retrieved", logs)
		return
	}

	logs, err := h.auditLogUsecase.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved", logs)
}
