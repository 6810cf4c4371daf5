package handler

import (
	"encoding/json"
	"net/http"

	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/internal/usecase"
	"mindsettler-api/pkg/response"
	"mindsettler-api/pkg/validator"
)

type ChatbotHandler struct {
	chatbotUsecase usecase.ChatbotUsecase
	validator      *validator.CustomValidator
}

func NewChatbotHandler(chatbotUsecase usecase.ChatbotUsecase, validator *validator.CustomValidator) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotUsecase: chatbotUsecase,
		validator:      validator,
	}
}

func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reply, err := h.chatbotUsecase.Reply(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Reply generated", reply)
}
