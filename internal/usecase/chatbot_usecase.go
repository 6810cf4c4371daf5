package usecase

import (
	"context"

	"mindsettler-api/internal/chatbot"
	"mindsettler-api/internal/delivery/dto"
	"mindsettler-api/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type ChatbotUsecase interface {
	Reply(ctx context.Context, req *dto.ChatbotRequest) (*dto.ChatbotResponse, error)
}

type chatbotUsecase struct {
	log      *logrus.Logger
	validate *validator.Validate
	matcher  *chatbot.Matcher
}

func NewChatbotUsecase(log *logrus.Logger, validate *validator.Validate, matcher *chatbot.Matcher) ChatbotUsecase {
	return &chatbotUsecase{
		log:      log,
		validate: validate,
		matcher:  matcher,
	}
}

func (u *chatbotUsecase) Reply(ctx context.Context, req *dto.ChatbotRequest) (*dto.ChatbotResponse, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid chatbot request", err)
	}

	match := u.matcher.Match(req.Message)
	u.log.Debugf("Chatbot matched intent=%s confidence=%.2f", match.Intent, match.Confidence)

	return &dto.ChatbotResponse{
		Reply:      match.Response,
		Intent:     match.Intent,
		Confidence: match.Confidence,
		Fallback:   match.Fallback,
	}, nil
}
