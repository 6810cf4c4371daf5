package service

import (
	"context"

	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes booking audit entries inside the caller's
// transaction so the trail commits atomically with the change.
type AuditService interface {
	LogTransition(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, from, to entity.BookingStatus, note string) error
	LogAction(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, bookingID *uuid.UUID, metadata entity.JSON) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogTransition(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, booking *entity.Booking, from, to entity.BookingStatus, note string) error {
	metadata := entity.JSON{
		"from": string(from),
		"to":   string(to),
	}
	if note != "" {
		metadata["note"] = note
	}

	bookingID := booking.ID
	auditLog := &entity.AuditLog{
		ActorID:   actorID,
		BookingID: &bookingID,
		Action:    entity.AuditActionBookingTransition,
		Metadata:  metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}

func (s *auditService) LogAction(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, bookingID *uuid.UUID, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		ActorID:   actorID,
		BookingID: bookingID,
		Action:    action,
		Metadata:  metadata,
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}
	return nil
}
