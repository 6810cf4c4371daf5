package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingMode is how the session is held.
type BookingMode string

const (
	BookingModeOnline  BookingMode = "ONLINE"
	BookingModeOffline BookingMode = "OFFLINE"
)

// PreferredPeriod is the user's coarse time-of-day preference.
type PreferredPeriod string

const (
	PeriodMorning PreferredPeriod = "MORNING"
	PeriodEvening PreferredPeriod = "EVENING"
	PeriodCustom  PreferredPeriod = "CUSTOM"
)

// PaymentMode is the submethod for online payments.
type PaymentMode string

const (
	PaymentModeUPI        PaymentMode = "UPI"
	PaymentModeCard       PaymentMode = "CARD"
	PaymentModeNetBanking PaymentMode = "NETBANKING"
)

// OnlinePaymentModes is the fixed set of submethods valid for ONLINE bookings.
var OnlinePaymentModes = []PaymentMode{PaymentModeUPI, PaymentModeCard, PaymentModeNetBanking}

// IsValidOnline returns true if the payment mode belongs to the online set.
func (p PaymentMode) IsValidOnline() bool {
	for _, m := range OnlinePaymentModes {
		if p == m {
			return true
		}
	}
	return false
}

// CancelActor identifies who cancelled a booking.
type CancelActor string

const (
	CancelledByUser  CancelActor = "USER"
	CancelledByAdmin CancelActor = "ADMIN"
)

// Booking is the central entity of the platform. It carries the user's
// submitted preferences, the admin-assigned slot, and every lifecycle
// timestamp needed to reconstruct the booking's timeline. Bookings are
// never deleted; terminal bookings are retained for audit.
type Booking struct {
	ID                uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	AcknowledgementID *string       `gorm:"type:varchar(20);uniqueIndex" json:"acknowledgement_id,omitempty"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	Status            BookingStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`

	// User-submitted preferences
	PreferredDate      time.Time       `gorm:"type:date;not null" json:"preferred_date"`
	PreferredPeriod    PreferredPeriod `gorm:"type:varchar(10);not null" json:"preferred_period"`
	PreferredTimeStart *time.Time      `json:"preferred_time_start,omitempty"`
	PreferredTimeEnd   *time.Time      `json:"preferred_time_end,omitempty"`
	Mode               BookingMode     `gorm:"type:varchar(10);not null" json:"mode"`
	PaymentMode        *PaymentMode    `gorm:"type:varchar(15)" json:"payment_mode,omitempty"`
	Message            string          `gorm:"type:text" json:"message,omitempty"`

	// Admin-assigned fields. Staff and organization references are
	// nullable and become unset when the referenced record is removed.
	ApprovedSlotStart *time.Time       `gorm:"index" json:"approved_slot_start,omitempty"`
	ApprovedSlotEnd   *time.Time       `json:"approved_slot_end,omitempty"`
	StaffID           *uuid.UUID       `gorm:"type:uuid;index" json:"staff_id,omitempty"`
	OrganizationID    *uuid.UUID       `gorm:"type:uuid" json:"organization_id,omitempty"`
	Amount            *decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount,omitempty"`
	RejectionReason   string           `gorm:"type:text" json:"rejection_reason,omitempty"`
	AlternateSlots    string           `gorm:"type:text" json:"alternate_slots,omitempty"`

	// Consent
	ConsentGiven   bool       `gorm:"not null;default:false" json:"consent_given"`
	ConsentGivenAt *time.Time `json:"consent_given_at,omitempty"`

	// Email verification
	EmailVerified               bool       `gorm:"not null;default:false" json:"email_verified"`
	EmailVerifiedAt             *time.Time `json:"email_verified_at,omitempty"`
	EmailVerificationToken      string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	LastVerificationEmailSentAt *time.Time `json:"-"`

	// Cancellation
	CancellationToken       *string      `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	CancellationRequestedAt *time.Time   `json:"-"`
	CancellationReason      string       `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy             *CancelActor `gorm:"type:varchar(10)" json:"cancelled_by,omitempty"`

	// Payment
	PaymentReference   *string `gorm:"type:varchar(30);uniqueIndex" json:"payment_reference,omitempty"`
	ApprovalEmailSent  bool    `gorm:"not null;default:false" json:"-"`
	RejectionEmailSent bool    `gorm:"not null;default:false" json:"-"`

	// Lifecycle timestamps
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	PaymentRequestedAt *time.Time `json:"payment_requested_at,omitempty"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	// Version supports optimistic locking so concurrent transition
	// requests are re-validated against the latest committed status.
	Version int64 `gorm:"not null;default:1" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Staff        *Staff        `gorm:"foreignKey:StaffID;constraint:OnDelete:SET NULL" json:"staff,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:SET NULL" json:"organization,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate assigns the primary key and initial version.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Version == 0 {
		b.Version = 1
	}
	return nil
}

// IsActive returns true if the booking blocks another booking for its user.
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// IsTerminal returns true if the booking can no longer change status.
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// HasAcknowledgementID returns true once the public reference code is assigned.
func (b *Booking) HasAcknowledgementID() bool {
	return b.AcknowledgementID != nil && *b.AcknowledgementID != ""
}
