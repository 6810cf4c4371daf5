package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"mindsettler-api/config"
	"mindsettler-api/internal/domain/entity"
	"mindsettler-api/pkg/apperr"

	"github.com/sirupsen/logrus"
)

// NotificationEvent identifies which booking email to send.
type NotificationEvent string

const (
	EventVerification       NotificationEvent = "booking.verification"
	EventApproval           NotificationEvent = "booking.approval"
	EventRejection          NotificationEvent = "booking.rejection"
	EventConfirmation       NotificationEvent = "booking.confirmation"
	EventCancellationVerify NotificationEvent = "booking.cancellation_verify"
	EventCancellation       NotificationEvent = "booking.cancellation"
)

// NotificationDispatcher sends booking lifecycle emails. Dispatch must
// either deliver or return an error; callers treat a failed dispatch as
// fatal to the triggering request so no transition commits without its
// notification.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event NotificationEvent, booking *entity.Booking) error
}

// SMTPDispatcher delivers notifications over plain SMTP.
type SMTPDispatcher struct {
	cfg         config.MailConfig
	frontendURL string
	log         *logrus.Logger
}

func NewSMTPDispatcher(cfg config.MailConfig, frontendURL string, log *logrus.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, frontendURL: frontendURL, log: log}
}

func (d *SMTPDispatcher) Dispatch(ctx context.Context, event NotificationEvent, booking *entity.Booking) error {
	subject, body := d.compose(event, booking)
	if subject == "" {
		return apperr.Newf(apperr.KindNotificationDelivery, "unknown notification event: %s", event)
	}

	to := booking.User.Email
	if to == "" {
		return apperr.New(apperr.KindNotificationDelivery, "booking has no recipient email")
	}

	msg := strings.Join([]string{
		"From: " + d.cfg.From,
		"To: " + to,
		"Reply-To: " + d.cfg.ReplyTo,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", d.cfg.Host, d.cfg.Port)
	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, d.cfg.From, []string{to}, []byte(msg)); err != nil {
		d.log.Warnf("Failed to dispatch %s for booking %s: %+v", event, booking.ID, err)
		return apperr.Wrap(apperr.KindNotificationDelivery, "failed to send notification email", err)
	}

	d.log.Infof("Dispatched %s to %s for booking %s", event, to, booking.ID)
	return nil
}

func (d *SMTPDispatcher) compose(event NotificationEvent, booking *entity.Booking) (string, string) {
	switch event {
	case EventVerification:
		link := fmt.Sprintf("%s/verify-booking?token=%s", d.frontendURL, booking.EmailVerificationToken)
		return "Verify your booking – MindSettler",
			fmt.Sprintf(`<p>Hello,</p>
<p>Please verify your booking by clicking the link below:</p>
<p><a href=%q>Verify Booking</a></p>
<p>If you did not request this booking, please ignore this email.</p>
<br /><p>– MindSettler Team</p>`, link)

	case EventApproval:
		return "Your booking has been approved – MindSettler",
			fmt.Sprintf(`<p>Hello,</p>
<p>Your session request has been approved for %s.</p>
<p>Please complete the payment to confirm your slot.</p>
<br /><p>– MindSettler Team</p>`, slotText(booking))

	case EventRejection:
		return "Update on your booking – MindSettler",
			fmt.Sprintf(`<p>Hello,</p>
<p>We could not accommodate your session request.</p>
<p>Reason: %s</p>
<p>%s</p>
<br /><p>– MindSettler Team</p>`, booking.RejectionReason, alternatesText(booking))

	case EventConfirmation:
		ack := ""
		if booking.AcknowledgementID != nil {
			ack = *booking.AcknowledgementID
		}
		return "Your booking is confirmed – MindSettler",
			fmt.Sprintf(`<p>Hello,</p>
<p>Your payment was received and your session is confirmed for %s.</p>
<p>Your booking reference is <strong>%s</strong>.</p>
<br /><p>– MindSettler Team</p>`, slotText(booking), ack)

	case EventCancellationVerify:
		token := ""
		if booking.CancellationToken != nil {
			token = *booking.CancellationToken
		}
		link := fmt.Sprintf("%s/verify-cancellation?token=%s", d.frontendURL, token)
		return "Confirm your cancellation – MindSettler",
			fmt.Sprintf(`<p>Hello,</p>
<p>We received a request to cancel your confirmed session.</p>
<p><a href=%q>Confirm Cancellation</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
<br /><p>– MindSettler Team</p>`, link)

	case EventCancellation:
		return "Your booking has been cancelled – MindSettler",
			`<p>Hello,</p>
<p>Your booking has been cancelled.</p>
<p>You are welcome to create a new session request at any time.</p>
<br /><p>– MindSettler Team</p>`
	}

	return "", ""
}

func slotText(booking *entity.Booking) string {
	if booking.ApprovedSlotStart == nil || booking.ApprovedSlotEnd == nil {
		return "the assigned slot"
	}
	return fmt.Sprintf("%s – %s",
		booking.ApprovedSlotStart.Format("Mon, 02 Jan 2006 15:04"),
		booking.ApprovedSlotEnd.Format("15:04 MST"))
}

func alternatesText(booking *entity.Booking) string {
	if booking.AlternateSlots == "" {
		return ""
	}
	return "Suggested alternate slots: " + booking.AlternateSlots
}

// LogDispatcher is a development dispatcher that records the notification
// instead of sending it.
type LogDispatcher struct {
	log *logrus.Logger
}

func NewLogDispatcher(log *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, event NotificationEvent, booking *entity.Booking) error {
	d.log.WithFields(logrus.Fields{
		"event":      string(event),
		"booking_id": booking.ID,
		"recipient":  booking.User.Email,
	}).Info("notification dispatched (log only)")
	return nil
}
