package notifications

import (
	"context"
	"fmt"
	"time"

	"stagehand/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dispatcher turns registration lifecycle events into queued emails. Every
// method is fire-and-forget: the caller's transaction has already committed,
// so failures here are logged and dropped, never propagated.
type Dispatcher struct {
	db       *gorm.DB
	producer NotificationProducer
}

func NewDispatcher(db *gorm.DB, producer NotificationProducer) *Dispatcher {
	return &Dispatcher{db: db, producer: producer}
}

// registrationContext is the denormalized slice of ledger + catalog a
// notification template needs
type registrationContext struct {
	ContactName  string    `gorm:"column:contact_name"`
	ContactEmail string    `gorm:"column:contact_email"`
	ShiftID      uuid.UUID `gorm:"column:shift_id"`
	Role         string    `gorm:"column:role"`
	StartsAt     time.Time `gorm:"column:starts_at"`
	EndsAt       time.Time `gorm:"column:ends_at"`
	EventID      uuid.UUID `gorm:"column:event_id"`
	EventName    string    `gorm:"column:event_name"`
}

func (d *Dispatcher) lookupContext(ctx context.Context, registrationID uuid.UUID) (*registrationContext, error) {
	var rc registrationContext
	err := d.db.WithContext(ctx).Raw(`
		SELECT r.contact_name, r.contact_email,
		       s.id AS shift_id, s.role, s.starts_at, s.ends_at,
		       e.id AS event_id, e.name AS event_name
		FROM registrations r
		JOIN shifts s ON s.id = r.shift_id
		JOIN events e ON e.id = s.event_id
		WHERE r.id = ?
	`, registrationID).Scan(&rc).Error
	if err != nil {
		return nil, err
	}
	if rc.ContactEmail == "" {
		return nil, fmt.Errorf("registration %s has no contact", registrationID)
	}
	return &rc, nil
}

func (d *Dispatcher) RegistrationConfirmed(registrationID uuid.UUID, cancelToken string) {
	d.dispatch(registrationID, NotificationTypeRegistrationConfirmed, cancelToken)
}

func (d *Dispatcher) RegistrationWaitlisted(registrationID uuid.UUID, cancelToken string) {
	d.dispatch(registrationID, NotificationTypeRegistrationWaitlisted, cancelToken)
}

func (d *Dispatcher) CancellationConfirmed(registrationID uuid.UUID) {
	d.dispatch(registrationID, NotificationTypeCancellationConfirmed, "")
}

func (d *Dispatcher) WaitlistPromoted(registrationID uuid.UUID) {
	d.dispatch(registrationID, NotificationTypeWaitlistPromoted, "")
}

func (d *Dispatcher) dispatch(registrationID uuid.UUID, notType NotificationType, cancelToken string) {
	// Detached from the request context: the triggering transaction has
	// committed and the HTTP response must not wait on the broker
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		rc, err := d.lookupContext(ctx, registrationID)
		if err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "notification context lookup failed", err, map[string]interface{}{
				"registration_id": registrationID.String(),
				"type":            string(notType),
			})
			return
		}

		data := map[string]interface{}{
			"event_name": rc.EventName,
			"role":       rc.Role,
			"starts_at":  rc.StartsAt.Format("Mon, 2 Jan 2006 15:04 MST"),
			"ends_at":    rc.EndsAt.Format("15:04 MST"),
		}
		if cancelToken != "" {
			data["cancel_url"] = "/api/v1/cancel/" + cancelToken
		}

		notification := NewNotificationBuilder().
			WithType(notType).
			WithRecipient(rc.ContactEmail, rc.ContactName).
			WithSubject(subjectFor(notType, rc)).
			WithTemplateData(data).
			WithRegistrationContext(registrationID, rc.ShiftID, rc.EventID).
			Build()

		if err := d.producer.PublishNotification(ctx, notification); err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "notification publish failed", err, map[string]interface{}{
				"registration_id": registrationID.String(),
				"type":            string(notType),
			})
		}
	}()
}

func subjectFor(notType NotificationType, rc *registrationContext) string {
	switch notType {
	case NotificationTypeRegistrationConfirmed:
		return fmt.Sprintf("You're confirmed: %s at %s", rc.Role, rc.EventName)
	case NotificationTypeRegistrationWaitlisted:
		return fmt.Sprintf("Waitlisted: %s at %s", rc.Role, rc.EventName)
	case NotificationTypeWaitlistPromoted:
		return fmt.Sprintf("A spot opened up: %s at %s", rc.Role, rc.EventName)
	case NotificationTypeCancellationConfirmed:
		return fmt.Sprintf("Cancelled: %s at %s", rc.Role, rc.EventName)
	default:
		return "Notification from Stagehand"
	}
}
