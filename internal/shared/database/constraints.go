package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the allocation engine relies on
func MigrateConstraints(db *gorm.DB) error {
	// Cancellation tokens are single-use credentials; uniqueness is enforced
	// at the store level, not just at mint time
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_registrations_cancel_token
		ON registrations (cancel_token)
		WHERE cancel_token IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Capacity counting and FIFO promotion both scan by (shift_id, status)
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registrations_shift_status_created
		ON registrations (shift_id, status, created_at);
	`).Error
	if err != nil {
		return err
	}

	// Conflict detection scans a registrant's commitments across events
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registrations_member_status
		ON registrations (member_id, status)
		WHERE member_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_registrations_email_status
		ON registrations (lower(contact_email), status);
	`).Error
	if err != nil {
		return err
	}

	// Proposal generation matches shifts by event and role label
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_shifts_event_role
		ON shifts (event_id, role);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
