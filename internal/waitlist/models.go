package waitlist

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a queue view over the registrations table: the waitlist for a shift
// is exactly its WAITLISTED registrations ordered by creation time. There is
// no separate queue store to drift out of sync with the ledger.
type Entry struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ShiftID      uuid.UUID  `json:"shift_id" gorm:"type:uuid"`
	Status       string     `json:"status"`
	MemberID     *uuid.UUID `json:"member_id,omitempty" gorm:"type:uuid"`
	ContactName  string     `json:"contact_name"`
	ContactEmail string     `json:"contact_email"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Entry) TableName() string {
	return "registrations"
}

// QueueView is the admin-facing snapshot of one shift's waitlist
type QueueView struct {
	ShiftID uuid.UUID       `json:"shift_id"`
	Length  int             `json:"length"`
	Entries []PositionEntry `json:"entries"`
}

// PositionEntry is an entry with its 1-based queue position
type PositionEntry struct {
	Entry
	Position int `json:"position"`
}
