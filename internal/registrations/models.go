package registrations

import (
	"time"

	"stagehand/internal/conflicts"

	"github.com/google/uuid"
)

// Registration is one ledger entry: a registrant occupying (or queueing for,
// or having been turned away from) one shift. Entries are status-transitioned,
// never deleted.
type Registration struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ShiftID uuid.UUID `json:"shift_id" gorm:"type:uuid;not null;index"`

	// Registrant: a member reference, or an external contact. Contact fields
	// are denormalized for members too, so conflict matching and outbound
	// mail never need a directory join.
	MemberID     *uuid.UUID `json:"member_id,omitempty" gorm:"type:uuid"`
	ContactName  string     `json:"contact_name" gorm:"size:255"`
	ContactEmail string     `json:"contact_email" gorm:"size:255;not null"`

	Status Status `json:"status" gorm:"type:varchar(20);not null;check:status IN ('ACTIVE','TENTATIVE','WAITLISTED','REJECTED','CANCELLED')"`

	// Single-use credential for anonymous self-service cancellation. Only
	// minted for public flows; consumed (cleared) on successful cancel.
	CancelToken *string `json:"-" gorm:"column:cancel_token;size:64"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (Registration) TableName() string {
	return "registrations"
}

// Registrant returns the conflict-detection identity of this registration
func (r *Registration) Registrant() conflicts.Registrant {
	return conflicts.Registrant{
		MemberID: r.MemberID,
		Name:     r.ContactName,
		Email:    r.ContactEmail,
	}
}

// RegisterRequest is the self-service registration payload. Either member_id
// (authenticated flow) or name+email (public external flow) identifies the
// registrant.
type RegisterRequest struct {
	MemberID     string `json:"member_id" binding:"omitempty,uuid" validate:"omitempty,uuid"`
	ContactName  string `json:"contact_name" binding:"omitempty,max=255" validate:"required_without=MemberID,omitempty,max=255"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email" validate:"required_without=MemberID,omitempty,email"`
}

// RegisterResult is what the caller gets back: the ledger entry plus, for
// public flows, the one-time cancellation link token.
type RegisterResult struct {
	Registration *Registration `json:"registration"`
	CancelToken  string        `json:"cancel_token,omitempty"`
}

// CancelResult reports a completed cancellation and, when the freed slot was
// refilled, the promoted registration.
type CancelResult struct {
	Cancelled  *Registration `json:"cancelled"`
	PromotedID *uuid.UUID    `json:"promoted_id,omitempty"`
}
