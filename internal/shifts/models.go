package shifts

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityInternal Visibility = "INTERNAL"
	VisibilityPublic   Visibility = "PUBLIC"
)

// Shift is a capacity-bounded, time-windowed staffing need within an event
// (one role instance: "Box Office 18:00-20:30, 2 people").
type Shift struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Role    string    `json:"role" gorm:"not null;size:255"`

	StartsAt time.Time `json:"starts_at" gorm:"not null"`
	EndsAt   time.Time `json:"ends_at" gorm:"not null"`

	// Capacity is configured by administrators and never mutated by the
	// allocation engine.
	Capacity        int        `json:"capacity" gorm:"not null;check:capacity >= 0"`
	WaitlistEnabled bool       `json:"waitlist_enabled" gorm:"not null;default:false"`
	Visibility      Visibility `json:"visibility" gorm:"type:varchar(20);default:'INTERNAL'"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}

// Availability is the consistent (capacity, activeCount) pair for one shift
type Availability struct {
	ShiftID     uuid.UUID `json:"shift_id"`
	Capacity    int       `json:"capacity"`
	ActiveCount int       `json:"active_count"`
	Open        int       `json:"open"`
}

type CreateShiftRequest struct {
	EventID         string    `json:"event_id" binding:"required,uuid"`
	Role            string    `json:"role" binding:"required,min=1,max=255"`
	StartsAt        time.Time `json:"starts_at" binding:"required"`
	EndsAt          time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
	Capacity        int       `json:"capacity" binding:"min=0"`
	WaitlistEnabled bool      `json:"waitlist_enabled"`
	Visibility      string    `json:"visibility" binding:"omitempty,oneof=INTERNAL PUBLIC"`
}

type UpdateShiftRequest struct {
	Role            *string    `json:"role" binding:"omitempty,min=1,max=255"`
	StartsAt        *time.Time `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Capacity        *int       `json:"capacity" binding:"omitempty,min=0"`
	WaitlistEnabled *bool      `json:"waitlist_enabled"`
	Visibility      *string    `json:"visibility" binding:"omitempty,oneof=INTERNAL PUBLIC"`
}
