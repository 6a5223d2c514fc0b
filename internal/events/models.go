package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single staffed occasion (usually one performance evening). Shifts
// hang off an event; the event-level cancellation deadline governs self-service
// cancellation for all of them.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Venue       string    `json:"venue" gorm:"size:255"`
	StartsAt    time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null"`

	// Explicit cancellation cutoff. When nil the engine falls back to a fixed
	// buffer before StartsAt.
	CancellationDeadline *time.Time `json:"cancellation_deadline,omitempty"`

	Status    Status     `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`
	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Event) TableName() string {
	return "events"
}

type CreateEventRequest struct {
	Name                 string     `json:"name" binding:"required,min=3,max=255"`
	Description          string     `json:"description" binding:"max=2000"`
	Venue                string     `json:"venue" binding:"max=255"`
	StartsAt             time.Time  `json:"starts_at" binding:"required"`
	EndsAt               time.Time  `json:"ends_at" binding:"required,gtfield=StartsAt"`
	CancellationDeadline *time.Time `json:"cancellation_deadline"`
}

type UpdateEventRequest struct {
	Name                 *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description          *string    `json:"description" binding:"omitempty,max=2000"`
	Venue                *string    `json:"venue" binding:"omitempty,max=255"`
	StartsAt             *time.Time `json:"starts_at"`
	EndsAt               *time.Time `json:"ends_at"`
	CancellationDeadline *time.Time `json:"cancellation_deadline"`
	Status               *string    `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

type EventListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Upcoming bool   `form:"upcoming"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}
