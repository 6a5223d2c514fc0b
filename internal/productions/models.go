package productions

import (
	"time"

	"github.com/google/uuid"
)

// Production is a show being staged over a run of performances. It carries the
// cast roster that the proposal engine maps onto shift slots.
type Production struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Season      string    `json:"season" gorm:"size:100"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Production) TableName() string {
	return "productions"
}

// Performance ties a production to one staffed event. EventID stays nil until
// scheduling links the evening, and the proposal engine reports unlinked
// performances instead of guessing.
type Performance struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProductionID uuid.UUID  `json:"production_id" gorm:"type:uuid;not null;index"`
	EventID      *uuid.UUID `json:"event_id,omitempty" gorm:"type:uuid"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Performance) TableName() string {
	return "performances"
}

// CastAssignment names who is expected to fill a role across the production's
// performances. Contact fields are denormalized the same way registrations
// denormalize them.
type CastAssignment struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProductionID uuid.UUID  `json:"production_id" gorm:"type:uuid;not null;index"`
	Role         string     `json:"role" gorm:"not null;size:255"`
	MemberID     *uuid.UUID `json:"member_id,omitempty" gorm:"type:uuid"`
	ContactName  string     `json:"contact_name" gorm:"size:255"`
	ContactEmail string     `json:"contact_email" gorm:"size:255;not null"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CastAssignment) TableName() string {
	return "cast_assignments"
}

type CreateProductionRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Season      string `json:"season" binding:"max=100"`
}

type UpdateProductionRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Season      *string `json:"season" binding:"omitempty,max=100"`
}

type CreatePerformanceRequest struct {
	EventID string `json:"event_id" binding:"omitempty,uuid"`
	Notes   string `json:"notes" binding:"max=2000"`
}

type CreateCastAssignmentRequest struct {
	Role         string `json:"role" binding:"required,min=1,max=255"`
	MemberID     string `json:"member_id" binding:"omitempty,uuid"`
	ContactName  string `json:"contact_name" binding:"omitempty,max=255"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
}
