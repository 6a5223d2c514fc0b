package members

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMember Role = "MEMBER"
	RoleAdmin  Role = "ADMIN"
)

func IsValidRole(role string) bool {
	switch role {
	case string(RoleMember), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// Member is a registered volunteer. Authentication lives in the external
// identity service; this table is the registrant directory the engine
// resolves member references against.
type Member struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Role      Role      `json:"role" gorm:"not null;default:'MEMBER'"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// CreateMemberRequest represents a request to add a member to the directory
type CreateMemberRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Role      string `json:"role" binding:"omitempty,oneof=MEMBER ADMIN"`
}

// UpdateMemberRequest represents a partial member update
type UpdateMemberRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Role      *string `json:"role" binding:"omitempty,oneof=MEMBER ADMIN"`
	Active    *bool   `json:"active"`
}
