package proposals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConflictNote is advisory overlap metadata attached to a candidate. Exactly
// one of RegistrationID (committed ledger entry) or CandidateKey (another
// candidate in the same preview) is set.
type ConflictNote struct {
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	CandidateKey   string     `json:"candidate_key,omitempty"`
	Role           string     `json:"role,omitempty"`
	StartsAt       time.Time  `json:"starts_at"`
	EndsAt         time.Time  `json:"ends_at"`
}

// Candidate is one proposed placement: a cast assignment mapped onto a shift
// slot. Conflicts are attached, never filtered; the operator decides.
type Candidate struct {
	Key           string     `json:"key"`
	ShiftID       uuid.UUID  `json:"shift_id"`
	AssignmentID  uuid.UUID  `json:"assignment_id"`
	PerformanceID uuid.UUID  `json:"performance_id"`
	EventID       uuid.UUID  `json:"event_id"`
	Role          string     `json:"role"`
	MemberID      *uuid.UUID `json:"member_id,omitempty"`
	ContactName   string     `json:"contact_name"`
	ContactEmail  string     `json:"contact_email"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`

	Conflicts []ConflictNote `json:"conflicts,omitempty"`
}

// CandidateKey builds the stable lookup key a confirm call uses to select a
// previewed candidate
func CandidateKey(shiftID, assignmentID uuid.UUID) string {
	return fmt.Sprintf("%s/%s", shiftID, assignmentID)
}

// MissingRole reports an event that has no shift instance for a role the cast
// roster expects
type MissingRole struct {
	PerformanceID uuid.UUID `json:"performance_id"`
	EventID       uuid.UUID `json:"event_id"`
	Role          string    `json:"role"`
}

// Proposal is the preview output: candidates plus the informational groups.
// Nothing here is persisted.
type Proposal struct {
	ProductionID uuid.UUID   `json:"production_id"`
	Candidates   []Candidate `json:"candidates"`

	// UnlinkedPerformances have no event yet and contribute no candidates
	UnlinkedPerformances []uuid.UUID `json:"unlinked_performances,omitempty"`

	// MissingRoles are roster roles with no matching shift on the event
	MissingRoles []MissingRole `json:"missing_roles,omitempty"`
}

type ConfirmRequest struct {
	Keys   []string `json:"keys" binding:"required,min=1"`
	Status string   `json:"status" binding:"required,oneof=ACTIVE TENTATIVE"`
}

// SkippedCandidate records one candidate that failed its confirm-time
// revalidation
type SkippedCandidate struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// ConfirmResult aggregates the per-candidate outcomes of one confirm call
type ConfirmResult struct {
	ProductionID    uuid.UUID          `json:"production_id"`
	AcceptedCount   int                `json:"accepted_count"`
	RegistrationIDs []uuid.UUID        `json:"registration_ids"`
	Skipped         []SkippedCandidate `json:"skipped,omitempty"`
}
