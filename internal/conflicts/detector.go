package conflicts

import (
	"context"
	"fmt"
	"time"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
)

// Registrant identifies who holds a commitment. Either a member reference or
// an external contact; identity is opaque beyond equality, so matching is by
// member id when present and case-insensitive email otherwise.
type Registrant struct {
	MemberID *uuid.UUID `json:"member_id,omitempty"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
}

// TimeWindow is a half-open interval [StartsAt, EndsAt)
type TimeWindow struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// Commitment is one capacity-holding registration with its shift window
type Commitment struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	ShiftID        uuid.UUID `json:"shift_id"`
	EventID        uuid.UUID `json:"event_id"`
	Role           string    `json:"role"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
}

// Overlaps reports whether two half-open windows intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// OverlapsWindow reports whether the commitment intersects the given window
func (c Commitment) OverlapsWindow(w TimeWindow) bool {
	return Overlaps(c.StartsAt, c.EndsAt, w.StartsAt, w.EndsAt)
}

// Detector checks a registrant's time commitments for overlap. Pure reads of
// current ledger state; no side effects.
type Detector interface {
	// Check fails with a ConflictError naming the colliding registrations if
	// the registrant already holds a commitment overlapping the window.
	Check(ctx context.Context, registrant Registrant, window TimeWindow, excludeRegistrationID *uuid.UUID) error

	// Commitments returns the registrant's capacity-holding registrations,
	// for callers that compute overlap themselves (proposal preview).
	Commitments(ctx context.Context, registrant Registrant, excludeRegistrationID *uuid.UUID) ([]Commitment, error)
}

type detector struct {
	repo Repository
}

func NewDetector(repo Repository) Detector {
	return &detector{repo: repo}
}

func (d *detector) Check(ctx context.Context, registrant Registrant, window TimeWindow, excludeRegistrationID *uuid.UUID) error {
	commitments, err := d.repo.ActiveCommitments(ctx, registrant, excludeRegistrationID)
	if err != nil {
		return fmt.Errorf("failed to load commitments: %w", err)
	}

	var colliding []uuid.UUID
	for _, commitment := range commitments {
		if commitment.OverlapsWindow(window) {
			colliding = append(colliding, commitment.RegistrationID)
		}
	}

	if len(colliding) > 0 {
		return &apperrors.ConflictError{RegistrationIDs: colliding}
	}
	return nil
}

func (d *detector) Commitments(ctx context.Context, registrant Registrant, excludeRegistrationID *uuid.UUID) ([]Commitment, error) {
	return d.repo.ActiveCommitments(ctx, registrant, excludeRegistrationID)
}
