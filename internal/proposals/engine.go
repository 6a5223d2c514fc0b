package proposals

import (
	"context"
	"errors"
	"sort"
	"strings"

	"stagehand/internal/conflicts"
	"stagehand/internal/productions"
	"stagehand/internal/registrations"
	"stagehand/internal/shared/apperrors"
	"stagehand/internal/shifts"
	"stagehand/pkg/logger"

	"github.com/google/uuid"
)

// ShiftCatalog is the slice of the shift service the engine needs
type ShiftCatalog interface {
	ListShiftsByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]shifts.Shift, error)
}

// Ledger is the slice of the registration service the engine needs. Direct
// placement locks the shift and re-checks capacity; the waitlist is never
// involved.
type Ledger interface {
	RegisterDirect(ctx context.Context, shiftID uuid.UUID, memberID *uuid.UUID, name, email string, status registrations.Status) (*registrations.Registration, error)
}

type Engine interface {
	// Preview maps the production's cast roster onto shift slots. Read-only:
	// conflicts against the ledger and within the batch are attached as
	// advisory metadata, and gaps (unlinked performances, roles with no shift)
	// are reported alongside.
	Preview(ctx context.Context, productionID uuid.UUID) (*Proposal, error)

	// Confirm places the selected candidates, each in its own transaction.
	// Overlap conflicts do not block a selected key; capacity does. A
	// candidate that cannot be placed is skipped with a reason and the rest
	// proceed.
	Confirm(ctx context.Context, productionID uuid.UUID, req ConfirmRequest) (*ConfirmResult, error)
}

type engine struct {
	productions productions.Service
	catalog     ShiftCatalog
	ledger      Ledger
	detector    conflicts.Detector
}

func NewEngine(productionService productions.Service, catalog ShiftCatalog, ledger Ledger, detector conflicts.Detector) Engine {
	return &engine{
		productions: productionService,
		catalog:     catalog,
		ledger:      ledger,
		detector:    detector,
	}
}

// registrantKey is the identity candidates are conflict-matched on: member id
// when present, folded email otherwise. Mirrors the ledger's matching rule.
func registrantKey(memberID *uuid.UUID, email string) string {
	if memberID != nil {
		return "m:" + memberID.String()
	}
	return "e:" + strings.ToLower(email)
}

func (e *engine) Preview(ctx context.Context, productionID uuid.UUID) (*Proposal, error) {
	if _, err := e.productions.GetProduction(ctx, productionID); err != nil {
		return nil, err
	}

	performances, err := e.productions.ListPerformances(ctx, productionID)
	if err != nil {
		return nil, err
	}
	assignments, err := e.productions.ListCastAssignments(ctx, productionID)
	if err != nil {
		return nil, err
	}

	proposal := &Proposal{ProductionID: productionID}

	// Ledger commitments per registrant, fetched once per identity
	commitmentCache := make(map[string][]conflicts.Commitment)

	for _, performance := range performances {
		if performance.EventID == nil {
			proposal.UnlinkedPerformances = append(proposal.UnlinkedPerformances, performance.ID)
			continue
		}
		eventID := *performance.EventID

		eventShifts, err := e.catalog.ListShiftsByEvent(ctx, eventID, false)
		if err != nil {
			return nil, err
		}

		// Roster assignments spread round-robin over the shift instances
		// carrying their role, in start order
		byRole := make(map[string][]shifts.Shift)
		for _, s := range eventShifts {
			role := strings.ToLower(s.Role)
			byRole[role] = append(byRole[role], s)
		}
		for role := range byRole {
			instances := byRole[role]
			sort.Slice(instances, func(i, j int) bool {
				if !instances[i].StartsAt.Equal(instances[j].StartsAt) {
					return instances[i].StartsAt.Before(instances[j].StartsAt)
				}
				return instances[i].ID.String() < instances[j].ID.String()
			})
			byRole[role] = instances
		}

		rolling := make(map[string]int)
		for _, assignment := range assignments {
			role := strings.ToLower(assignment.Role)
			instances := byRole[role]
			if len(instances) == 0 {
				proposal.MissingRoles = append(proposal.MissingRoles, MissingRole{
					PerformanceID: performance.ID,
					EventID:       eventID,
					Role:          assignment.Role,
				})
				continue
			}

			shift := instances[rolling[role]%len(instances)]
			rolling[role]++

			candidate := Candidate{
				Key:           CandidateKey(shift.ID, assignment.ID),
				ShiftID:       shift.ID,
				AssignmentID:  assignment.ID,
				PerformanceID: performance.ID,
				EventID:       eventID,
				Role:          shift.Role,
				MemberID:      assignment.MemberID,
				ContactName:   assignment.ContactName,
				ContactEmail:  assignment.ContactEmail,
				StartsAt:      shift.StartsAt,
				EndsAt:        shift.EndsAt,
			}

			e.annotateLedgerConflicts(ctx, &candidate, commitmentCache)
			annotateBatchConflicts(&candidate, proposal.Candidates)

			proposal.Candidates = append(proposal.Candidates, candidate)
		}
	}

	return proposal, nil
}

func (e *engine) annotateLedgerConflicts(ctx context.Context, candidate *Candidate, cache map[string][]conflicts.Commitment) {
	key := registrantKey(candidate.MemberID, candidate.ContactEmail)
	commitments, ok := cache[key]
	if !ok {
		registrant := conflicts.Registrant{
			MemberID: candidate.MemberID,
			Name:     candidate.ContactName,
			Email:    candidate.ContactEmail,
		}
		var err error
		commitments, err = e.detector.Commitments(ctx, registrant, nil)
		if err != nil {
			// Preview is advisory; a failed lookup just means fewer notes
			logger.GetDefault().ErrorWithContext(ctx, "proposal preview conflict lookup failed", err, map[string]interface{}{
				"registrant": key,
			})
			commitments = nil
		}
		cache[key] = commitments
	}

	for _, commitment := range commitments {
		if conflicts.Overlaps(candidate.StartsAt, candidate.EndsAt, commitment.StartsAt, commitment.EndsAt) {
			id := commitment.RegistrationID
			candidate.Conflicts = append(candidate.Conflicts, ConflictNote{
				RegistrationID: &id,
				Role:           commitment.Role,
				StartsAt:       commitment.StartsAt,
				EndsAt:         commitment.EndsAt,
			})
		}
	}
}

func annotateBatchConflicts(candidate *Candidate, accepted []Candidate) {
	key := registrantKey(candidate.MemberID, candidate.ContactEmail)
	for _, other := range accepted {
		if registrantKey(other.MemberID, other.ContactEmail) != key {
			continue
		}
		if conflicts.Overlaps(candidate.StartsAt, candidate.EndsAt, other.StartsAt, other.EndsAt) {
			candidate.Conflicts = append(candidate.Conflicts, ConflictNote{
				CandidateKey: other.Key,
				Role:         other.Role,
				StartsAt:     other.StartsAt,
				EndsAt:       other.EndsAt,
			})
		}
	}
}

func (e *engine) Confirm(ctx context.Context, productionID uuid.UUID, req ConfirmRequest) (*ConfirmResult, error) {
	status := registrations.Status(req.Status)
	if !status.HoldsCapacity() {
		return nil, apperrors.NewValidation("status", "confirm status must be ACTIVE or TENTATIVE")
	}

	// Rebuild the candidate set so stale keys from an outdated preview are
	// caught instead of trusted
	proposal, err := e.Preview(ctx, productionID)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]Candidate, len(proposal.Candidates))
	for _, candidate := range proposal.Candidates {
		byKey[candidate.Key] = candidate
	}

	result := &ConfirmResult{ProductionID: productionID}
	for _, key := range req.Keys {
		candidate, ok := byKey[key]
		if !ok {
			result.Skipped = append(result.Skipped, SkippedCandidate{Key: key, Reason: "unknown candidate"})
			continue
		}

		// Overlap conflicts stay advisory here too. Selecting a tagged key
		// is the operator overriding the warning, so it still places; only
		// capacity is a hard limit.
		if len(candidate.Conflicts) > 0 {
			logger.GetDefault().InfoWithContext(ctx, "candidate confirmed despite overlap", map[string]interface{}{
				"candidate_key": key,
				"conflicts":     len(candidate.Conflicts),
			})
		}

		reg, err := e.ledger.RegisterDirect(ctx, candidate.ShiftID, candidate.MemberID, candidate.ContactName, candidate.ContactEmail, status)
		if err != nil {
			reason := "placement failed"
			if errors.Is(err, apperrors.ErrCapacityExceeded) {
				reason = "shift at capacity"
			}
			result.Skipped = append(result.Skipped, SkippedCandidate{Key: key, Reason: reason})
			continue
		}

		result.AcceptedCount++
		result.RegistrationIDs = append(result.RegistrationIDs, reg.ID)
	}

	logger.GetDefault().LogProposalConfirm(ctx, productionID.String(), result.AcceptedCount, len(result.Skipped))
	return result, nil
}
