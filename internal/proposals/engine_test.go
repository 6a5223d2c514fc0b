package proposals

import (
	"context"
	"strings"
	"testing"
	"time"

	"stagehand/internal/conflicts"
	"stagehand/internal/productions"
	"stagehand/internal/registrations"
	"stagehand/internal/shared/apperrors"
	"stagehand/internal/shifts"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// world is the shared in-memory backing for the engine's collaborators: the
// shift catalog, the ledger and the conflict detector all read from it, so
// confirms are visible to subsequent conflict checks the way they are in
// production.
type world struct {
	shiftsByEvent map[uuid.UUID][]shifts.Shift
	placed        map[uuid.UUID]int
	commitments   []conflicts.Commitment
	owners        []string // registrant key per commitment, same index
}

func newWorld() *world {
	return &world{
		shiftsByEvent: make(map[uuid.UUID][]shifts.Shift),
		placed:        make(map[uuid.UUID]int),
	}
}

func (w *world) findShift(id uuid.UUID) *shifts.Shift {
	for _, list := range w.shiftsByEvent {
		for i := range list {
			if list[i].ID == id {
				return &list[i]
			}
		}
	}
	return nil
}

type fakeRoster struct {
	production   *productions.Production
	performances []productions.Performance
	assignments  []productions.CastAssignment
}

func (f *fakeRoster) CreateProduction(ctx context.Context, createdBy uuid.UUID, req productions.CreateProductionRequest) (*productions.Production, error) {
	panic("not used")
}

func (f *fakeRoster) GetProduction(ctx context.Context, id uuid.UUID) (*productions.Production, error) {
	if f.production != nil && f.production.ID == id {
		return f.production, nil
	}
	return nil, apperrors.NotFound("production")
}

func (f *fakeRoster) ListProductions(ctx context.Context) ([]productions.Production, error) {
	panic("not used")
}

func (f *fakeRoster) UpdateProduction(ctx context.Context, id uuid.UUID, req productions.UpdateProductionRequest) (*productions.Production, error) {
	panic("not used")
}

func (f *fakeRoster) DeleteProduction(ctx context.Context, id uuid.UUID) error { panic("not used") }

func (f *fakeRoster) AddPerformance(ctx context.Context, productionID uuid.UUID, req productions.CreatePerformanceRequest) (*productions.Performance, error) {
	panic("not used")
}

func (f *fakeRoster) ListPerformances(ctx context.Context, productionID uuid.UUID) ([]productions.Performance, error) {
	return f.performances, nil
}

func (f *fakeRoster) RemovePerformance(ctx context.Context, id uuid.UUID) error { panic("not used") }

func (f *fakeRoster) AddCastAssignment(ctx context.Context, productionID uuid.UUID, req productions.CreateCastAssignmentRequest) (*productions.CastAssignment, error) {
	panic("not used")
}

func (f *fakeRoster) ListCastAssignments(ctx context.Context, productionID uuid.UUID) ([]productions.CastAssignment, error) {
	return f.assignments, nil
}

func (f *fakeRoster) RemoveCastAssignment(ctx context.Context, id uuid.UUID) error {
	panic("not used")
}

type fakeCatalog struct {
	world *world
}

func (f *fakeCatalog) ListShiftsByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]shifts.Shift, error) {
	return f.world.shiftsByEvent[eventID], nil
}

type fakePlacementLedger struct {
	world *world
}

func (f *fakePlacementLedger) RegisterDirect(ctx context.Context, shiftID uuid.UUID, memberID *uuid.UUID, name, email string, status registrations.Status) (*registrations.Registration, error) {
	shift := f.world.findShift(shiftID)
	if shift == nil {
		return nil, apperrors.NotFound("shift")
	}
	if f.world.placed[shiftID] >= shift.Capacity {
		return nil, &apperrors.CapacityExceededError{ShiftID: shiftID, Capacity: shift.Capacity}
	}
	f.world.placed[shiftID]++

	reg := &registrations.Registration{
		ID:           uuid.New(),
		ShiftID:      shiftID,
		MemberID:     memberID,
		ContactName:  name,
		ContactEmail: email,
		Status:       status,
	}
	f.world.commitments = append(f.world.commitments, conflicts.Commitment{
		RegistrationID: reg.ID,
		ShiftID:        shiftID,
		EventID:        shift.EventID,
		Role:           shift.Role,
		StartsAt:       shift.StartsAt,
		EndsAt:         shift.EndsAt,
	})
	f.world.owners = append(f.world.owners, commitKey(memberID, email))
	return reg, nil
}

func commitKey(memberID *uuid.UUID, email string) string {
	if memberID != nil {
		return "m:" + memberID.String()
	}
	return "e:" + strings.ToLower(email)
}

type fakeDetector struct {
	world *world
}

func (f *fakeDetector) Check(ctx context.Context, registrant conflicts.Registrant, window conflicts.TimeWindow, exclude *uuid.UUID) error {
	key := commitKey(registrant.MemberID, registrant.Email)
	var colliding []uuid.UUID
	for i, c := range f.world.commitments {
		if f.world.owners[i] != key {
			continue
		}
		if conflicts.Overlaps(window.StartsAt, window.EndsAt, c.StartsAt, c.EndsAt) {
			colliding = append(colliding, c.RegistrationID)
		}
	}
	if len(colliding) > 0 {
		return &apperrors.ConflictError{RegistrationIDs: colliding}
	}
	return nil
}

func (f *fakeDetector) Commitments(ctx context.Context, registrant conflicts.Registrant, exclude *uuid.UUID) ([]conflicts.Commitment, error) {
	key := commitKey(registrant.MemberID, registrant.Email)
	var out []conflicts.Commitment
	for i, c := range f.world.commitments {
		if f.world.owners[i] == key {
			out = append(out, c)
		}
	}
	return out, nil
}

type engineFixture struct {
	world  *world
	roster *fakeRoster
	engine Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	w := newWorld()
	roster := &fakeRoster{
		production: &productions.Production{ID: uuid.New(), Name: "The Tempest"},
	}
	eng := NewEngine(roster, &fakeCatalog{world: w}, &fakePlacementLedger{world: w}, &fakeDetector{world: w})
	return &engineFixture{world: w, roster: roster, engine: eng}
}

func (fx *engineFixture) addEvent(start time.Time, roleCapacity map[string]int) uuid.UUID {
	eventID := uuid.New()
	for role, capacity := range roleCapacity {
		fx.world.shiftsByEvent[eventID] = append(fx.world.shiftsByEvent[eventID], shifts.Shift{
			ID:       uuid.New(),
			EventID:  eventID,
			Role:     role,
			StartsAt: start,
			EndsAt:   start.Add(3 * time.Hour),
			Capacity: capacity,
		})
	}
	return eventID
}

func (fx *engineFixture) addPerformance(eventID *uuid.UUID) uuid.UUID {
	p := productions.Performance{ID: uuid.New(), ProductionID: fx.roster.production.ID, EventID: eventID}
	fx.roster.performances = append(fx.roster.performances, p)
	return p.ID
}

func (fx *engineFixture) addAssignment(role, name string) uuid.UUID {
	a := productions.CastAssignment{
		ID:           uuid.New(),
		ProductionID: fx.roster.production.ID,
		Role:         role,
		ContactName:  name,
		ContactEmail: strings.ToLower(name) + "@example.org",
	}
	fx.roster.assignments = append(fx.roster.assignments, a)
	return a.ID
}

func TestPreviewMatchesRolesAndReportsGaps(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventID := fx.addEvent(start, map[string]int{"Usher": 2})
	fx.addPerformance(&eventID)
	unlinked := fx.addPerformance(nil)

	fx.addAssignment("Usher", "Priya")
	fx.addAssignment("Stage Manager", "Jonas")

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)

	require.Len(t, proposal.Candidates, 1)
	assert.Equal(t, "Usher", proposal.Candidates[0].Role)
	assert.Equal(t, "Priya", proposal.Candidates[0].ContactName)
	assert.Empty(t, proposal.Candidates[0].Conflicts)

	assert.Equal(t, []uuid.UUID{unlinked}, proposal.UnlinkedPerformances)
	require.Len(t, proposal.MissingRoles, 1)
	assert.Equal(t, "Stage Manager", proposal.MissingRoles[0].Role)
	assert.Equal(t, eventID, proposal.MissingRoles[0].EventID)
}

func TestPreviewRoleMatchIsCaseInsensitive(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventID := fx.addEvent(start, map[string]int{"box office": 1})
	fx.addPerformance(&eventID)
	fx.addAssignment("Box Office", "Priya")

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Candidates, 1)
	assert.Empty(t, proposal.MissingRoles)
}

func TestPreviewAttachesLedgerConflictsWithoutDropping(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventID := fx.addEvent(start, map[string]int{"Usher": 2})
	fx.addPerformance(&eventID)
	fx.addAssignment("Usher", "Priya")

	// Priya already holds an overlapping commitment elsewhere
	otherEvent := fx.addEvent(start.Add(time.Hour), map[string]int{"Bar": 1})
	barShift := fx.world.shiftsByEvent[otherEvent][0]
	ledger := &fakePlacementLedger{world: fx.world}
	existing, err := ledger.RegisterDirect(context.Background(), barShift.ID, nil, "Priya", "priya@example.org", registrations.StatusActive)
	require.NoError(t, err)

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)

	// The candidate survives, flagged
	require.Len(t, proposal.Candidates, 1)
	require.Len(t, proposal.Candidates[0].Conflicts, 1)
	note := proposal.Candidates[0].Conflicts[0]
	require.NotNil(t, note.RegistrationID)
	assert.Equal(t, existing.ID, *note.RegistrationID)
}

func TestPreviewFlagsSameBatchOverlap(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	// Two events the same evening, both needing an usher; one Priya
	eventA := fx.addEvent(start, map[string]int{"Usher": 1})
	eventB := fx.addEvent(start.Add(time.Hour), map[string]int{"Usher": 1})
	fx.addPerformance(&eventA)
	fx.addPerformance(&eventB)
	fx.addAssignment("Usher", "Priya")

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Candidates, 2)

	assert.Empty(t, proposal.Candidates[0].Conflicts)
	require.Len(t, proposal.Candidates[1].Conflicts, 1)
	assert.Equal(t, proposal.Candidates[0].Key, proposal.Candidates[1].Conflicts[0].CandidateKey)
}

func TestConfirmPlacesSelectedCandidates(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventID := fx.addEvent(start, map[string]int{"Usher": 2})
	fx.addPerformance(&eventID)
	fx.addAssignment("Usher", "Priya")
	fx.addAssignment("Usher", "Jonas")

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Candidates, 2)

	keys := []string{proposal.Candidates[0].Key, proposal.Candidates[1].Key}
	result, err := fx.engine.Confirm(context.Background(), fx.roster.production.ID, ConfirmRequest{
		Keys:   keys,
		Status: "TENTATIVE",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.AcceptedCount)
	assert.Len(t, result.RegistrationIDs, 2)
	assert.Empty(t, result.Skipped)
}

func TestConfirmSkipsOnCapacityRace(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventID := fx.addEvent(start, map[string]int{"Usher": 1})
	fx.addPerformance(&eventID)
	fx.addAssignment("Usher", "Priya")

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Candidates, 1)

	// Someone grabs the slot between preview and confirm
	usherShift := fx.world.shiftsByEvent[eventID][0]
	ledger := &fakePlacementLedger{world: fx.world}
	_, err = ledger.RegisterDirect(context.Background(), usherShift.ID, nil, "Walk-in", "walkin@example.org", registrations.StatusActive)
	require.NoError(t, err)

	result, err := fx.engine.Confirm(context.Background(), fx.roster.production.ID, ConfirmRequest{
		Keys:   []string{proposal.Candidates[0].Key},
		Status: "ACTIVE",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.AcceptedCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "shift at capacity", result.Skipped[0].Reason)
}

func TestConfirmPlacesCandidateDespiteLedgerConflict(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventID := fx.addEvent(start, map[string]int{"Usher": 2})
	fx.addPerformance(&eventID)
	fx.addAssignment("Usher", "Priya")

	// Priya already holds an overlapping commitment elsewhere
	otherEvent := fx.addEvent(start.Add(time.Hour), map[string]int{"Bar": 1})
	barShift := fx.world.shiftsByEvent[otherEvent][0]
	ledger := &fakePlacementLedger{world: fx.world}
	_, err := ledger.RegisterDirect(context.Background(), barShift.ID, nil, "Priya", "priya@example.org", registrations.StatusActive)
	require.NoError(t, err)

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Candidates, 1)
	require.NotEmpty(t, proposal.Candidates[0].Conflicts)

	// Selecting the flagged key is the operator overriding the warning
	result, err := fx.engine.Confirm(context.Background(), fx.roster.production.ID, ConfirmRequest{
		Keys:   []string{proposal.Candidates[0].Key},
		Status: "ACTIVE",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.AcceptedCount)
	assert.Empty(t, result.Skipped)
}

func TestConfirmPlacesOverlappingSelectionsFromSameBatch(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)

	eventA := fx.addEvent(start, map[string]int{"Usher": 1})
	eventB := fx.addEvent(start.Add(time.Hour), map[string]int{"Usher": 1})
	fx.addPerformance(&eventA)
	fx.addPerformance(&eventB)
	fx.addAssignment("Usher", "Priya")

	proposal, err := fx.engine.Preview(context.Background(), fx.roster.production.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Candidates, 2)

	result, err := fx.engine.Confirm(context.Background(), fx.roster.production.ID, ConfirmRequest{
		Keys:   []string{proposal.Candidates[0].Key, proposal.Candidates[1].Key},
		Status: "ACTIVE",
	})
	require.NoError(t, err)

	// Both land; the overlap was surfaced at preview and the operator
	// chose both anyway
	assert.Equal(t, 2, result.AcceptedCount)
	assert.Empty(t, result.Skipped)
}

func TestConfirmRejectsUnknownKeysAndBadStatus(t *testing.T) {
	fx := newEngineFixture(t)
	start := time.Date(2026, 10, 3, 19, 0, 0, 0, time.UTC)
	eventID := fx.addEvent(start, map[string]int{"Usher": 1})
	fx.addPerformance(&eventID)
	fx.addAssignment("Usher", "Priya")

	_, err := fx.engine.Confirm(context.Background(), fx.roster.production.ID, ConfirmRequest{
		Keys:   []string{"whatever"},
		Status: "WAITLISTED",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	result, err := fx.engine.Confirm(context.Background(), fx.roster.production.ID, ConfirmRequest{
		Keys:   []string{CandidateKey(uuid.New(), uuid.New())},
		Status: "ACTIVE",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.AcceptedCount)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "unknown candidate", result.Skipped[0].Reason)
}
