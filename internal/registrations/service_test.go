package registrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"stagehand/internal/cancellation"
	"stagehand/internal/conflicts"
	"stagehand/internal/events"
	"stagehand/internal/members"
	"stagehand/internal/shared/apperrors"
	"stagehand/internal/shared/config"
	"stagehand/internal/shifts"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger reproduces the allocation semantics of the real repository in
// memory: capacity decisions, FIFO promotion, token consumption. The mutex
// stands in for the row lock that serializes allocation on a shift.
type fakeLedger struct {
	mu     sync.Mutex
	shifts map[uuid.UUID]*shifts.Shift
	regs   []*Registration
	seq    int

	// failures makes the next N calls fail with a transient error
	failures int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{shifts: make(map[uuid.UUID]*shifts.Shift)}
}

func (f *fakeLedger) holding(shiftID uuid.UUID) int {
	n := 0
	for _, r := range f.regs {
		if r.ShiftID == shiftID && r.Status.HoldsCapacity() {
			n++
		}
	}
	return n
}

func (f *fakeLedger) consumeFailure() error {
	if f.failures > 0 {
		f.failures--
		return apperrors.Transient(errors.New("connection reset"))
	}
	return nil
}

func (f *fakeLedger) insert(reg *Registration) {
	f.seq++
	reg.ID = uuid.New()
	reg.CreatedAt = time.Unix(int64(f.seq), 0)
	f.regs = append(f.regs, reg)
}

func (f *fakeLedger) CreateWithCapacityCheck(ctx context.Context, reg *Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.consumeFailure(); err != nil {
		return err
	}
	shift, ok := f.shifts[reg.ShiftID]
	if !ok {
		return apperrors.NotFound("shift")
	}
	switch {
	case f.holding(reg.ShiftID) < shift.Capacity:
		reg.Status = StatusActive
	case shift.WaitlistEnabled:
		reg.Status = StatusWaitlisted
	default:
		reg.Status = StatusRejected
		reg.CancelToken = nil
		f.insert(reg)
		return &apperrors.CapacityExceededError{ShiftID: reg.ShiftID, Capacity: shift.Capacity}
	}
	f.insert(reg)
	return nil
}

func (f *fakeLedger) CreateDirect(ctx context.Context, reg *Registration, status Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.consumeFailure(); err != nil {
		return err
	}
	shift, ok := f.shifts[reg.ShiftID]
	if !ok {
		return apperrors.NotFound("shift")
	}
	if f.holding(reg.ShiftID) >= shift.Capacity {
		return &apperrors.CapacityExceededError{ShiftID: reg.ShiftID, Capacity: shift.Capacity}
	}
	reg.Status = status
	f.insert(reg)
	return nil
}

func (f *fakeLedger) CancelAndPromote(ctx context.Context, registrationID uuid.UUID) (*CancelResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.consumeFailure(); err != nil {
		return nil, err
	}
	var reg *Registration
	for _, r := range f.regs {
		if r.ID == registrationID {
			reg = r
			break
		}
	}
	if reg == nil || reg.Status == StatusCancelled {
		return nil, apperrors.NotFound("registration")
	}

	prior := reg.Status
	now := time.Now()
	reg.Status = StatusCancelled
	reg.CancelledAt = &now
	reg.CancelToken = nil

	result := &CancelResult{Cancelled: reg}
	if prior.HoldsCapacity() {
		var queue []*Registration
		for _, r := range f.regs {
			if r.ShiftID == reg.ShiftID && r.Status == StatusWaitlisted {
				queue = append(queue, r)
			}
		}
		sort.Slice(queue, func(i, j int) bool { return queue[i].CreatedAt.Before(queue[j].CreatedAt) })
		if len(queue) > 0 {
			queue[0].Status = StatusActive
			result.PromotedID = &queue[0].ID
		}
	}
	return result, nil
}

func (f *fakeLedger) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.ID == id {
			copy := *r
			return &copy, nil
		}
	}
	return nil, apperrors.NotFound("registration")
}

func (f *fakeLedger) GetByToken(ctx context.Context, token string) (*Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.CancelToken != nil && *r.CancelToken == token {
			copy := *r
			return &copy, nil
		}
	}
	return nil, apperrors.NotFound("registration")
}

func (f *fakeLedger) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Registration
	for _, r := range f.regs {
		if r.ShiftID == shiftID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedger) RegistrationContact(ctx context.Context, id uuid.UUID) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.regs {
		if r.ID == id {
			return r.ContactName, r.ContactEmail, nil
		}
	}
	return "", "", apperrors.NotFound("registration")
}

type fakeShiftCatalog struct {
	ledger *fakeLedger
}

func (f *fakeShiftCatalog) CreateShift(ctx context.Context, req shifts.CreateShiftRequest) (*shifts.Shift, error) {
	panic("not used")
}

func (f *fakeShiftCatalog) GetShift(ctx context.Context, id uuid.UUID) (*shifts.Shift, error) {
	if s, ok := f.ledger.shifts[id]; ok {
		return s, nil
	}
	return nil, apperrors.NotFound("shift")
}

func (f *fakeShiftCatalog) ListShiftsByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]shifts.Shift, error) {
	panic("not used")
}

func (f *fakeShiftCatalog) UpdateShift(ctx context.Context, id uuid.UUID, req shifts.UpdateShiftRequest) (*shifts.Shift, error) {
	panic("not used")
}

func (f *fakeShiftCatalog) DeleteShift(ctx context.Context, id uuid.UUID) error { panic("not used") }

func (f *fakeShiftCatalog) GetAvailability(ctx context.Context, shiftID uuid.UUID) (*shifts.Availability, error) {
	panic("not used")
}

func (f *fakeShiftCatalog) InvalidateAvailability(ctx context.Context, shiftID uuid.UUID) {}

type fakeEventCatalog struct {
	events map[uuid.UUID]*events.Event
}

func (f *fakeEventCatalog) CreateEvent(ctx context.Context, createdBy uuid.UUID, req events.CreateEventRequest) (*events.Event, error) {
	panic("not used")
}

func (f *fakeEventCatalog) GetEvent(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, apperrors.NotFound("event")
}

func (f *fakeEventCatalog) ListEvents(ctx context.Context, query events.EventListQuery) ([]events.Event, int64, error) {
	panic("not used")
}

func (f *fakeEventCatalog) UpdateEvent(ctx context.Context, id, updatedBy uuid.UUID, req events.UpdateEventRequest) (*events.Event, error) {
	panic("not used")
}

func (f *fakeEventCatalog) DeleteEvent(ctx context.Context, id uuid.UUID) error { panic("not used") }

type fakeDirectory struct{}

func (fakeDirectory) CreateMember(ctx context.Context, req members.CreateMemberRequest) (*members.Member, error) {
	panic("not used")
}

func (fakeDirectory) GetMember(ctx context.Context, id uuid.UUID) (*members.Member, error) {
	panic("not used")
}

func (fakeDirectory) ListMembers(ctx context.Context, activeOnly bool) ([]members.Member, error) {
	panic("not used")
}

func (fakeDirectory) UpdateMember(ctx context.Context, id uuid.UUID, req members.UpdateMemberRequest) (*members.Member, error) {
	panic("not used")
}

func (fakeDirectory) Contact(ctx context.Context, id uuid.UUID) (string, string, error) {
	return "Dana Velasquez", fmt.Sprintf("member-%s@example.org", id.String()[:8]), nil
}

type stubDetector struct {
	err error
}

func (s *stubDetector) Check(ctx context.Context, registrant conflicts.Registrant, window conflicts.TimeWindow, exclude *uuid.UUID) error {
	return s.err
}

func (s *stubDetector) Commitments(ctx context.Context, registrant conflicts.Registrant, exclude *uuid.UUID) ([]conflicts.Commitment, error) {
	return nil, nil
}

type recordingDispatcher struct {
	mu         sync.Mutex
	confirmed  []uuid.UUID
	waitlisted []uuid.UUID
	cancelled  []uuid.UUID
	promoted   []uuid.UUID
}

func (d *recordingDispatcher) RegistrationConfirmed(id uuid.UUID, token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmed = append(d.confirmed, id)
}

func (d *recordingDispatcher) RegistrationWaitlisted(id uuid.UUID, token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.waitlisted = append(d.waitlisted, id)
}

func (d *recordingDispatcher) CancellationConfirmed(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelled = append(d.cancelled, id)
}

func (d *recordingDispatcher) WaitlistPromoted(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.promoted = append(d.promoted, id)
}

type fixture struct {
	ledger   *fakeLedger
	detector *stubDetector
	dispatch *recordingDispatcher
	service  *service
	eventID  uuid.UUID
	shiftID  uuid.UUID
	start    time.Time
}

// newFixture builds a published event starting 72h out with one shift
func newFixture(t *testing.T, capacity int, waitlistEnabled bool) *fixture {
	t.Helper()

	ledger := newFakeLedger()
	start := time.Now().Add(72 * time.Hour).Truncate(time.Second)

	event := &events.Event{
		ID:       uuid.New(),
		Name:     "Autumn Gala",
		StartsAt: start,
		EndsAt:   start.Add(5 * time.Hour),
		Status:   events.StatusPublished,
	}
	shift := &shifts.Shift{
		ID:              uuid.New(),
		EventID:         event.ID,
		Role:            "Box Office",
		StartsAt:        start,
		EndsAt:          start.Add(3 * time.Hour),
		Capacity:        capacity,
		WaitlistEnabled: waitlistEnabled,
		Visibility:      shifts.VisibilityPublic,
	}
	ledger.shifts[shift.ID] = shift

	detector := &stubDetector{}
	dispatch := &recordingDispatcher{}
	svc := NewService(
		ledger,
		detector,
		&fakeShiftCatalog{ledger: ledger},
		&fakeEventCatalog{events: map[uuid.UUID]*events.Event{event.ID: event}},
		fakeDirectory{},
		cancellation.NewGuard(6*time.Hour),
		dispatch,
		config.EngineConfig{StoreRetries: 3, StoreRetryBackoff: time.Millisecond},
	).(*service)

	return &fixture{
		ledger:   ledger,
		detector: detector,
		dispatch: dispatch,
		service:  svc,
		eventID:  event.ID,
		shiftID:  shift.ID,
		start:    start,
	}
}

func externalReq(name string) RegisterRequest {
	return RegisterRequest{
		ContactName:  name,
		ContactEmail: name + "@example.org",
	}
}

func TestRegisterFillsCapacityThenWaitlists(t *testing.T) {
	fx := newFixture(t, 2, true)
	ctx := context.Background()

	r1, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	require.NoError(t, err)
	r2, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r2"))
	require.NoError(t, err)
	r3, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r3"))
	require.NoError(t, err)
	r4, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r4"))
	require.NoError(t, err)

	assert.Equal(t, StatusActive, r1.Registration.Status)
	assert.Equal(t, StatusActive, r2.Registration.Status)
	assert.Equal(t, StatusWaitlisted, r3.Registration.Status)
	assert.Equal(t, StatusWaitlisted, r4.Registration.Status)

	assert.Len(t, fx.dispatch.confirmed, 2)
	assert.Len(t, fx.dispatch.waitlisted, 2)
	assert.NotEmpty(t, r1.CancelToken)
}

func TestConcurrentRegistrationNeverOverfills(t *testing.T) {
	const capacity = 5
	const registrants = 25
	fx := newFixture(t, capacity, true)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, registrants)
	for i := 0; i < registrants; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = fx.service.RegisterForShift(ctx, fx.shiftID, externalReq(fmt.Sprintf("r%d", n)))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	regs, err := fx.service.ListByShift(ctx, fx.shiftID)
	require.NoError(t, err)
	require.Len(t, regs, registrants)

	active, waitlisted := 0, 0
	for _, r := range regs {
		switch r.Status {
		case StatusActive:
			active++
		case StatusWaitlisted:
			waitlisted++
		}
	}
	assert.Equal(t, capacity, active)
	assert.Equal(t, registrants-capacity, waitlisted)
	assert.LessOrEqual(t, fx.ledger.holding(fx.shiftID), capacity)
}

func TestCancellationPromotesWaitlistInOrder(t *testing.T) {
	fx := newFixture(t, 2, true)
	ctx := context.Background()

	r1, _ := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	r2, _ := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r2"))
	r3, _ := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r3"))
	r4, _ := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r4"))

	result, err := fx.service.Unregister(ctx, r1.Registration.ID, false)
	require.NoError(t, err)
	require.NotNil(t, result.PromotedID)
	assert.Equal(t, r3.Registration.ID, *result.PromotedID)

	result, err = fx.service.Unregister(ctx, r2.Registration.ID, false)
	require.NoError(t, err)
	require.NotNil(t, result.PromotedID)
	assert.Equal(t, r4.Registration.ID, *result.PromotedID)

	assert.Equal(t, []uuid.UUID{r3.Registration.ID, r4.Registration.ID}, fx.dispatch.promoted)
}

func TestCancellingWaitlistedEntryDoesNotPromote(t *testing.T) {
	fx := newFixture(t, 1, true)
	ctx := context.Background()

	fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	r2, _ := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r2"))
	r3, _ := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r3"))

	result, err := fx.service.Unregister(ctx, r2.Registration.ID, false)
	require.NoError(t, err)
	assert.Nil(t, result.PromotedID)

	// r3 is still waitlisted; no capacity was freed
	reg, err := fx.service.GetRegistration(ctx, r3.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusWaitlisted, reg.Status)
}

func TestCancelTokenIsSingleUse(t *testing.T) {
	fx := newFixture(t, 1, true)
	ctx := context.Background()

	r1, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	require.NoError(t, err)
	fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r2"))

	result, err := fx.service.CancelByToken(ctx, r1.CancelToken)
	require.NoError(t, err)
	require.NotNil(t, result.PromotedID)

	// Replay: the token is consumed, the caller learns nothing beyond that
	_, err = fx.service.CancelByToken(ctx, r1.CancelToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// No second promotion happened
	assert.Len(t, fx.dispatch.promoted, 1)
}

func TestUnknownTokenIndistinguishableFromConsumed(t *testing.T) {
	fx := newFixture(t, 1, true)

	_, errUnknown := fx.service.CancelByToken(context.Background(), "no-such-token")
	require.Error(t, errUnknown)
	assert.True(t, errors.Is(errUnknown, apperrors.ErrNotFound))
}

func TestFullShiftWithoutWaitlistRejects(t *testing.T) {
	fx := newFixture(t, 1, false)
	ctx := context.Background()

	_, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	require.NoError(t, err)

	_, err = fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))

	// The turn-away is on the ledger
	regs, err := fx.service.ListByShift(ctx, fx.shiftID)
	require.NoError(t, err)
	require.Len(t, regs, 2)
	statuses := map[Status]int{}
	for _, r := range regs {
		statuses[r.Status]++
	}
	assert.Equal(t, 1, statuses[StatusActive])
	assert.Equal(t, 1, statuses[StatusRejected])
}

func TestConflictBlocksRegistration(t *testing.T) {
	fx := newFixture(t, 5, true)
	collidingID := uuid.New()
	fx.detector.err = &apperrors.ConflictError{RegistrationIDs: []uuid.UUID{collidingID}}

	_, err := fx.service.RegisterForShift(context.Background(), fx.shiftID, externalReq("r1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	var conflictErr *apperrors.ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, []uuid.UUID{collidingID}, conflictErr.RegistrationIDs)

	// Nothing persisted, nothing dispatched
	regs, _ := fx.service.ListByShift(context.Background(), fx.shiftID)
	assert.Empty(t, regs)
	assert.Empty(t, fx.dispatch.confirmed)
}

func TestTransientStoreFailureIsRetried(t *testing.T) {
	fx := newFixture(t, 2, true)
	fx.ledger.failures = 2

	result, err := fx.service.RegisterForShift(context.Background(), fx.shiftID, externalReq("r1"))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, result.Registration.Status)
}

func TestPersistentStoreFailureSurfaces(t *testing.T) {
	fx := newFixture(t, 2, true)
	fx.ledger.failures = 10

	_, err := fx.service.RegisterForShift(context.Background(), fx.shiftID, externalReq("r1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTransientStore))
}

func TestDeadlineBlocksSelfServiceCancellation(t *testing.T) {
	fx := newFixture(t, 2, true)
	ctx := context.Background()

	r1, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	require.NoError(t, err)

	// Move the clock to 5h before start, inside the 6h buffer
	fx.service.now = func() time.Time { return fx.start.Add(-5 * time.Hour) }

	_, err = fx.service.Unregister(ctx, r1.Registration.ID, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeadlineExceeded))

	// Administrative cancellation bypasses the deadline
	result, err := fx.service.Unregister(ctx, r1.Registration.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Cancelled.Status)
}

func TestRegisterDirectFailsOnFullShift(t *testing.T) {
	fx := newFixture(t, 1, true)
	ctx := context.Background()

	_, err := fx.service.RegisterForShift(ctx, fx.shiftID, externalReq("r1"))
	require.NoError(t, err)

	// Direct placement never falls back to the waitlist
	_, err = fx.service.RegisterDirect(ctx, fx.shiftID, nil, "Late Addition", "late@example.org", StatusTentative)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrCapacityExceeded))

	regs, _ := fx.service.ListByShift(ctx, fx.shiftID)
	assert.Len(t, regs, 1)
}

func TestRegisterResolvesMemberContact(t *testing.T) {
	fx := newFixture(t, 2, true)
	memberID := uuid.New()

	result, err := fx.service.RegisterForShift(context.Background(), fx.shiftID, RegisterRequest{MemberID: memberID.String()})
	require.NoError(t, err)
	require.NotNil(t, result.Registration.MemberID)
	assert.Equal(t, memberID, *result.Registration.MemberID)
	assert.Equal(t, "Dana Velasquez", result.Registration.ContactName)
	assert.NotEmpty(t, result.Registration.ContactEmail)
}

func TestRegisterRequiresRegistrantIdentity(t *testing.T) {
	fx := newFixture(t, 2, true)

	_, err := fx.service.RegisterForShift(context.Background(), fx.shiftID, RegisterRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
