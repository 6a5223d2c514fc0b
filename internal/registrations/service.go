package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagehand/internal/cancellation"
	"stagehand/internal/conflicts"
	"stagehand/internal/events"
	"stagehand/internal/members"
	"stagehand/internal/shared/apperrors"
	"stagehand/internal/shared/config"
	"stagehand/internal/shifts"
	"stagehand/pkg/logger"

	"github.com/google/uuid"
)

// Dispatcher is the outbound notification hook. Calls are fire-and-forget
// after the owning transaction commits; a dead broker never fails a
// registration.
type Dispatcher interface {
	RegistrationConfirmed(registrationID uuid.UUID, cancelToken string)
	RegistrationWaitlisted(registrationID uuid.UUID, cancelToken string)
	CancellationConfirmed(registrationID uuid.UUID)
	WaitlistPromoted(registrationID uuid.UUID)
}

type Service interface {
	// RegisterForShift runs the full self-service registration flow:
	// registrant resolution, conflict check, then the capacity-checked
	// allocation under the shift lock
	RegisterForShift(ctx context.Context, shiftID uuid.UUID, req RegisterRequest) (*RegisterResult, error)

	// RegisterDirect places a registrant at a capacity-holding status with no
	// waitlist fallback. Used by proposal confirmation and operator overrides;
	// conflicts are the caller's concern.
	RegisterDirect(ctx context.Context, shiftID uuid.UUID, memberID *uuid.UUID, name, email string, status Status) (*Registration, error)

	// Unregister cancels a registration by id. Administrative callers bypass
	// the cancellation deadline.
	Unregister(ctx context.Context, registrationID uuid.UUID, administrative bool) (*CancelResult, error)

	// CancelByToken is the anonymous self-service path. Unknown, consumed and
	// already-cancelled tokens are all reported the same way.
	CancelByToken(ctx context.Context, token string) (*CancelResult, error)

	GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]Registration, error)
}

type service struct {
	repo     Repository
	detector conflicts.Detector
	shifts   shifts.Service
	events   events.Service
	members  members.Service
	guard    *cancellation.Guard
	dispatch Dispatcher
	engine   config.EngineConfig
	now      func() time.Time
}

func NewService(
	repo Repository,
	detector conflicts.Detector,
	shiftService shifts.Service,
	eventService events.Service,
	memberService members.Service,
	guard *cancellation.Guard,
	dispatch Dispatcher,
	engine config.EngineConfig,
) Service {
	return &service{
		repo:     repo,
		detector: detector,
		shifts:   shiftService,
		events:   eventService,
		members:  memberService,
		guard:    guard,
		dispatch: dispatch,
		engine:   engine,
		now:      time.Now,
	}
}

// withRetry reruns op on transient store failures, bounded by the engine
// config. Domain errors pass through untouched on the first occurrence.
func (s *service) withRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= s.engine.StoreRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.engine.StoreRetryBackoff):
			}
		}
		err = op()
		if err == nil || !errors.Is(err, apperrors.ErrTransientStore) {
			return err
		}
	}
	return err
}

// resolveRegistrant turns the request into denormalized contact fields. A
// member reference wins over inline contact details.
func (s *service) resolveRegistrant(ctx context.Context, req RegisterRequest) (*uuid.UUID, string, string, error) {
	if req.MemberID != "" {
		memberID, err := uuid.Parse(req.MemberID)
		if err != nil {
			return nil, "", "", apperrors.NewValidation("member_id", "invalid member id")
		}
		name, email, err := s.members.Contact(ctx, memberID)
		if err != nil {
			return nil, "", "", err
		}
		return &memberID, name, email, nil
	}
	if req.ContactEmail == "" {
		return nil, "", "", apperrors.NewValidation("contact_email", "either member_id or contact details are required")
	}
	if req.ContactName == "" {
		return nil, "", "", apperrors.NewValidation("contact_name", "contact name is required for external registrants")
	}
	return nil, req.ContactName, req.ContactEmail, nil
}

func (s *service) RegisterForShift(ctx context.Context, shiftID uuid.UUID, req RegisterRequest) (*RegisterResult, error) {
	shift, err := s.shifts.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetEvent(ctx, shift.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != events.StatusPublished {
		return nil, apperrors.NotFound("shift")
	}
	if !s.now().Before(shift.StartsAt) {
		return nil, apperrors.NewValidation("shift_id", "shift has already started")
	}

	memberID, name, email, err := s.resolveRegistrant(ctx, req)
	if err != nil {
		return nil, err
	}

	registrant := conflicts.Registrant{MemberID: memberID, Name: name, Email: email}
	window := conflicts.TimeWindow{StartsAt: shift.StartsAt, EndsAt: shift.EndsAt}
	if err := s.detector.Check(ctx, registrant, window, nil); err != nil {
		return nil, err
	}

	token, err := cancellation.MintToken()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare registration: %w", err)
	}

	reg := &Registration{
		ShiftID:      shiftID,
		MemberID:     memberID,
		ContactName:  name,
		ContactEmail: email,
		CancelToken:  &token,
	}

	err = s.withRetry(ctx, func() error {
		// Status and id are reset between attempts so a retried insert
		// starts from a clean slate
		reg.ID = uuid.Nil
		reg.Status = ""
		return s.repo.CreateWithCapacityCheck(ctx, reg)
	})
	if err != nil {
		// A rejection is persisted but still surfaces as a capacity error
		return nil, err
	}

	s.shifts.InvalidateAvailability(ctx, shiftID)
	logger.GetDefault().LogRegistrationCreated(ctx, reg.ID.String(), shiftID.String(), string(reg.Status))

	switch reg.Status {
	case StatusActive:
		s.dispatch.RegistrationConfirmed(reg.ID, token)
	case StatusWaitlisted:
		s.dispatch.RegistrationWaitlisted(reg.ID, token)
	}

	return &RegisterResult{Registration: reg, CancelToken: token}, nil
}

func (s *service) RegisterDirect(ctx context.Context, shiftID uuid.UUID, memberID *uuid.UUID, name, email string, status Status) (*Registration, error) {
	if email == "" {
		return nil, apperrors.NewValidation("contact_email", "contact email is required")
	}
	shift, err := s.shifts.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	reg := &Registration{
		ShiftID:      shift.ID,
		MemberID:     memberID,
		ContactName:  name,
		ContactEmail: email,
	}
	err = s.withRetry(ctx, func() error {
		reg.ID = uuid.Nil
		return s.repo.CreateDirect(ctx, reg, status)
	})
	if err != nil {
		return nil, err
	}

	s.shifts.InvalidateAvailability(ctx, shiftID)
	logger.GetDefault().LogRegistrationCreated(ctx, reg.ID.String(), shiftID.String(), string(reg.Status))
	return reg, nil
}

func (s *service) Unregister(ctx context.Context, registrationID uuid.UUID, administrative bool) (*CancelResult, error) {
	reg, err := s.repo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, reg, administrative)
}

func (s *service) CancelByToken(ctx context.Context, token string) (*CancelResult, error) {
	if token == "" {
		return nil, apperrors.NotFound("registration")
	}
	reg, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, reg, false)
}

func (s *service) cancel(ctx context.Context, reg *Registration, administrative bool) (*CancelResult, error) {
	if reg.Status == StatusCancelled {
		return nil, apperrors.NotFound("registration")
	}

	if !administrative {
		shift, err := s.shifts.GetShift(ctx, reg.ShiftID)
		if err != nil {
			return nil, err
		}
		event, err := s.events.GetEvent(ctx, shift.EventID)
		if err != nil {
			return nil, err
		}
		if err := s.guard.Check(event, s.now()); err != nil {
			return nil, err
		}
	}

	var result *CancelResult
	err := s.withRetry(ctx, func() error {
		var opErr error
		result, opErr = s.repo.CancelAndPromote(ctx, reg.ID)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	s.shifts.InvalidateAvailability(ctx, reg.ShiftID)

	promotedID := ""
	if result.PromotedID != nil {
		promotedID = result.PromotedID.String()
	}
	logger.GetDefault().LogRegistrationCancelled(ctx, reg.ID.String(), reg.ShiftID.String(), promotedID)

	s.dispatch.CancellationConfirmed(reg.ID)
	if result.PromotedID != nil {
		s.dispatch.WaitlistPromoted(*result.PromotedID)
	}
	return result, nil
}

func (s *service) GetRegistration(ctx context.Context, id uuid.UUID) (*Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]Registration, error) {
	return s.repo.ListByShift(ctx, shiftID)
}
