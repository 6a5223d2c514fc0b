package shifts

import (
	"context"
	"fmt"
	"time"

	"stagehand/internal/shared/apperrors"
	"stagehand/internal/shared/constants"
	"stagehand/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	CreateShift(ctx context.Context, req CreateShiftRequest) (*Shift, error)
	GetShift(ctx context.Context, id uuid.UUID) (*Shift, error)
	ListShiftsByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]Shift, error)
	UpdateShift(ctx context.Context, id uuid.UUID, req UpdateShiftRequest) (*Shift, error)
	DeleteShift(ctx context.Context, id uuid.UUID) error

	// GetAvailability serves the public availability read, cache-aside
	GetAvailability(ctx context.Context, shiftID uuid.UUID) (*Availability, error)

	// InvalidateAvailability is called by the registration ledger after any
	// mutation that changes a shift's active count
	InvalidateAvailability(ctx context.Context, shiftID uuid.UUID)
}

// ServiceConfig tunes read-model caching
type ServiceConfig struct {
	AvailabilityTTL time.Duration
	ShiftListTTL    time.Duration
}

func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		AvailabilityTTL: 30 * time.Second,
		ShiftListTTL:    5 * time.Minute,
	}
}

type service struct {
	repo         Repository
	cacheService cache.Service
	config       *ServiceConfig
}

func NewService(repo Repository, cacheService cache.Service, config *ServiceConfig) Service {
	if config == nil {
		config = DefaultServiceConfig()
	}
	return &service{
		repo:         repo,
		cacheService: cacheService,
		config:       config,
	}
}

func (s *service) CreateShift(ctx context.Context, req CreateShiftRequest) (*Shift, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.NewValidation("event_id", "must be a valid UUID")
	}

	visibility := Visibility(req.Visibility)
	if req.Visibility == "" {
		visibility = VisibilityInternal
	}

	shift := &Shift{
		EventID:         eventID,
		Role:            req.Role,
		StartsAt:        req.StartsAt,
		EndsAt:          req.EndsAt,
		Capacity:        req.Capacity,
		WaitlistEnabled: req.WaitlistEnabled,
		Visibility:      visibility,
	}

	if err := s.repo.Create(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}

	s.invalidateListings(ctx, shift.EventID)
	return shift, nil
}

func (s *service) GetShift(ctx context.Context, id uuid.UUID) (*Shift, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListShiftsByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]Shift, error) {
	// Only the public listing is cached; admin views read through
	if !publicOnly || s.cacheService == nil {
		return s.repo.ListByEvent(ctx, eventID, publicOnly)
	}

	var result []Shift
	err := s.cacheService.GetOrSet(ctx, constants.ShiftListKey(eventID.String()), s.config.ShiftListTTL,
		func() (interface{}, error) {
			return s.repo.ListByEvent(ctx, eventID, true)
		}, &result)
	if err != nil {
		// Cache trouble must not break the listing
		return s.repo.ListByEvent(ctx, eventID, true)
	}
	return result, nil
}

func (s *service) UpdateShift(ctx context.Context, id uuid.UUID, req UpdateShiftRequest) (*Shift, error) {
	shift, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		shift.Role = *req.Role
	}
	if req.StartsAt != nil {
		shift.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		shift.EndsAt = *req.EndsAt
	}
	if req.Capacity != nil {
		shift.Capacity = *req.Capacity
	}
	if req.WaitlistEnabled != nil {
		shift.WaitlistEnabled = *req.WaitlistEnabled
	}
	if req.Visibility != nil {
		shift.Visibility = Visibility(*req.Visibility)
	}

	if !shift.EndsAt.After(shift.StartsAt) {
		return nil, apperrors.NewValidation("ends_at", "must be after starts_at")
	}

	if err := s.repo.Update(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}

	s.invalidateListings(ctx, shift.EventID)
	s.InvalidateAvailability(ctx, shift.ID)
	return shift, nil
}

func (s *service) DeleteShift(ctx context.Context, id uuid.UUID) error {
	shift, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListings(ctx, shift.EventID)
	s.InvalidateAvailability(ctx, id)
	return nil
}

func (s *service) GetAvailability(ctx context.Context, shiftID uuid.UUID) (*Availability, error) {
	if s.cacheService == nil {
		return s.repo.GetAvailability(ctx, shiftID)
	}

	var result Availability
	err := s.cacheService.GetOrSet(ctx, constants.AvailabilityKey(shiftID.String()), s.config.AvailabilityTTL,
		func() (interface{}, error) {
			return s.repo.GetAvailability(ctx, shiftID)
		}, &result)
	if err != nil {
		return s.repo.GetAvailability(ctx, shiftID)
	}
	return &result, nil
}

func (s *service) InvalidateAvailability(ctx context.Context, shiftID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.AvailabilityKey(shiftID.String())); err != nil {
		fmt.Printf("Warning: failed to invalidate availability cache for shift %s: %v\n", shiftID, err)
	}
}

func (s *service) invalidateListings(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.ShiftListKey(eventID.String())); err != nil {
		fmt.Printf("Warning: failed to invalidate shift list cache for event %s: %v\n", eventID, err)
	}
}
