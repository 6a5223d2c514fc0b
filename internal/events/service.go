package events

import (
	"context"
	"fmt"
	"time"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
)

type Service interface {
	CreateEvent(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	UpdateEvent(ctx context.Context, id, updatedBy uuid.UUID, req UpdateEventRequest) (*Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateEvent(ctx context.Context, createdBy uuid.UUID, req CreateEventRequest) (*Event, error) {
	if err := validateWindow(req.StartsAt, req.EndsAt, req.CancellationDeadline); err != nil {
		return nil, err
	}

	event := &Event{
		Name:                 req.Name,
		Description:          req.Description,
		Venue:                req.Venue,
		StartsAt:             req.StartsAt,
		EndsAt:               req.EndsAt,
		CancellationDeadline: req.CancellationDeadline,
		Status:               StatusDraft,
		CreatedBy:            createdBy,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListEvents(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *service) UpdateEvent(ctx context.Context, id, updatedBy uuid.UUID, req UpdateEventRequest) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if req.CancellationDeadline != nil {
		event.CancellationDeadline = req.CancellationDeadline
	}
	if req.Status != nil {
		event.Status = Status(*req.Status)
	}

	if err := validateWindow(event.StartsAt, event.EndsAt, event.CancellationDeadline); err != nil {
		return nil, err
	}

	event.UpdatedBy = &updatedBy
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateWindow(startsAt, endsAt time.Time, deadline *time.Time) error {
	if !endsAt.After(startsAt) {
		return apperrors.NewValidation("ends_at", "must be after starts_at")
	}
	if deadline != nil && deadline.After(startsAt) {
		return apperrors.NewValidation("cancellation_deadline", "must not be after starts_at")
	}
	return nil
}
