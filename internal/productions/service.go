package productions

import (
	"context"

	"stagehand/internal/members"
	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
)

type Service interface {
	CreateProduction(ctx context.Context, createdBy uuid.UUID, req CreateProductionRequest) (*Production, error)
	GetProduction(ctx context.Context, id uuid.UUID) (*Production, error)
	ListProductions(ctx context.Context) ([]Production, error)
	UpdateProduction(ctx context.Context, id uuid.UUID, req UpdateProductionRequest) (*Production, error)
	DeleteProduction(ctx context.Context, id uuid.UUID) error

	AddPerformance(ctx context.Context, productionID uuid.UUID, req CreatePerformanceRequest) (*Performance, error)
	ListPerformances(ctx context.Context, productionID uuid.UUID) ([]Performance, error)
	RemovePerformance(ctx context.Context, id uuid.UUID) error

	AddCastAssignment(ctx context.Context, productionID uuid.UUID, req CreateCastAssignmentRequest) (*CastAssignment, error)
	ListCastAssignments(ctx context.Context, productionID uuid.UUID) ([]CastAssignment, error)
	RemoveCastAssignment(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	members members.Service
}

func NewService(repo Repository, memberService members.Service) Service {
	return &service{repo: repo, members: memberService}
}

func (s *service) CreateProduction(ctx context.Context, createdBy uuid.UUID, req CreateProductionRequest) (*Production, error) {
	production := &Production{
		Name:        req.Name,
		Description: req.Description,
		Season:      req.Season,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, production); err != nil {
		return nil, err
	}
	return production, nil
}

func (s *service) GetProduction(ctx context.Context, id uuid.UUID) (*Production, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListProductions(ctx context.Context) ([]Production, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateProduction(ctx context.Context, id uuid.UUID, req UpdateProductionRequest) (*Production, error) {
	production, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		production.Name = *req.Name
	}
	if req.Description != nil {
		production.Description = *req.Description
	}
	if req.Season != nil {
		production.Season = *req.Season
	}
	if err := s.repo.Update(ctx, production); err != nil {
		return nil, err
	}
	return production, nil
}

func (s *service) DeleteProduction(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) AddPerformance(ctx context.Context, productionID uuid.UUID, req CreatePerformanceRequest) (*Performance, error) {
	if _, err := s.repo.GetByID(ctx, productionID); err != nil {
		return nil, err
	}

	performance := &Performance{
		ProductionID: productionID,
		Notes:        req.Notes,
	}
	if req.EventID != "" {
		eventID, err := uuid.Parse(req.EventID)
		if err != nil {
			return nil, apperrors.NewValidation("event_id", "invalid event id")
		}
		performance.EventID = &eventID
	}

	if err := s.repo.CreatePerformance(ctx, performance); err != nil {
		return nil, err
	}
	return performance, nil
}

func (s *service) ListPerformances(ctx context.Context, productionID uuid.UUID) ([]Performance, error) {
	return s.repo.ListPerformances(ctx, productionID)
}

func (s *service) RemovePerformance(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePerformance(ctx, id)
}

func (s *service) AddCastAssignment(ctx context.Context, productionID uuid.UUID, req CreateCastAssignmentRequest) (*CastAssignment, error) {
	if _, err := s.repo.GetByID(ctx, productionID); err != nil {
		return nil, err
	}

	assignment := &CastAssignment{
		ProductionID: productionID,
		Role:         req.Role,
	}

	// A member reference resolves to denormalized contact fields; an external
	// cast member registers with inline contact details.
	if req.MemberID != "" {
		memberID, err := uuid.Parse(req.MemberID)
		if err != nil {
			return nil, apperrors.NewValidation("member_id", "invalid member id")
		}
		name, email, err := s.members.Contact(ctx, memberID)
		if err != nil {
			return nil, err
		}
		assignment.MemberID = &memberID
		assignment.ContactName = name
		assignment.ContactEmail = email
	} else {
		if req.ContactEmail == "" {
			return nil, apperrors.NewValidation("contact_email", "either member_id or contact details are required")
		}
		if req.ContactName == "" {
			return nil, apperrors.NewValidation("contact_name", "contact name is required for external cast members")
		}
		assignment.ContactName = req.ContactName
		assignment.ContactEmail = req.ContactEmail
	}

	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *service) ListCastAssignments(ctx context.Context, productionID uuid.UUID) ([]CastAssignment, error) {
	return s.repo.ListAssignments(ctx, productionID)
}

func (s *service) RemoveCastAssignment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAssignment(ctx, id)
}
