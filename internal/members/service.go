package members

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service interface defines the contract for member directory operations
type Service interface {
	CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error)
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, activeOnly bool) ([]Member, error)
	UpdateMember(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error)

	// Contact resolves a member reference into name + email for registrations
	// and outbound notifications
	Contact(ctx context.Context, id uuid.UUID) (name, email string, err error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	role := Role(req.Role)
	if req.Role == "" {
		role = RoleMember
	}

	member := &Member{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Role:      role,
		Active:    true,
	}

	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

func (s *service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMembers(ctx context.Context, activeOnly bool) ([]Member, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdateMember(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		member.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		member.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		member.Role = Role(*req.Role)
	}
	if req.Active != nil {
		member.Active = *req.Active
	}

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

func (s *service) Contact(ctx context.Context, id uuid.UUID) (string, string, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	return member.FullName(), member.Email, nil
}
