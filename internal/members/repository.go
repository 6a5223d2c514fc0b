package members

import (
	"context"
	"errors"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	List(ctx context.Context, activeOnly bool) ([]Member, error)
	Update(ctx context.Context, member *Member) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, member *Member) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("member")
		}
		return nil, apperrors.Transient(err)
	}
	return &member, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("member")
		}
		return nil, apperrors.Transient(err)
	}
	return &member, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Member, error) {
	var result []Member
	query := r.db.WithContext(ctx).Order("last_name, first_name")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&result).Error; err != nil {
		return nil, apperrors.Transient(err)
	}
	return result, nil
}

func (r *repository) Update(ctx context.Context, member *Member) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}
