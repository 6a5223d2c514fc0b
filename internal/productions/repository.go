package productions

import (
	"context"
	"errors"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, production *Production) error
	GetByID(ctx context.Context, id uuid.UUID) (*Production, error)
	List(ctx context.Context) ([]Production, error)
	Update(ctx context.Context, production *Production) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreatePerformance(ctx context.Context, performance *Performance) error
	ListPerformances(ctx context.Context, productionID uuid.UUID) ([]Performance, error)
	DeletePerformance(ctx context.Context, id uuid.UUID) error

	CreateAssignment(ctx context.Context, assignment *CastAssignment) error
	ListAssignments(ctx context.Context, productionID uuid.UUID) ([]CastAssignment, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, production *Production) error {
	if err := r.db.WithContext(ctx).Create(production).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Production, error) {
	var production Production
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&production).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("production")
		}
		return nil, apperrors.Transient(err)
	}
	return &production, nil
}

func (r *repository) List(ctx context.Context) ([]Production, error) {
	var result []Production
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, apperrors.Transient(err)
	}
	return result, nil
}

func (r *repository) Update(ctx context.Context, production *Production) error {
	if err := r.db.WithContext(ctx).Save(production).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Production{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("production")
	}
	return nil
}

func (r *repository) CreatePerformance(ctx context.Context, performance *Performance) error {
	if err := r.db.WithContext(ctx).Create(performance).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) ListPerformances(ctx context.Context, productionID uuid.UUID) ([]Performance, error) {
	var result []Performance
	err := r.db.WithContext(ctx).
		Where("production_id = ?", productionID).
		Order("created_at").
		Find(&result).Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	return result, nil
}

func (r *repository) DeletePerformance(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Performance{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("performance")
	}
	return nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *CastAssignment) error {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) ListAssignments(ctx context.Context, productionID uuid.UUID) ([]CastAssignment, error) {
	var result []CastAssignment
	err := r.db.WithContext(ctx).
		Where("production_id = ?", productionID).
		Order("role, created_at").
		Find(&result).Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	return result, nil
}

func (r *repository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CastAssignment{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cast assignment")
	}
	return nil
}
