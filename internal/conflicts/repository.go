package conflicts

import (
	"context"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads capacity-holding registrations joined with their shift
// windows, across all events.
type Repository interface {
	ActiveCommitments(ctx context.Context, registrant Registrant, excludeRegistrationID *uuid.UUID) ([]Commitment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ActiveCommitments(ctx context.Context, registrant Registrant, excludeRegistrationID *uuid.UUID) ([]Commitment, error) {
	query := r.db.WithContext(ctx).
		Table("registrations r").
		Select("r.id AS registration_id, r.shift_id, s.event_id, s.role, s.starts_at, s.ends_at").
		Joins("JOIN shifts s ON s.id = r.shift_id").
		Where("r.status IN ?", []string{"ACTIVE", "TENTATIVE"})

	if registrant.MemberID != nil {
		query = query.Where("r.member_id = ?", *registrant.MemberID)
	} else {
		query = query.Where("r.member_id IS NULL AND lower(r.contact_email) = lower(?)", registrant.Email)
	}

	if excludeRegistrationID != nil {
		query = query.Where("r.id <> ?", *excludeRegistrationID)
	}

	var commitments []Commitment
	if err := query.Order("s.starts_at").Scan(&commitments).Error; err != nil {
		return nil, apperrors.Transient(err)
	}
	return commitments, nil
}
