package shifts

import (
	"context"
	"errors"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Statuses that hold a slot. Mirrors the registration ledger's accounting; the
// capacity invariant counts exactly these.
var capacityHoldingStatuses = []string{"ACTIVE", "TENTATIVE"}

type Repository interface {
	Create(ctx context.Context, shift *Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]Shift, error)
	ListByEventAndRole(ctx context.Context, eventID uuid.UUID, role string) ([]Shift, error)
	Update(ctx context.Context, shift *Shift) error
	Delete(ctx context.Context, id uuid.UUID) error

	// GetAvailability returns a consistent (capacity, activeCount) pair. For
	// display only; allocation decisions re-read these under the shift row lock.
	GetAvailability(ctx context.Context, shiftID uuid.UUID) (*Availability, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, shift *Shift) error {
	if err := r.db.WithContext(ctx).Create(shift).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Shift, error) {
	var shift Shift
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shift")
		}
		return nil, apperrors.Transient(err)
	}
	return &shift, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID, publicOnly bool) ([]Shift, error) {
	var result []Shift
	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("starts_at, role")
	if publicOnly {
		query = query.Where("visibility = ?", VisibilityPublic)
	}
	if err := query.Find(&result).Error; err != nil {
		return nil, apperrors.Transient(err)
	}
	return result, nil
}

func (r *repository) ListByEventAndRole(ctx context.Context, eventID uuid.UUID, role string) ([]Shift, error) {
	var result []Shift
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND role = ?", eventID, role).
		Order("starts_at").
		Find(&result).Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	return result, nil
}

func (r *repository) Update(ctx context.Context, shift *Shift) error {
	if err := r.db.WithContext(ctx).Save(shift).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Shift{})
	if result.Error != nil {
		return apperrors.Transient(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("shift")
	}
	return nil
}

func (r *repository) GetAvailability(ctx context.Context, shiftID uuid.UUID) (*Availability, error) {
	var availability Availability

	// Single query so capacity and activeCount come from one snapshot
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id AS shift_id,
		       s.capacity,
		       count(r.id) FILTER (WHERE r.status IN ?) AS active_count
		FROM shifts s
		LEFT JOIN registrations r ON r.shift_id = s.id
		WHERE s.id = ?
		GROUP BY s.id, s.capacity
	`, capacityHoldingStatuses, shiftID).Scan(&availability).Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	if availability.ShiftID == uuid.Nil {
		return nil, apperrors.NotFound("shift")
	}

	availability.Open = availability.Capacity - availability.ActiveCount
	if availability.Open < 0 {
		availability.Open = 0
	}
	return &availability, nil
}
