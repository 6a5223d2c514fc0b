package registrations

import (
	"context"
	"errors"
	"fmt"

	"stagehand/internal/shared/apperrors"
	"stagehand/internal/waitlist"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateWithCapacityCheck allocates a slot for the registration under the
	// shift's allocation lock. The registration comes back with its decided
	// status: ACTIVE when a slot was free, WAITLISTED when the shift is full
	// and waitlisting is on. A full shift without a waitlist persists a
	// REJECTED entry and returns CapacityExceededError.
	CreateWithCapacityCheck(ctx context.Context, reg *Registration) error

	// CreateDirect inserts the registration at the given capacity-holding
	// status, still under the allocation lock. No waitlist fallback: a full
	// shift returns CapacityExceededError without persisting anything.
	CreateDirect(ctx context.Context, reg *Registration, status Status) error

	// CancelAndPromote cancels the registration and, when it held capacity,
	// promotes the waitlist head into the freed slot in the same transaction.
	CancelAndPromote(ctx context.Context, registrationID uuid.UUID) (*CancelResult, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Registration, error)
	GetByToken(ctx context.Context, token string) (*Registration, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID) ([]Registration, error)

	// RegistrationContact resolves the registrant's name and email for
	// outbound notifications
	RegistrationContact(ctx context.Context, registrationID uuid.UUID) (name, email string, err error)
}

type repository struct {
	db    *gorm.DB
	queue waitlist.Queue
}

func NewRepository(db *gorm.DB, queue waitlist.Queue) Repository {
	return &repository{db: db, queue: queue}
}

// lockedShift is the slice of the shift row read under FOR UPDATE
type lockedShift struct {
	ID              uuid.UUID `gorm:"column:id"`
	Capacity        int       `gorm:"column:capacity"`
	WaitlistEnabled bool      `gorm:"column:waitlist_enabled"`
}

// lockShift takes the shift's allocation lock. Every write that can change
// the shift's active count goes through this, so capacity decisions serialize
// per shift.
func lockShift(tx *gorm.DB, shiftID uuid.UUID) (*lockedShift, error) {
	var shift lockedShift
	err := tx.Table("shifts").
		Select("id, capacity, waitlist_enabled").
		Where("id = ?", shiftID).
		Set("gorm:query_option", "FOR UPDATE").
		First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("shift")
		}
		return nil, apperrors.Transient(fmt.Errorf("failed to lock shift: %w", err))
	}
	return &shift, nil
}

func countHolding(tx *gorm.DB, shiftID uuid.UUID) (int, error) {
	var n int64
	err := tx.Table("registrations").
		Where("shift_id = ? AND status IN ?", shiftID, []string{string(StatusActive), string(StatusTentative)}).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Transient(fmt.Errorf("failed to count active registrations: %w", err))
	}
	return int(n), nil
}

func (r *repository) CreateWithCapacityCheck(ctx context.Context, reg *Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shift, err := lockShift(tx, reg.ShiftID)
		if err != nil {
			return err
		}

		active, err := countHolding(tx, reg.ShiftID)
		if err != nil {
			return err
		}

		switch {
		case active < shift.Capacity:
			reg.Status = StatusActive
		case shift.WaitlistEnabled:
			reg.Status = StatusWaitlisted
		default:
			// The turn-away is recorded; the token dies with it
			reg.Status = StatusRejected
			reg.CancelToken = nil
			if err := tx.Create(reg).Error; err != nil {
				return apperrors.Transient(fmt.Errorf("failed to record rejected registration: %w", err))
			}
			return &apperrors.CapacityExceededError{ShiftID: reg.ShiftID, Capacity: shift.Capacity}
		}

		if err := tx.Create(reg).Error; err != nil {
			return apperrors.Transient(fmt.Errorf("failed to create registration: %w", err))
		}
		return nil
	})
}

func (r *repository) CreateDirect(ctx context.Context, reg *Registration, status Status) error {
	if !status.HoldsCapacity() {
		return apperrors.NewValidation("status", "direct placement must be ACTIVE or TENTATIVE")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shift, err := lockShift(tx, reg.ShiftID)
		if err != nil {
			return err
		}

		active, err := countHolding(tx, reg.ShiftID)
		if err != nil {
			return err
		}
		if active >= shift.Capacity {
			return &apperrors.CapacityExceededError{ShiftID: reg.ShiftID, Capacity: shift.Capacity}
		}

		reg.Status = status
		if err := tx.Create(reg).Error; err != nil {
			return apperrors.Transient(fmt.Errorf("failed to place registration: %w", err))
		}
		return nil
	})
}

func (r *repository) CancelAndPromote(ctx context.Context, registrationID uuid.UUID) (*CancelResult, error) {
	var result CancelResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resolve the shift first so the allocation lock is held before the
		// registration's status is trusted. A concurrent cancel of the same
		// entry serializes here and the loser sees CANCELLED.
		var probe Registration
		err := tx.Where("id = ?", registrationID).First(&probe).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("registration")
			}
			return apperrors.Transient(fmt.Errorf("failed to load registration: %w", err))
		}

		if _, err := lockShift(tx, probe.ShiftID); err != nil {
			return err
		}

		var reg Registration
		if err := tx.Where("id = ?", registrationID).First(&reg).Error; err != nil {
			return apperrors.Transient(fmt.Errorf("failed to reload registration: %w", err))
		}
		if reg.Status == StatusCancelled {
			return apperrors.NotFound("registration")
		}

		priorStatus := reg.Status
		now := tx.NowFunc()
		err = tx.Model(&Registration{}).
			Where("id = ?", reg.ID).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"cancel_token": nil,
			}).Error
		if err != nil {
			return apperrors.Transient(fmt.Errorf("failed to cancel registration: %w", err))
		}

		reg.Status = StatusCancelled
		reg.CancelledAt = &now
		reg.CancelToken = nil
		result.Cancelled = &reg

		// Only a capacity-holding cancellation frees a slot. Waitlisted and
		// rejected entries never held one, so nothing gets promoted.
		if priorStatus.HoldsCapacity() {
			promoted, err := r.queue.PromoteNext(tx, reg.ShiftID)
			if err != nil {
				return err
			}
			if promoted != nil {
				result.PromotedID = &promoted.ID
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("registration")
		}
		return nil, apperrors.Transient(fmt.Errorf("failed to get registration: %w", err))
	}
	return &reg, nil
}

func (r *repository) GetByToken(ctx context.Context, token string) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).Where("cancel_token = ?", token).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown and already-consumed tokens are indistinguishable
			return nil, apperrors.NotFound("registration")
		}
		return nil, apperrors.Transient(fmt.Errorf("failed to resolve cancel token: %w", err))
	}
	return &reg, nil
}

func (r *repository) ListByShift(ctx context.Context, shiftID uuid.UUID) ([]Registration, error) {
	var regs []Registration
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Order("created_at, id").
		Find(&regs).Error
	if err != nil {
		return nil, apperrors.Transient(fmt.Errorf("failed to list registrations: %w", err))
	}
	return regs, nil
}

func (r *repository) RegistrationContact(ctx context.Context, registrationID uuid.UUID) (string, string, error) {
	var contact struct {
		ContactName  string `gorm:"column:contact_name"`
		ContactEmail string `gorm:"column:contact_email"`
	}
	err := r.db.WithContext(ctx).Table("registrations").
		Select("contact_name, contact_email").
		Where("id = ?", registrationID).
		First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", apperrors.NotFound("registration")
		}
		return "", "", apperrors.Transient(fmt.Errorf("failed to resolve contact: %w", err))
	}
	return contact.ContactName, contact.ContactEmail, nil
}
