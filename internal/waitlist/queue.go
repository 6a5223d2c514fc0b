package waitlist

import (
	"context"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Queue is the per-shift FIFO over waitlisted registrations. Entries are keyed
// by created_at with the id as tiebreaker, so the order is total and stable.
type Queue interface {
	// PromoteNext dequeues the head of the shift's waitlist inside the
	// caller's transaction, flips it to ACTIVE and returns it. Returns
	// (nil, nil) on an empty queue. The caller must hold the shift's
	// allocation lock: exactly one promotion per unit of freed capacity.
	PromoteNext(tx *gorm.DB, shiftID uuid.UUID) (*Entry, error)

	// Entries returns the shift's waitlist in promotion order
	Entries(ctx context.Context, shiftID uuid.UUID) ([]Entry, error)

	// Length returns the waitlist length for a shift
	Length(ctx context.Context, shiftID uuid.UUID) (int, error)

	// Position returns the 1-based queue position of a waitlisted
	// registration, or 0 if it is not waitlisted
	Position(ctx context.Context, registrationID uuid.UUID) (int, error)
}

type queue struct {
	db *gorm.DB
}

func NewQueue(db *gorm.DB) Queue {
	return &queue{db: db}
}

func (q *queue) PromoteNext(tx *gorm.DB, shiftID uuid.UUID) (*Entry, error) {
	var head Entry
	err := tx.
		Where("shift_id = ? AND status = ?", shiftID, "WAITLISTED").
		Order("created_at, id").
		Limit(1).
		Find(&head).Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	if head.ID == uuid.Nil {
		// Empty queue is not an error
		return nil, nil
	}

	err = tx.Table("registrations").
		Where("id = ?", head.ID).
		Update("status", "ACTIVE").Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}

	head.Status = "ACTIVE"
	return &head, nil
}

func (q *queue) Entries(ctx context.Context, shiftID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	err := q.db.WithContext(ctx).
		Where("shift_id = ? AND status = ?", shiftID, "WAITLISTED").
		Order("created_at, id").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Transient(err)
	}
	return entries, nil
}

func (q *queue) Length(ctx context.Context, shiftID uuid.UUID) (int, error) {
	var count int64
	err := q.db.WithContext(ctx).Table("registrations").
		Where("shift_id = ? AND status = ?", shiftID, "WAITLISTED").
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Transient(err)
	}
	return int(count), nil
}

func (q *queue) Position(ctx context.Context, registrationID uuid.UUID) (int, error) {
	var entry Entry
	err := q.db.WithContext(ctx).
		Where("id = ?", registrationID).
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return 0, apperrors.Transient(err)
	}
	if entry.ID == uuid.Nil || entry.Status != "WAITLISTED" {
		return 0, nil
	}

	entries, err := q.Entries(ctx, entry.ShiftID)
	if err != nil {
		return 0, err
	}
	return PositionOf(entries, registrationID), nil
}

// PositionOf returns the 1-based position of id within ordered entries, 0 if
// absent
func PositionOf(entries []Entry, id uuid.UUID) int {
	for i, entry := range entries {
		if entry.ID == id {
			return i + 1
		}
	}
	return 0
}
