package waitlist

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes read-only waitlist views. Mutations (enqueue, promote) run
// inside the registration ledger's allocation transactions, not here.
type Service interface {
	GetQueue(ctx context.Context, shiftID uuid.UUID) (*QueueView, error)
	GetPosition(ctx context.Context, registrationID uuid.UUID) (int, error)
}

type service struct {
	queue Queue
}

func NewService(queue Queue) Service {
	return &service{queue: queue}
}

func (s *service) GetQueue(ctx context.Context, shiftID uuid.UUID) (*QueueView, error) {
	entries, err := s.queue.Entries(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	view := &QueueView{
		ShiftID: shiftID,
		Length:  len(entries),
		Entries: make([]PositionEntry, 0, len(entries)),
	}
	for i, entry := range entries {
		view.Entries = append(view.Entries, PositionEntry{Entry: entry, Position: i + 1})
	}
	return view, nil
}

func (s *service) GetPosition(ctx context.Context, registrationID uuid.UUID) (int, error) {
	return s.queue.Position(ctx, registrationID)
}
