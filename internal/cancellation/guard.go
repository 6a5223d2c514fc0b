package cancellation

import (
	"time"

	"stagehand/internal/events"
	"stagehand/internal/shared/apperrors"
)

// Guard enforces the cancellation cutoff for self-service cancellations.
// Administrative cancellations bypass the guard entirely.
type Guard struct {
	// Buffer is the fallback cutoff before event start when the event has no
	// explicit cancellation deadline
	Buffer time.Duration
}

func NewGuard(buffer time.Duration) *Guard {
	return &Guard{Buffer: buffer}
}

// Deadline returns the effective cancellation cutoff for an event: the
// explicit deadline if set, otherwise event start minus the buffer.
func (g *Guard) Deadline(event *events.Event) time.Time {
	if event.CancellationDeadline != nil {
		return *event.CancellationDeadline
	}
	return event.StartsAt.Add(-g.Buffer)
}

// Check returns DeadlineExceededError when now is on or past the event's
// cancellation cutoff
func (g *Guard) Check(event *events.Event, now time.Time) error {
	if !now.Before(g.Deadline(event)) {
		return &apperrors.DeadlineExceededError{EventID: event.ID}
	}
	return nil
}
