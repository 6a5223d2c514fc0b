package registrations

type Status string

const (
	// StatusActive holds a slot against the shift's capacity
	StatusActive Status = "ACTIVE"
	// StatusTentative holds a slot but marks the assignment as provisional
	// (cast proposals confirmed at tentative strength)
	StatusTentative Status = "TENTATIVE"
	// StatusWaitlisted queues for the next freed slot, FIFO by created_at
	StatusWaitlisted Status = "WAITLISTED"
	// StatusRejected never held a slot; may only be closed out to cancelled
	StatusRejected Status = "REJECTED"
	// StatusCancelled is terminal
	StatusCancelled Status = "CANCELLED"
)

// HoldsCapacity reports whether a registration in this status counts against
// the shift's capacity. Rejected and waitlisted entries never do, so their
// cancellation must not trigger a promotion.
func (s Status) HoldsCapacity() bool {
	return s == StatusActive || s == StatusTentative
}

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusCancelled
}

// CanTransitionTo reports whether the transition is allowed by the lifecycle:
// waitlisted entries may be promoted or cancelled, capacity holders may be
// firmed up or cancelled, terminal states never move.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusWaitlisted:
		return next == StatusActive || next == StatusCancelled
	case StatusTentative:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCancelled
	case StatusRejected:
		// rejected entries never held capacity; closing one out must not promote
		return next == StatusCancelled
	default:
		return false
	}
}
