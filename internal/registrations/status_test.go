package registrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHoldsCapacity(t *testing.T) {
	assert.True(t, StatusActive.HoldsCapacity())
	assert.True(t, StatusTentative.HoldsCapacity())
	assert.False(t, StatusWaitlisted.HoldsCapacity())
	assert.False(t, StatusRejected.HoldsCapacity())
	assert.False(t, StatusCancelled.HoldsCapacity())
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, StatusWaitlisted.CanTransitionTo(StatusActive))
	assert.True(t, StatusWaitlisted.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusTentative.CanTransitionTo(StatusActive))
	assert.True(t, StatusActive.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusRejected.CanTransitionTo(StatusCancelled))

	assert.False(t, StatusActive.CanTransitionTo(StatusWaitlisted))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusActive))
	assert.False(t, StatusRejected.CanTransitionTo(StatusActive))
	assert.False(t, StatusWaitlisted.CanTransitionTo(StatusTentative))
}
