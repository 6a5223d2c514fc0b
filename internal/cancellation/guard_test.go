package cancellation

import (
	"errors"
	"testing"
	"time"

	"stagehand/internal/events"
	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventStartingAt(start time.Time, deadline *time.Time) *events.Event {
	return &events.Event{
		ID:                   uuid.New(),
		StartsAt:             start,
		EndsAt:               start.Add(4 * time.Hour),
		CancellationDeadline: deadline,
	}
}

func TestGuardUsesExplicitDeadline(t *testing.T) {
	guard := NewGuard(6 * time.Hour)
	start := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	deadline := start.Add(-48 * time.Hour)
	event := eventStartingAt(start, &deadline)

	assert.NoError(t, guard.Check(event, deadline.Add(-time.Minute)))

	err := guard.Check(event, deadline)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeadlineExceeded))
}

func TestGuardFallsBackToBuffer(t *testing.T) {
	guard := NewGuard(6 * time.Hour)
	start := time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC)
	event := eventStartingAt(start, nil)

	// 7 hours out is still inside the window
	assert.NoError(t, guard.Check(event, start.Add(-7*time.Hour)))

	// 5 hours out is past the fallback cutoff
	err := guard.Check(event, start.Add(-5*time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeadlineExceeded))
}

func TestMintTokenIsURLSafeAndUnique(t *testing.T) {
	a, err := MintToken()
	require.NoError(t, err)
	b, err := MintToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
	assert.GreaterOrEqual(t, len(a), 43)
}
