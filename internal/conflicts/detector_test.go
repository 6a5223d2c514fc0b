package conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"stagehand/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	commitments []Commitment
	lastExclude *uuid.UUID
}

func (f *fakeRepository) ActiveCommitments(_ context.Context, _ Registrant, exclude *uuid.UUID) ([]Commitment, error) {
	f.lastExclude = exclude
	if exclude == nil {
		return f.commitments, nil
	}
	var filtered []Commitment
	for _, c := range f.commitments {
		if c.RegistrationID != *exclude {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func at(hour int) time.Time {
	return time.Date(2026, 9, 12, hour, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint before", at(10), at(12), at(13), at(15), false},
		{"disjoint after", at(13), at(15), at(10), at(12), false},
		{"partial overlap", at(18), at(20), at(19), at(21), true},
		{"containment", at(10), at(20), at(12), at(14), true},
		{"identical", at(18), at(20), at(18), at(20), true},
		// Half-open: back-to-back windows do not collide
		{"touching boundaries", at(10), at(12), at(12), at(14), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestCheckReportsCollidingRegistrations(t *testing.T) {
	existing := uuid.New()
	repo := &fakeRepository{commitments: []Commitment{
		{RegistrationID: existing, StartsAt: at(18), EndsAt: at(20)},
	}}
	detector := NewDetector(repo)

	registrant := Registrant{Email: "crew@example.org"}

	// 19:00-21:00 overlaps the existing 18:00-20:00 commitment
	err := detector.Check(context.Background(), registrant, TimeWindow{StartsAt: at(19), EndsAt: at(21)}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []uuid.UUID{existing}, conflict.RegistrationIDs)

	// A disjoint window passes
	err = detector.Check(context.Background(), registrant, TimeWindow{StartsAt: at(21), EndsAt: at(23)}, nil)
	assert.NoError(t, err)
}

func TestCheckExcludesOwnRegistration(t *testing.T) {
	own := uuid.New()
	repo := &fakeRepository{commitments: []Commitment{
		{RegistrationID: own, StartsAt: at(18), EndsAt: at(20)},
	}}
	detector := NewDetector(repo)

	// Re-checking a registration against itself must not self-collide
	err := detector.Check(context.Background(), Registrant{Email: "crew@example.org"},
		TimeWindow{StartsAt: at(18), EndsAt: at(20)}, &own)
	assert.NoError(t, err)
	require.NotNil(t, repo.lastExclude)
	assert.Equal(t, own, *repo.lastExclude)
}

func TestCheckCollectsAllCollisions(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	repo := &fakeRepository{commitments: []Commitment{
		{RegistrationID: first, StartsAt: at(17), EndsAt: at(19)},
		{RegistrationID: second, StartsAt: at(19), EndsAt: at(21)},
		{RegistrationID: uuid.New(), StartsAt: at(8), EndsAt: at(9)},
	}}
	detector := NewDetector(repo)

	err := detector.Check(context.Background(), Registrant{Email: "crew@example.org"},
		TimeWindow{StartsAt: at(18), EndsAt: at(20)}, nil)

	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.ElementsMatch(t, []uuid.UUID{first, second}, conflict.RegistrationIDs)
}
