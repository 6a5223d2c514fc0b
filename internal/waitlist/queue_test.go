package waitlist

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPositionOf(t *testing.T) {
	base := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	first := Entry{ID: uuid.New(), CreatedAt: base}
	second := Entry{ID: uuid.New(), CreatedAt: base.Add(time.Minute)}
	third := Entry{ID: uuid.New(), CreatedAt: base.Add(2 * time.Minute)}
	entries := []Entry{first, second, third}

	assert.Equal(t, 1, PositionOf(entries, first.ID))
	assert.Equal(t, 2, PositionOf(entries, second.ID))
	assert.Equal(t, 3, PositionOf(entries, third.ID))
	assert.Equal(t, 0, PositionOf(entries, uuid.New()))
	assert.Equal(t, 0, PositionOf(nil, first.ID))
}
