package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCorrelationID_FormatAndUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewCorrelationID()
		assert.True(t, IsCorrelationID(id), "generated id %q should be a UUID v4", id)
		_, dup := seen[id]
		assert.False(t, dup, "generated id %q collided", id)
		seen[id] = struct{}{}
	}
}

func TestIsCorrelationID_RejectsOtherTokens(t *testing.T) {
	t.Parallel()

	assert.False(t, IsCorrelationID(""))
	assert.False(t, IsCorrelationID("abc-123"))
	assert.False(t, IsCorrelationID(NewEventID()))
}

func TestNewEventID_IsULID(t *testing.T) {
	t.Parallel()

	assert.Len(t, NewEventID(), 26)
}
