package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_AdvanceAndSince(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 12, 21, 14, 21, 0, 0, time.UTC)
	fake := NewFake(start)

	fake.Advance(1500 * time.Millisecond)

	assert.Equal(t, start.Add(1500*time.Millisecond), fake.Now())
	assert.Equal(t, 1500*time.Millisecond, Since(fake, start))

	fake.Set(start)
	assert.Equal(t, time.Duration(0), Since(fake, start))
}

func TestSystem_IsMonotonic(t *testing.T) {
	t.Parallel()

	first := System.Now()
	second := System.Now()

	assert.False(t, second.Before(first))
}
