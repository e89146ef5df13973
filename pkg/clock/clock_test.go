// pkg/clock/clock_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test the fake clock used for deterministic timestamps

package clock_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/homie/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := clock.NewFake(start)
	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	later := start.AddDate(1, 0, 0)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestRealClock(t *testing.T) {
	before := time.Now()
	got := clock.New().Now()
	assert.False(t, got.Before(before))
}
