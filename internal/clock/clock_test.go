package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStep_Advances(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &Step{Start: start, Interval: time.Second}

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Now())
	assert.Equal(t, start.Add(2*time.Second), c.Now())
}

func TestFixed(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := Fixed{FixedTime: fixed}
	assert.Equal(t, fixed, c.Now())
	assert.Equal(t, fixed, c.Now())
}

func TestOrReal(t *testing.T) {
	assert.IsType(t, Real{}, OrReal(nil))

	fixed := Fixed{FixedTime: time.Unix(0, 0)}
	assert.Equal(t, fixed, OrReal(fixed))
}
