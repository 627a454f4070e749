package supervisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// windowState builds a bare state with a manual clock, enough to
// exercise the sliding-window accounting in isolation.
func windowState(maxRestarts, maxSeconds int, clock *int64) *state {
	return &state{
		opts: Options{MaxRestarts: maxRestarts, MaxSeconds: maxSeconds},
		now:  func() int64 { return *clock },
	}
}

func TestRestartWindowWithinBudget(t *testing.T) {
	var clock int64
	s := windowState(3, 5, &clock)

	for i := int64(0); i < 3; i++ {
		clock = i
		assert.False(t, s.addRestart(), "restart %d is within budget", i+1)
	}
}

func TestRestartWindowInclusiveBoundary(t *testing.T) {
	var clock int64
	s := windowState(3, 5, &clock)

	for _, ts := range []int64{0, 1, 2} {
		clock = ts
		assert.False(t, s.addRestart())
	}

	// a restart that happened exactly MaxSeconds ago still counts
	clock = 5
	assert.True(t, s.addRestart(), "the boundary is inclusive")
}

func TestRestartWindowPrunesOldEntries(t *testing.T) {
	var clock int64
	s := windowState(1, 5, &clock)

	clock = 0
	assert.False(t, s.addRestart())

	// the first restart has aged out of the window
	clock = 6
	assert.False(t, s.addRestart())

	clock = 6
	assert.True(t, s.addRestart(), "two restarts inside the window exceed a budget of one")
}

func TestRestartWindowZeroBudget(t *testing.T) {
	var clock int64
	s := windowState(0, 5, &clock)

	assert.True(t, s.addRestart(), "a zero budget fails on the first restart")
}
