package engine

import "github.com/milk9111/shootgame/common"

const (
	DefaultFixedTimeStep    = 1.0 / 60.0
	DefaultMaxSubSteps      = 10
	DefaultSolverIterations = 10
)

// stepTolerance absorbs rounding when the frame delta equals the fixed step
// but was parsed or computed differently.
const stepTolerance = 1e-6

// Clock turns variable frame deltas into a whole number of fixed sub-steps.
// Time beyond MaxSubSteps is dropped, the remainder below one step carries
// over to the next frame.
type Clock struct {
	Fixed       float64
	MaxSubSteps int

	acc float64
}

func NewClock(fixed float64, maxSubSteps int) Clock {
	if fixed <= 0 {
		fixed = DefaultFixedTimeStep
	}
	if maxSubSteps <= 0 {
		maxSubSteps = DefaultMaxSubSteps
	}
	return Clock{Fixed: fixed, MaxSubSteps: maxSubSteps}
}

// Advance adds dt and returns how many fixed steps to run now.
func (c *Clock) Advance(dt float64) int {
	if c.Fixed <= 0 || c.MaxSubSteps <= 0 {
		*c = NewClock(c.Fixed, c.MaxSubSteps)
	}
	if !(dt > 0) || !common.IsFinite(dt) {
		return 0
	}

	c.acc += dt
	n := int((c.acc + c.Fixed*stepTolerance) / c.Fixed)
	if n <= 0 {
		return 0
	}
	c.acc -= float64(n) * c.Fixed
	if c.acc < 0 {
		c.acc = 0
	}
	if n > c.MaxSubSteps {
		n = c.MaxSubSteps
	}
	return n
}

// Pending is the accumulated time not yet consumed by a step.
func (c *Clock) Pending() float64 {
	return c.acc
}

func (c *Clock) Reset() {
	c.acc = 0
}
