// Package sheet implements the draggable bottom panel's state machine: three
// snap heights, an allow-max gate, and threshold-derived visibility flags.
package sheet

import "fmt"

// State is the panel's settled position.
type State int

const (
	Collapsed State = iota // at the MIN height
	Partial                // at the MID height
	Expanded               // at the MAX height
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Partial:
		return "partial"
	case Expanded:
		return "expanded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// snapThreshold is how far past a boundary a release must land to snap up to
// the next height. Offsets from the state boundaries, not absolute fractions.
const snapThreshold = 50

// Controller drives the panel between its snap heights. Dragging clamps the
// height to [min, ceiling] at every intermediate position, where the ceiling
// is mid until RequestExpand (or AllowMax) unlocks max. Not safe for
// concurrent use; it belongs to the UI loop.
type Controller struct {
	min, mid, max float64

	height    float64
	state     State
	allowMax  bool
	dragging  bool
	dragStart float64

	atOrAboveMid bool
	atOrAboveMax bool

	// onCrossing, when set, fires only when the height passes the mid or max
	// boundary, never on every position change.
	onCrossing func(atOrAboveMid, atOrAboveMax bool)
}

// NewController builds a controller resting at the min height.
func NewController(min, mid, max float64) *Controller {
	return &Controller{min: min, mid: mid, max: max, height: min, state: Collapsed}
}

// OnCrossing registers a callback for mid/max threshold crossings.
func (c *Controller) OnCrossing(fn func(atOrAboveMid, atOrAboveMax bool)) {
	c.onCrossing = fn
}

// State returns the last snapped position. The controller never returns to
// Collapsed on its own; whatever was last reached is terminal until the next
// gesture.
func (c *Controller) State() State { return c.state }

// Height returns the current panel height, mid-drag or settled.
func (c *Controller) Height() float64 { return c.height }

// AtOrAboveMid reports whether the height has reached the mid boundary.
func (c *Controller) AtOrAboveMid() bool { return c.atOrAboveMid }

// AtOrAboveMax reports whether the height has reached the max boundary.
func (c *Controller) AtOrAboveMax() bool { return c.atOrAboveMax }

// AllowMax unlocks the max height without moving the panel.
func (c *Controller) AllowMax() { c.allowMax = true }

// RequestExpand unlocks the max height and moves straight there, as when the
// "Check Nearby" action fires.
func (c *Controller) RequestExpand() {
	c.allowMax = true
	c.snapTo(c.max)
}

// BeginDrag starts a gesture from the current height.
func (c *Controller) BeginDrag() {
	c.dragging = true
	c.dragStart = c.height
}

// Drag moves the panel by the gesture's vertical delta (positive = down,
// negative = up, like screen coordinates) and returns the clamped height.
// The panel never overshoots the current ceiling, not even transiently.
func (c *Controller) Drag(delta float64) float64 {
	if !c.dragging {
		c.BeginDrag()
	}
	candidate := c.dragStart - delta
	c.setHeight(clamp(candidate, c.min, c.ceiling()))
	return c.height
}

// Release ends the gesture: the unclamped candidate height is compared
// against the snap thresholds and the panel settles on min, mid or max.
func (c *Controller) Release(delta float64) State {
	if !c.dragging {
		return c.state
	}
	c.dragging = false
	candidate := c.dragStart - delta

	target := c.min
	switch {
	case candidate > c.mid+snapThreshold && c.allowMax:
		target = c.max
	case candidate > c.min+snapThreshold:
		target = c.mid
	}
	if ceiling := c.ceiling(); target > ceiling {
		target = ceiling
	}
	c.snapTo(target)
	return c.state
}

func (c *Controller) ceiling() float64 {
	if c.allowMax {
		return c.max
	}
	return c.mid
}

func (c *Controller) snapTo(target float64) {
	c.setHeight(target)
	switch target {
	case c.max:
		c.state = Expanded
	case c.mid:
		c.state = Partial
	default:
		c.state = Collapsed
	}
}

// setHeight moves the animated height and recomputes the derived flags only
// on threshold crossings.
func (c *Controller) setHeight(h float64) {
	prev := c.height
	c.height = h

	mid := crossed(prev, h, c.mid)
	max := crossed(prev, h, c.max)
	if !mid && !max {
		return
	}
	c.atOrAboveMid = h >= c.mid
	c.atOrAboveMax = h >= c.max
	if c.onCrossing != nil {
		c.onCrossing(c.atOrAboveMid, c.atOrAboveMax)
	}
}

// crossed reports whether moving from prev to next passed the boundary in
// either direction.
func crossed(prev, next, boundary float64) bool {
	return (next >= boundary) != (prev >= boundary)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
