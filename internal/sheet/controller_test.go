package sheet

import "testing"

const (
	minH = 180
	midH = 240
	maxH = 520
)

func newTestController() *Controller {
	return NewController(minH, midH, maxH)
}

func TestInitialState(t *testing.T) {
	c := newTestController()
	if c.State() != Collapsed || c.Height() != minH {
		t.Fatalf("new controller: state=%v height=%v", c.State(), c.Height())
	}
}

func TestSnapToMidFromMin(t *testing.T) {
	c := newTestController()
	c.BeginDrag()
	// Dragging up 80px puts the candidate at MIN+80: past MIN+50, below
	// MID+50, so the release snaps to MID even though max is locked.
	c.Drag(-80)
	if c.Release(-80) != Partial {
		t.Fatalf("MIN+80 release should snap to MID, got %v", c.State())
	}
	if c.Height() != midH {
		t.Fatalf("height = %v, want %v", c.Height(), midH)
	}
}

func TestSnapBackToMinUnderThreshold(t *testing.T) {
	c := newTestController()
	c.BeginDrag()
	c.Drag(-40) // candidate MIN+40, under the threshold
	if c.Release(-40) != Collapsed {
		t.Fatalf("MIN+40 release should fall back to MIN, got %v", c.State())
	}
}

func TestNeverExceedsMidWhileLocked(t *testing.T) {
	c := newTestController()
	c.BeginDrag()
	// A huge upward drag: clamped to MID at every intermediate position.
	if h := c.Drag(-1000); h != midH {
		t.Fatalf("locked drag reached %v, ceiling is %v", h, midH)
	}
	if c.Release(-1000) != Partial {
		t.Fatalf("locked release past MID+50 must still settle at MID, got %v", c.State())
	}
	if c.AtOrAboveMax() {
		t.Fatalf("max flag set while max is locked")
	}
}

func TestUnlockedDragReachesMax(t *testing.T) {
	c := newTestController()
	c.AllowMax()
	c.BeginDrag()
	if h := c.Drag(-1000); h != maxH {
		t.Fatalf("unlocked drag clamped at %v, want %v", h, maxH)
	}
	if c.Release(-1000) != Expanded {
		t.Fatalf("unlocked release should snap to MAX, got %v", c.State())
	}
}

func TestRequestExpand(t *testing.T) {
	c := newTestController()
	c.RequestExpand()
	if c.State() != Expanded || c.Height() != maxH {
		t.Fatalf("RequestExpand: state=%v height=%v", c.State(), c.Height())
	}
	if !c.AtOrAboveMid() || !c.AtOrAboveMax() {
		t.Fatalf("flags after expand: mid=%v max=%v", c.AtOrAboveMid(), c.AtOrAboveMax())
	}
	// Terminal until the next gesture: dragging down below the mid threshold
	// collapses it again.
	c.BeginDrag()
	c.Drag(maxH - minH)
	if c.Release(maxH-minH) != Collapsed {
		t.Fatalf("full downward drag should collapse, got %v", c.State())
	}
}

func TestCrossingFiresOnlyOnThresholds(t *testing.T) {
	c := newTestController()
	var fired int
	c.OnCrossing(func(mid, max bool) { fired++ })

	c.BeginDrag()
	// Many small moves below MID: no crossings, no callbacks.
	for _, d := range []float64{-10, -20, -30, -40, -50} {
		c.Drag(d)
	}
	if fired != 0 {
		t.Fatalf("callback fired %d times below the mid boundary", fired)
	}

	c.Drag(-60) // crosses MID (180+60=240)
	if fired != 1 {
		t.Fatalf("crossing MID should fire exactly once, got %d", fired)
	}
	if !c.AtOrAboveMid() {
		t.Fatalf("mid flag not set after crossing")
	}

	c.Drag(-59) // back below MID
	if fired != 2 {
		t.Fatalf("crossing back down should fire again, got %d", fired)
	}
	if c.AtOrAboveMid() {
		t.Fatalf("mid flag still set after dropping below")
	}
}
