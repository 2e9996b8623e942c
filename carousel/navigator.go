// Package carousel keeps the position within a loaded recommendation list
// and warms images around it.
package carousel

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aluiziolira/swell-carousel/models"
)

// Direction is a navigation request.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// ParseDirection accepts "next" and "prev" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "next":
		return Next, nil
	case "prev":
		return Prev, nil
	default:
		return Next, fmt.Errorf("unknown direction %q", s)
	}
}

// State is the navigation lock state.
type State int

const (
	Idle State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// IndexChange is delivered every time the current index is (re)established.
type IndexChange struct {
	List  []models.Recommendation
	Index int
}

// Snapshot is a consistent read of the cursor.
type Snapshot struct {
	Index      int
	Len        int
	State      State
	Current    models.Recommendation
	HasCurrent bool
}

// Navigator owns the cursor over one recommendation list. Requests made
// while a transition is pending are dropped; the state guard decides, the
// settle timer only schedules.
type Navigator struct {
	delay    time.Duration
	onChange func(IndexChange)
	metrics  *Metrics

	mu         sync.Mutex
	list       []models.Recommendation
	index      int
	state      State
	generation uint64
	timer      *time.Timer
}

// NewNavigator builds an idle navigator over an empty list. onChange may be nil.
func NewNavigator(delay time.Duration, onChange func(IndexChange), metrics *Metrics) *Navigator {
	return &Navigator{delay: delay, onChange: onChange, metrics: metrics}
}

// Reset replaces the list, cancels any pending transition and moves to index 0.
func (n *Navigator) Reset(list []models.Recommendation) {
	n.mu.Lock()
	n.stopLocked()
	n.list = list
	n.index = 0
	change := IndexChange{List: list, Index: 0}
	n.mu.Unlock()

	if len(list) > 0 {
		n.notify(change)
	}
}

// Stop cancels any pending transition and leaves the cursor where it is.
func (n *Navigator) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked()
}

func (n *Navigator) stopLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.generation++
	n.state = Idle
}

// RequestChange starts a transition in dir. It reports false, without
// error, when the list is empty or a transition is already pending.
func (n *Navigator) RequestChange(dir Direction) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Transitioning || len(n.list) == 0 {
		n.metrics.IncNavigation("dropped")
		return false
	}

	n.state = Transitioning
	gen := n.generation
	n.timer = time.AfterFunc(n.delay, func() {
		n.settle(gen, dir)
	})
	n.metrics.IncNavigation("accepted")
	return true
}

func (n *Navigator) settle(gen uint64, dir Direction) {
	n.mu.Lock()
	if gen != n.generation || n.state != Transitioning || len(n.list) == 0 {
		n.mu.Unlock()
		return
	}

	length := len(n.list)
	if dir == Prev {
		n.index = (n.index - 1 + length) % length
	} else {
		n.index = (n.index + 1) % length
	}
	n.state = Idle
	n.timer = nil
	change := IndexChange{List: n.list, Index: n.index}
	n.mu.Unlock()

	n.notify(change)
}

func (n *Navigator) notify(change IndexChange) {
	if n.onChange != nil {
		n.onChange(change)
	}
}

// Snapshot returns the cursor and current recommendation together.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()

	snap := Snapshot{Index: n.index, Len: len(n.list), State: n.state}
	if n.index < len(n.list) {
		snap.Current = n.list[n.index]
		snap.HasCurrent = true
	}
	return snap
}

// Current returns the recommendation under the cursor.
func (n *Navigator) Current() (models.Recommendation, bool) {
	snap := n.Snapshot()
	return snap.Current, snap.HasCurrent
}

// Index returns the current position.
func (n *Navigator) Index() int {
	return n.Snapshot().Index
}

// Len returns the list length.
func (n *Navigator) Len() int {
	return n.Snapshot().Len
}

// IsTransitioning reports whether a transition is pending.
func (n *Navigator) IsTransitioning() bool {
	return n.Snapshot().State == Transitioning
}
