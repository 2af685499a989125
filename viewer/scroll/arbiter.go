// Package scroll decides when the transcript view may scroll itself to
// the active utterance. User scrolling takes ownership until it has been
// quiet for ReleaseDelay.
package scroll

import (
	"sync"
	"time"
)

// ReleaseDelay is how long after the last user scroll automatic scrolling
// resumes.
const ReleaseDelay = 150 * time.Millisecond

// State is the owner of the scroll position.
type State int

const (
	Auto State = iota
	UserHeld
)

func (s State) String() string {
	if s == UserHeld {
		return "user_held"
	}
	return "auto"
}

type Align int

const (
	AlignCenter Align = iota
	AlignNearest
)

// Request asks the view to bring Target into view.
type Request struct {
	Target string
	Smooth bool
	Align  Align
}

// Scroller performs scroll requests.
type Scroller interface {
	ScrollTo(Request)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(Request)

func (f ScrollerFunc) ScrollTo(r Request) { f(r) }

// Timer is the handle AfterFunc returns.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through
// StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// StdAfterFunc wraps time.AfterFunc.
func StdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Arbiter is the AUTO / USER_HELD state machine. It owns its release timer;
// nothing else starts or stops it.
type Arbiter struct {
	mu       sync.Mutex
	scroller Scroller
	after    AfterFunc
	delay    time.Duration

	state   State
	enabled bool
	active  string
	timer   Timer
	gen     uint64
}

type Option func(*Arbiter)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(f AfterFunc) Option { return func(a *Arbiter) { a.after = f } }

// WithDelay overrides ReleaseDelay.
func WithDelay(d time.Duration) Option { return func(a *Arbiter) { a.delay = d } }

// NewArbiter starts in Auto with auto-scroll enabled.
func NewArbiter(s Scroller, opts ...Option) *Arbiter {
	a := &Arbiter{
		scroller: s,
		after:    StdAfterFunc,
		delay:    ReleaseDelay,
		enabled:  true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// UserScrolled records a wheel or touch scroll on the container. Each call
// restarts the release window.
func (a *Arbiter) UserScrolled() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}
	a.state = UserHeld
	a.stopTimerLocked()
	a.gen++
	gen := a.gen
	a.timer = a.after(a.delay, func() { a.release(gen) })
}

func (a *Arbiter) release(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.state = Auto
	a.timer = nil
}

func (a *Arbiter) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// ActiveChanged records the new active utterance and scrolls to it unless
// the user holds the view or auto-scroll is off. An empty id clears it.
func (a *Arbiter) ActiveChanged(id string) {
	a.mu.Lock()
	a.active = id
	fire := id != "" && a.enabled && a.state == Auto
	a.mu.Unlock()
	if fire {
		a.request(id)
	}
}

// SetAutoScroll toggles auto-scroll. Enabling scrolls to the active
// utterance at once; disabling drops any user hold.
func (a *Arbiter) SetAutoScroll(on bool) {
	a.mu.Lock()
	a.enabled = on
	if !on {
		a.stopTimerLocked()
		a.gen++
		a.state = Auto
	}
	target := a.active
	a.mu.Unlock()
	if on && target != "" {
		a.request(target)
	}
}

func (a *Arbiter) request(target string) {
	if a.scroller != nil {
		a.scroller.ScrollTo(Request{Target: target, Smooth: true, Align: AlignCenter})
	}
}

func (a *Arbiter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Arbiter) AutoScrollEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// UserIsScrolling reports whether the user holds the view.
func (a *Arbiter) UserIsScrolling() bool { return a.State() == UserHeld }
