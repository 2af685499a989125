// Package playback adapts a media element into a clock the rest of the
// viewer observes. The clock is the only writer of the media resource;
// everything else reads published State snapshots.
package playback

import "math"

// SkipInterval is the rewind and forward step.
const SkipInterval = 10.0

// Media is the playing resource: an audio element, a player process, or a
// fake in tests.
type Media interface {
	Play() error
	Pause()
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	Duration() float64
	SetVolume(v float64)
}

// State is a snapshot of the clock.
type State struct {
	CurrentTime    float64
	Duration       float64
	IsPlaying      bool
	Volume         float64
	IsMuted        bool
	PreviousVolume float64
}

// Clock owns a Media and publishes a State after every change. It is not
// safe for concurrent use; the viewer event loop drives it.
type Clock struct {
	media Media
	state State
	subs  map[int]func(State)
	next  int
}

// NewClock wraps m at full volume.
func NewClock(m Media) *Clock {
	c := &Clock{media: m, subs: make(map[int]func(State))}
	c.state = State{Volume: 1, PreviousVolume: 1, Duration: finite(m.Duration())}
	m.SetVolume(1)
	return c
}

// State returns the current snapshot.
func (c *Clock) State() State { return c.state }

// Subscribe registers fn for every published snapshot and returns a
// function that removes it.
func (c *Clock) Subscribe(fn func(State)) (unsubscribe func()) {
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Clock) publish() {
	s := c.state
	for id := 0; id < c.next; id++ {
		if fn, ok := c.subs[id]; ok {
			fn(s)
		}
	}
}

// Play starts playback. It is a no-op while already playing.
func (c *Clock) Play() error {
	if c.state.IsPlaying {
		return nil
	}
	if err := c.media.Play(); err != nil {
		return err
	}
	c.state.IsPlaying = true
	c.publish()
	return nil
}

// Pause stops playback. It is a no-op while paused.
func (c *Clock) Pause() {
	if !c.state.IsPlaying {
		return
	}
	c.media.Pause()
	c.state.IsPlaying = false
	c.publish()
}

// Toggle flips between playing and paused.
func (c *Clock) Toggle() error {
	if c.state.IsPlaying {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Seek moves to seconds clamped to [0, duration].
func (c *Clock) Seek(seconds float64) {
	t := clamp(seconds, 0, c.state.Duration)
	c.media.SetCurrentTime(t)
	c.state.CurrentTime = t
	c.publish()
}

// Skip seeks by delta seconds from the current time.
func (c *Clock) Skip(delta float64) { c.Seek(c.state.CurrentTime + delta) }

// Rewind and Forward skip by SkipInterval.
func (c *Clock) Rewind()  { c.Skip(-SkipInterval) }
func (c *Clock) Forward() { c.Skip(SkipInterval) }

// SetVolume sets the volume clamped to [0, 1]. Zero mutes and remembers the
// volume that was active, so ToggleMute restores it.
func (c *Clock) SetVolume(v float64) {
	v = clamp(v, 0, 1)
	if v == 0 {
		if c.state.Volume > 0 {
			c.state.PreviousVolume = c.state.Volume
		}
		c.state.IsMuted = true
	} else {
		c.state.IsMuted = false
	}
	c.state.Volume = v
	c.media.SetVolume(v)
	c.publish()
}

// ToggleMute restores the previous volume when muted, else mutes.
func (c *Clock) ToggleMute() {
	if c.state.IsMuted {
		v := c.state.PreviousVolume
		if v <= 0 {
			v = 1
		}
		c.state.Volume = v
		c.state.IsMuted = false
	} else {
		c.state.PreviousVolume = c.state.Volume
		c.state.Volume = 0
		c.state.IsMuted = true
	}
	c.media.SetVolume(c.state.Volume)
	c.publish()
}

// OnTimeUpdate samples the media position. Call it from the media's time
// update events.
func (c *Clock) OnTimeUpdate() {
	c.state.CurrentTime = finite(c.media.CurrentTime())
	c.publish()
}

// OnLoadedMetadata samples the media duration.
func (c *Clock) OnLoadedMetadata() {
	c.state.Duration = finite(c.media.Duration())
	c.publish()
}

// OnEnded stops playing and keeps the final position.
func (c *Clock) OnEnded() {
	c.state.IsPlaying = false
	c.publish()
}

// Reset swaps in a new media resource at time 0, paused. Volume settings
// carry over.
func (c *Clock) Reset(m Media) {
	if c.state.IsPlaying {
		c.media.Pause()
	}
	c.media = m
	m.SetVolume(c.state.Volume)
	c.state.CurrentTime = 0
	c.state.IsPlaying = false
	c.state.Duration = finite(m.Duration())
	c.publish()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if hi < lo {
		hi = lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
