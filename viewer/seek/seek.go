// Package seek turns progress-bar and word gestures into clock seeks.
package seek

import (
	"math"

	"github.com/zillusion/capsule/viewer/playback"
	"github.com/zillusion/capsule/viewer/transcript"
)

// Clock is the part of playback.Clock the controller drives.
type Clock interface {
	Seek(seconds float64)
	Play() error
	State() playback.State
}

// Track is the progress bar's horizontal extent.
type Track struct {
	Left  float64
	Width float64
}

// Fraction maps x to a position on the track in [0, 1]. A track with no
// width maps everything to 0.
func (t Track) Fraction(x float64) float64 {
	if t.Width <= 0 {
		return 0
	}
	f := (x - t.Left) / t.Width
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Controller tracks drag state on one progress bar.
type Controller struct {
	clock    Clock
	track    Track
	dragging bool
}

func NewController(c Clock, t Track) *Controller {
	return &Controller{clock: c, track: t}
}

// SetTrack updates the track after a layout change.
func (c *Controller) SetTrack(t Track) { c.track = t }

func (c *Controller) Dragging() bool { return c.dragging }

// PointerDown starts a drag and seeks to x.
func (c *Controller) PointerDown(x float64) {
	c.dragging = true
	c.seekTo(x)
}

// PointerMove seeks to x while dragging and is ignored otherwise.
func (c *Controller) PointerMove(x float64) {
	if c.dragging {
		c.seekTo(x)
	}
}

// PointerUp ends the drag. Wire it to pointer release anywhere, not only on
// the track, so leaving the track mid-drag cannot leave it stuck.
func (c *Controller) PointerUp() { c.dragging = false }

// Click seeks once without starting a drag.
func (c *Controller) Click(x float64) { c.seekTo(x) }

// WordClick jumps to the start of w and starts playback.
func (c *Controller) WordClick(w transcript.Word) error {
	c.clock.Seek(w.Start)
	return c.clock.Play()
}

func (c *Controller) seekTo(x float64) {
	c.clock.Seek(c.track.Fraction(x) * c.clock.State().Duration)
}
