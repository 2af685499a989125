package tui

import (
	"time"

	"github.com/zillusion/capsule/viewer/playback"
)

// tickMedia is a playback.Media whose position advances on ticks from the
// event loop. The terminal cannot render audio, so it stands in for an
// audio element while keeping the transcript in step.
type tickMedia struct {
	position float64
	duration float64
	volume   float64
	playing  bool
}

var _ playback.Media = (*tickMedia)(nil)

func newTickMedia(duration float64) *tickMedia {
	return &tickMedia{duration: duration, volume: 1}
}

func (m *tickMedia) Play() error              { m.playing = true; return nil }
func (m *tickMedia) Pause()                   { m.playing = false }
func (m *tickMedia) SetCurrentTime(s float64) { m.position = s }
func (m *tickMedia) CurrentTime() float64     { return m.position }
func (m *tickMedia) Duration() float64        { return m.duration }
func (m *tickMedia) SetVolume(v float64)      { m.volume = v }

// advance moves the position by d while playing and reports whether the
// end was reached.
func (m *tickMedia) advance(d time.Duration) (ended bool) {
	if !m.playing {
		return false
	}
	m.position += d.Seconds()
	if m.position >= m.duration {
		m.position = m.duration
		m.playing = false
		return true
	}
	return false
}
