// Package highlight maps a playback time to the active utterance and words
// of a transcript.
package highlight

import (
	"github.com/zillusion/capsule/viewer/playback"
	"github.com/zillusion/capsule/viewer/transcript"
)

// Highlight is the resolved position. OK is false when no utterance
// contains the time.
type Highlight struct {
	OK        bool
	Utterance int
	ID        string
	Words     []int
}

// Resolve returns the first utterance, in source order, whose range
// contains t, plus every word of it whose range contains t. Overlapping or
// unsorted input is scanned as given.
func Resolve(tr *transcript.Transcript, t float64) Highlight {
	if tr == nil {
		return Highlight{}
	}
	for i := 0; i < tr.Len(); i++ {
		u := tr.At(i)
		if !u.Contains(t) {
			continue
		}
		h := Highlight{OK: true, Utterance: i, ID: u.ID}
		for j, w := range u.Words {
			if w.Start <= t && t <= w.End {
				h.Words = append(h.Words, j)
			}
		}
		return h
	}
	return Highlight{}
}

// WordActive reports whether word index j is highlighted.
func (h Highlight) WordActive(j int) bool {
	for _, w := range h.Words {
		if w == j {
			return true
		}
	}
	return false
}

// Resolver memoizes Resolve on (time, transcript id) and notifies when the
// active utterance changes. Attach it to a playback.Clock with Observe.
type Resolver struct {
	tr       *transcript.Transcript
	onChange func(Highlight)

	cached   bool
	lastTime float64
	lastID   string
	current  Highlight
}

// NewResolver returns a Resolver for tr. onChange may be nil.
func NewResolver(tr *transcript.Transcript, onChange func(Highlight)) *Resolver {
	return &Resolver{tr: tr, onChange: onChange}
}

// SetTranscript replaces the transcript, as after selecting another record.
func (r *Resolver) SetTranscript(tr *transcript.Transcript) {
	r.tr = tr
	r.cached = false
	prev := r.current
	r.current = Highlight{}
	if prev.OK {
		r.notify()
	}
}

// At resolves t, reusing the previous answer when neither t nor the
// transcript changed.
func (r *Resolver) At(t float64) Highlight {
	id := r.transcriptID()
	if r.cached && r.lastTime == t && r.lastID == id {
		return r.current
	}
	r.cached, r.lastTime, r.lastID = true, t, id
	r.current = Resolve(r.tr, t)
	return r.current
}

// Current is the last resolved highlight.
func (r *Resolver) Current() Highlight { return r.current }

// Observe is a playback.Clock subscriber.
func (r *Resolver) Observe(s playback.State) {
	prev := r.current
	next := r.At(s.CurrentTime)
	if prev.OK != next.OK || prev.Utterance != next.Utterance {
		r.notify()
	}
}

func (r *Resolver) notify() {
	if r.onChange != nil {
		r.onChange(r.current)
	}
}

func (r *Resolver) transcriptID() string {
	if r.tr == nil {
		return ""
	}
	return r.tr.ID
}
