package highlight

import (
	"testing"

	"github.com/zillusion/capsule/viewer/playback"
	"github.com/zillusion/capsule/viewer/transcript"
)

func mustParse(t *testing.T, body string) *transcript.Transcript {
	t.Helper()
	tr, err := transcript.Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tr
}

const sorted = `{"id":"t1","metadata":{"results":{"utterances":[
  {"id":"a","start":0,"end":2,"words":[{"word":"one","start":0,"end":1},{"word":"two","start":1,"end":2}]},
  {"id":"b","start":3,"end":5,"words":[{"word":"x","start":3,"end":4.5},{"word":"y","start":4,"end":5}]},
  {"id":"c","start":5,"end":9,"words":[]}
]}}}`

func TestResolve(t *testing.T) {
	tr := mustParse(t, sorted)
	tests := []struct {
		name  string
		at    float64
		ok    bool
		id    string
		words []int
	}{
		{"start bound", 0, true, "a", []int{0}},
		{"shared word bound", 1, true, "a", []int{0, 1}},
		{"end bound", 2, true, "a", []int{1}},
		{"gap", 2.5, false, "", nil},
		{"overlapping words", 4.2, true, "b", []int{0, 1}},
		{"touching utterances pick first", 5, true, "b", []int{1}},
		{"no words", 7, true, "c", nil},
		{"before start", -1, false, "", nil},
		{"after end", 9.01, false, "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := Resolve(tr, tc.at)
			if h.OK != tc.ok || h.ID != tc.id {
				t.Fatalf("Resolve(%v) = %+v", tc.at, h)
			}
			if len(h.Words) != len(tc.words) {
				t.Fatalf("words = %v, want %v", h.Words, tc.words)
			}
			for i, w := range tc.words {
				if h.Words[i] != w || !h.WordActive(w) {
					t.Errorf("words = %v, want %v", h.Words, tc.words)
				}
			}
		})
	}
}

func TestResolveContainment(t *testing.T) {
	tr := mustParse(t, sorted)
	for i := 0; i < tr.Len(); i++ {
		u := tr.At(i)
		for at := u.Start; at <= u.End; at += 0.25 {
			h := Resolve(tr, at)
			if !h.OK {
				t.Fatalf("time %v inside %s resolved to nothing", at, u.ID)
			}
			if got := tr.At(h.Utterance); !got.Contains(at) {
				t.Errorf("time %v resolved to %s which does not contain it", at, got.ID)
			}
		}
	}
}

func TestResolveUnsortedDoesNotPanic(t *testing.T) {
	tr := mustParse(t, `{"id":"u","metadata":{"results":{"utterances":[
	  {"id":"late","start":10,"end":12},
	  {"id":"wide","start":0,"end":11},
	  {"id":"inverted","start":6,"end":1}
	]}}}`)
	if h := Resolve(tr, 10.5); h.ID != "late" {
		t.Errorf("expected first match in source order, got %+v", h)
	}
	if h := Resolve(tr, 3); h.ID != "wide" {
		t.Errorf("expected wide, got %+v", h)
	}
	if h := Resolve(nil, 3); h.OK {
		t.Error("expected no highlight for nil transcript")
	}
}

func TestResolverNotifiesOnUtteranceChange(t *testing.T) {
	tr := mustParse(t, sorted)
	var changes []Highlight
	r := NewResolver(tr, func(h Highlight) { changes = append(changes, h) })

	for _, at := range []float64{0.2, 0.7, 1.5, 2.5, 3.1, 4.9} {
		r.Observe(playback.State{CurrentTime: at})
	}
	want := []string{"a", "", "b"}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %+v", len(want), changes)
	}
	for i, id := range want {
		if changes[i].ID != id {
			t.Errorf("change %d = %q, want %q", i, changes[i].ID, id)
		}
	}
	if r.Current().ID != "b" {
		t.Errorf("unexpected current %+v", r.Current())
	}
}

func TestResolverMemoizes(t *testing.T) {
	tr := mustParse(t, sorted)
	r := NewResolver(tr, nil)
	first := r.At(1)
	first.Words[0] = 99
	if again := r.At(1); again.Words[0] != 99 {
		t.Error("expected cached highlight for identical time and transcript")
	}

	other := mustParse(t, `{"id":"t2","metadata":{"results":{"utterances":[{"id":"z","start":0,"end":3}]}}}`)
	var changed Highlight
	r = NewResolver(tr, func(h Highlight) { changed = h })
	r.Observe(playback.State{CurrentTime: 1})
	r.SetTranscript(other)
	if changed.OK {
		t.Error("expected cleared highlight on transcript swap")
	}
	if h := r.At(1); h.ID != "z" {
		t.Errorf("expected recompute against new transcript, got %+v", h)
	}
}
