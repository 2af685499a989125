// Package transcript holds the time-indexed transcript a viewer renders:
// utterances with word timings, read once per fetch and never mutated.
package transcript

import (
	"encoding/json"
	"fmt"
	"time"
)

// Word is one timed word. Text is the punctuated form when the engine
// produced one.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Utterance is one speaker turn.
type Utterance struct {
	ID      string
	Speaker int
	Start   float64
	End     float64
	Words   []Word
}

// Contains reports whether t falls inside the utterance, bounds included.
func (u Utterance) Contains(t float64) bool { return u.Start <= t && t <= u.End }

// Transcript is the parsed detail payload of one record.
type Transcript struct {
	ID           string
	CreatedAt    time.Time
	AudioURL     string
	SummaryShort string
	Demo         bool

	utterances    []Utterance
	hasUtterances bool
	analysis      *Analysis
}

// MalformedTranscriptError reports a payload that lacks data a view
// requires. Callers render a loading state instead of failing.
type MalformedTranscriptError struct {
	ID     string
	Reason string
}

func (e *MalformedTranscriptError) Error() string {
	return fmt.Sprintf("transcript %s: %s", e.ID, e.Reason)
}

// wire mirrors the detail response.
type wire struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	AudioURL  string          `json:"audioUrl"`
	Demo      bool            `json:"demo"`
	Metadata  json.RawMessage `json:"metadata"`
	Analysis  json.RawMessage `json:"analysis"`
}

type wireMetadata struct {
	Results struct {
		Summary struct {
			Short string `json:"short"`
		} `json:"summary"`
		Utterances *[]wireUtterance `json:"utterances"`
	} `json:"results"`
}

type wireUtterance struct {
	ID      string     `json:"id"`
	Speaker *int       `json:"speaker"`
	Start   float64    `json:"start"`
	End     float64    `json:"end"`
	Words   []wireWord `json:"words"`
}

type wireWord struct {
	Word           string  `json:"word"`
	PunctuatedWord string  `json:"punctuated_word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
}

// Parse decodes a detail response body. Metadata and analysis that do not
// decode are treated as absent so partially processed records still load.
func Parse(payload []byte) (*Transcript, error) {
	var w wire
	if err := json.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("transcript: decode: %w", err)
	}
	t := &Transcript{
		ID:        w.ID,
		CreatedAt: w.CreatedAt,
		AudioURL:  w.AudioURL,
		Demo:      w.Demo,
	}
	t.setMetadata(w.Metadata)
	t.analysis = parseAnalysis(w.Analysis)
	return t, nil
}

// FromRecord builds a transcript from stored columns.
func FromRecord(id string, createdAt time.Time, metadata, analysis json.RawMessage) *Transcript {
	t := &Transcript{ID: id, CreatedAt: createdAt}
	t.setMetadata(metadata)
	t.analysis = parseAnalysis(analysis)
	return t
}

func (t *Transcript) setMetadata(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var m wireMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return
	}
	t.SummaryShort = m.Results.Summary.Short
	if m.Results.Utterances == nil {
		return
	}
	t.hasUtterances = true
	t.utterances = make([]Utterance, 0, len(*m.Results.Utterances))
	for _, wu := range *m.Results.Utterances {
		u := Utterance{ID: wu.ID, Start: wu.Start, End: wu.End}
		if wu.Speaker != nil {
			u.Speaker = *wu.Speaker
		}
		u.Words = make([]Word, len(wu.Words))
		for i, ww := range wu.Words {
			text := ww.PunctuatedWord
			if text == "" {
				text = ww.Word
			}
			u.Words[i] = Word{Text: text, Start: ww.Start, End: ww.End}
		}
		t.utterances = append(t.utterances, u)
	}
}

// Utterances returns a copy of the utterances in source order.
func (t *Transcript) Utterances() []Utterance {
	out := make([]Utterance, len(t.utterances))
	for i, u := range t.utterances {
		u.Words = append([]Word(nil), u.Words...)
		out[i] = u
	}
	return out
}

// Len is the number of utterances.
func (t *Transcript) Len() int { return len(t.utterances) }

// At returns utterance i without copying its words. Callers must not modify
// the returned Words slice.
func (t *Transcript) At(i int) Utterance { return t.utterances[i] }

// UtteranceByIndex returns utterance i, used to link analysis entries back
// to the transcript.
func (t *Transcript) UtteranceByIndex(i int) (Utterance, bool) {
	if i < 0 || i >= len(t.utterances) {
		return Utterance{}, false
	}
	return t.At(i), true
}

// HasMultipleSpeakers is true when any utterance belongs to speaker 1.
func (t *Transcript) HasMultipleSpeakers() bool {
	for _, u := range t.utterances {
		if u.Speaker == 1 {
			return true
		}
	}
	return false
}

// RequireUtterances fails when the engine result carried no utterances.
func (t *Transcript) RequireUtterances() error {
	if !t.hasUtterances {
		return &MalformedTranscriptError{ID: t.ID, Reason: "missing utterances"}
	}
	return nil
}

// Processed reports whether an analysis with entries is stored.
func (t *Transcript) Processed() bool {
	return t.analysis != nil && len(t.analysis.Entries) > 0
}

// Analysis returns the stored analysis, or nil when none is present.
func (t *Transcript) Analysis() *Analysis { return t.analysis }
