package transcription

import "encoding/json"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioURL must be fetchable by the engine, typically a presigned GET.
	AudioURL string `json:"audio_url"`
	// Language overrides the provider default (e.g. "en-US").
	Language string `json:"language,omitempty"`
	// Model overrides the provider default.
	Model string `json:"model,omitempty"`
}

// Result is a finished transcription.
type Result struct {
	// Transcript is the flat text of the first channel's best alternative.
	Transcript string `json:"transcript"`
	// Raw is the engine response, kept unmodified.
	Raw json.RawMessage `json:"raw"`
	// Duration is the audio length in seconds when the engine reports it.
	Duration float64 `json:"duration,omitempty"`
}

// Utterance is one diarized turn from an engine result.
type Utterance struct {
	Channel    int     `json:"channel"`
	Speaker    int     `json:"speaker"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Transcript string  `json:"transcript"`
}

// Utterances extracts results.utterances from a stored engine result.
// A result without utterances yields an empty slice.
func Utterances(raw json.RawMessage) ([]Utterance, error) {
	var doc struct {
		Results struct {
			Utterances []Utterance `json:"utterances"`
		} `json:"results"`
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Results.Utterances, nil
}
