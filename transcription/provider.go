package transcription

import "context"

// Provider is implemented by speech-to-text backends.
type Provider interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Transcribe submits the audio at req.AudioURL and waits for the result.
	Transcribe(ctx context.Context, req Request) (*Result, error)
}
