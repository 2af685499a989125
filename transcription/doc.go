// Package transcription defines the speech-to-text provider boundary.
//
// Providers take a URL the engine can fetch the audio from and return the
// plain transcript together with the engine's raw JSON result, which is
// stored verbatim as the record's metadata.
//
// # Backends
//
//   - transcription/deepgram: Deepgram prerecorded listen API
package transcription
