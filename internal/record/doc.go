// Package record persists transcription records in the transcriptions table.
package record
