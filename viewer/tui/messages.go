package tui

import (
	"time"

	"github.com/zillusion/capsule/internal/listing"
	"github.com/zillusion/capsule/viewer/library"
	"github.com/zillusion/capsule/viewer/transcript"
)

// pageLoadedMsg carries a finished list load for Key.
type pageLoadedMsg struct {
	Key  library.Key
	Page *listing.Page
	Err  error
}

// transcriptLoadedMsg carries a finished detail load for ID.
type transcriptLoadedMsg struct {
	ID         string
	Transcript *transcript.Transcript
	Err        error
}

// tickMsg advances the virtual media while playing.
type tickMsg time.Time

// clearAlertMsg dismisses a transient alert.
type clearAlertMsg struct{ seq int }
