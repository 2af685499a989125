package record

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Record is one row of the transcriptions table. Metadata holds the engine
// result verbatim; Analysis is NULL until the analysis job stores it.
type Record struct {
	ID            string         `gorm:"primaryKey;type:uuid" json:"id"`
	Extension     string         `gorm:"not null;default:''" json:"extension"`
	Transcription string         `gorm:"not null;default:''" json:"transcription"`
	Metadata      datatypes.JSON `json:"metadata"`
	Filename      *string        `json:"filename"`
	UserID        string         `gorm:"index;not null" json:"user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	Analysis      datatypes.JSON `json:"analysis"`
}

func (Record) TableName() string { return "transcriptions" }

type metadataView struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Summary struct {
			Short string `json:"short"`
		} `json:"summary"`
	} `json:"results"`
}

func (r *Record) metadata() metadataView {
	var v metadataView
	if len(r.Metadata) > 0 {
		_ = json.Unmarshal(r.Metadata, &v)
	}
	return v
}

// Text is the short summary when the engine produced one, else the raw
// transcription.
func (r *Record) Text() string {
	if s := r.metadata().Results.Summary.Short; s != "" {
		return s
	}
	return r.Transcription
}

// Duration is the audio length reported by the engine, or 0.
func (r *Record) Duration() float64 {
	return r.metadata().Metadata.Duration
}

// FilenameOrEmpty dereferences Filename.
func (r *Record) FilenameOrEmpty() string {
	if r.Filename == nil {
		return ""
	}
	return *r.Filename
}

// Analyzed reports whether a non-empty analysis is stored.
func (r *Record) Analyzed() bool {
	s := string(r.Analysis)
	return len(r.Analysis) > 0 && s != "null" && s != "{}" && s != `""`
}
