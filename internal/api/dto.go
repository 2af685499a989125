package api

import "github.com/zillusion/capsule/internal/record"

// DetailResponse is a stored record plus the fields the viewer needs.
type DetailResponse struct {
	record.Record
	Demo     bool   `json:"demo,omitempty"`
	AudioURL string `json:"audioUrl"`
}

// StartRequest names an object uploaded through a presigned URL. UserID is
// accepted for older clients but the token subject always wins.
type StartRequest struct {
	Key    string `json:"key" validate:"required"`
	UserID string `json:"userId"`
}

type StartResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// UploadURLRequest asks for a presigned PUT. DurationSeconds is the length
// of the finished recording and must be within media.MaxRecording.
type UploadURLRequest struct {
	ContentType     string  `json:"contentType" validate:"required"`
	DurationSeconds float64 `json:"durationSeconds" validate:"required,gt=0,max=300"`
}

const transcriptionSuccessful = "Transcription successful"
