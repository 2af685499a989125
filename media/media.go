// Package media holds the recording formats capsule accepts.
package media

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

const (
	MP4  = "audio/mp4"
	M4A  = "audio/x-m4a"
	WebM = "audio/webm"
)

// MaxRecording is the longest recording a client may upload.
const MaxRecording = 300 * time.Second

// Preferred lists recording formats best first. WebM is the fallback every
// recorder supports.
var Preferred = []string{MP4, M4A, WebM}

// SelectMIME returns the first preferred format the recorder supports, or
// WebM when it reports none.
func SelectMIME(supported func(mimeType string) bool) string {
	for _, m := range Preferred {
		if supported != nil && supported(m) {
			return m
		}
	}
	return WebM
}

// Base strips parameters and lower-cases a MIME type.
func Base(mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// Allowed reports whether mimeType is one of the preferred formats,
// ignoring parameters such as codecs.
func Allowed(mimeType string) bool {
	base := Base(mimeType)
	for _, m := range Preferred {
		if base == m {
			return true
		}
	}
	return false
}

// FileExtension maps a recording format to its file extension: MP4 and
// M4A recordings are stored as m4a, everything else as webm.
func FileExtension(mimeType string) string {
	switch Base(mimeType) {
	case MP4, M4A:
		return "m4a"
	default:
		return "webm"
	}
}

// RecordingName is the object key for a direct upload:
// recording-{unix millis}-{user}.{ext}.
func RecordingName(now time.Time, userID, mimeType string) string {
	return fmt.Sprintf("recording-%d-%s.%s", now.UnixMilli(), userID, FileExtension(mimeType))
}

// OwnedBy reports whether key was issued by RecordingName for userID. The
// extension, when present, must not contain further dots or slashes.
func OwnedBy(key, userID string) bool {
	if userID == "" {
		return false
	}
	rest, ok := strings.CutPrefix(key, "recording-")
	if !ok {
		return false
	}
	millis, rest, ok := strings.Cut(rest, "-")
	if !ok || millis == "" || strings.Trim(millis, "0123456789") != "" {
		return false
	}
	if rest == userID {
		return true
	}
	ext, ok := strings.CutPrefix(rest, userID+".")
	return ok && ext != "" && !strings.ContainsAny(ext, "./")
}

// TypeByExtension guesses a recording format from a file name's extension.
// It returns "" for anything but m4a, mp4 and webm files.
func TypeByExtension(ext string) string {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "m4a":
		return M4A
	case "mp4":
		return MP4
	case "webm":
		return WebM
	default:
		return ""
	}
}
