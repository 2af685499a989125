package record

import (
	"fmt"
	"strings"
)

// AudioKey derives the object storage key of a record's audio.
type AudioKey func(r *Record) string

// FilenameKey reads the key stored at insert time. Used by the v2 detail
// route.
func FilenameKey(r *Record) string { return r.FilenameOrEmpty() }

// ExtensionKey rebuilds audio/{id}.{extension}. Used by the legacy detail
// route, which predates the filename column.
func ExtensionKey(r *Record) string { return ObjectKey(r.ID, r.Extension) }

// ObjectKey is the key uploads are stored under.
func ObjectKey(id, extension string) string {
	return fmt.Sprintf("audio/%s.%s", id, extension)
}

// ExtensionFromMIME returns the subtype of a MIME type without parameters:
// "audio/webm;codecs=opus" gives "webm". An unparsable type gives "".
func ExtensionFromMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(mimeType), "/")
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(sub))
}
