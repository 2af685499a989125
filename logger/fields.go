package logger

import "time"

// Field keys shared by every component.
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldUserID       = "user_id"
	FieldRecordID     = "record_id"
	FieldObjectKey    = "object_key"
	FieldOperation    = "operation"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldPage         = "page"
	FieldLimit        = "limit"
	FieldUpstream     = "upstream"
	FieldTraceID      = "trace_id"
	FieldTranscriptID = "transcript_id"
)

// Fields builds a field map from alternating key-value pairs.
// A trailing key without a value is dropped.
//
//	log.Info("stored", logger.Fields("id", id, "bytes", n))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	m := map[string]interface{}{FieldOperation: op}
	if err != nil {
		m[FieldError] = err.Error()
	}
	return m
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
