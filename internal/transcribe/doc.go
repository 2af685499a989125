// Package transcribe runs the upload → transcribe → persist → analyze flow.
//
// The record is stored as soon as the engine returns. Analysis runs in the
// background with its own deadline; a failed analysis leaves the record's
// analysis column NULL and the viewer shows it as still processing.
package transcribe
