// Package api registers capsule's transcription routes on a gin router.
// Every route expects middleware.Auth to have run.
package api
