// Package errors defines the AppError type shared by the HTTP layer, the
// persistence layer and the API client. An AppError carries a machine code,
// the message shown to users, the HTTP status it maps to and an optional cause.
package errors
