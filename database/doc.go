// Package database opens the relational store behind transcription records.
//
// It wraps GORM with connection retries, pool settings, a zerolog-backed query
// logger and error translation into AppErrors. The dialect is chosen by
// Config.Driver: "postgres" for deployments, "sqlite" for local runs and tests.
// Versioned schema changes live in the migration subpackage.
package database
