// Package middleware holds the gin middleware stack: panic recovery, request
// ids, request logging, CORS, body size limits and bearer-token auth.
package middleware
