// Package server runs the gin HTTP server, its middleware stack and the
// system endpoints, and adapts it to the component lifecycle.
package server
