// Package logger provides structured logging on top of zerolog.
//
// A Logger carries the service name and any scoped fields. Components take a
// *Logger in their constructor and derive a scoped child with WithComponent.
//
//	log := logger.New(&cfg.Logging, "capsule").WithComponent("listing")
//	log.Info("page served", logger.Fields("page", 1, "items", 20))
package logger
