// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates seamlessly with the Fiber web framework.
//
// # Context Awareness
//
// Two correlation helpers are provided. WithRayID extracts the RayID (Request ID)
// from a Fiber context and attaches it to the log entry, so all logs belonging to
// one HTTP request can be correlated. WithRunID does the same for reconciliation
// runs: every run gets a fresh ID at start, and all lines it produces carry it.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
