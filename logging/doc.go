// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that agents, tools, the crew and the HTTP layer use. This
// package includes:
//
//   - Logger interface for dependency injection
//   - ZapAdapter wrapping go.uber.org/zap (used by cmd/eventcrew)
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil { ... }
//	defer logger.Sync()
package logging
