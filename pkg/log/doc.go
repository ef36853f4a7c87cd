// Package log provides the logging abstraction used by companion components.
//
// Components depend only on the [Logger] interface. A zerolog-backed
// implementation is provided for the CLI and embedders, and a no-op logger
// for tests:
//
//	logger := log.NewZerologAdapter(log.LevelInfo)
//	logger = log.NewNoopLogger()
//
// Implement [Logger] to route companion logs into an existing logging
// setup.
package log
