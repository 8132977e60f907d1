// Package logging assembles the structured slog loggers used across
// ttsdeck components.
//
// It centralizes level parsing, output plumbing, and attribute helpers so
// the render pipeline, card database, and CLI emit log lines with the same
// shape. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
