// Package logging provides structured logging for the vplan engine.
//
// It wraps log/slog with service-wide defaults: JSON or text output, level
// filtering from config.yaml, and service/version attributes on every
// record. Components derive scoped loggers with With("component", ...).
package logging
