// Package logging configures structured slog output for the CLI and the
// detection engine, with standardized field names and context-derived
// attributes shared across components.
package logging
