// Package logging centralizes slog construction and the typed attribute
// helpers used throughout the codebase.
package logging
