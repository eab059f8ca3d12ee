// Package services provides shared error classification helpers used across
// the export pipeline.
package services
