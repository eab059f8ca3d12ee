// Package projectstore persists the project document and imports source
// recordings into the project directory.
package projectstore
