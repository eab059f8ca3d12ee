// Package journal records export run history in a local SQLite database so
// past runs and their per-unit outcomes can be inspected after the fact.
package journal
