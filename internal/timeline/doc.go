// Package timeline holds the in-memory project model (videos, segments,
// notes) and compiles it into an ordered output plan with a source-to-output
// time mapping.
package timeline
