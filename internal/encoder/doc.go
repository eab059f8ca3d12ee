// Package encoder wraps the external ffmpeg binary behind a small client
// interface: per-unit clip extraction and final concatenation.
package encoder
