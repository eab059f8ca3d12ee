// Package ffprobe wraps the ffprobe binary to read duration, frame rate, and
// rotation from source recordings.
package ffprobe
