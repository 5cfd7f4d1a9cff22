// Package ffprobe wraps the ffprobe binary for container inspection: stream
// layout, duration, and embedded chapter markers.
package ffprobe
