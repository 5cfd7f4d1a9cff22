// Package whisper wraps an external Whisper-style speech recognition CLI.
// It extracts analysis audio with ffmpeg, runs the engine against whole files
// or bounded segments, and parses the word-timed JSON output. Loaded model
// handles are shared through a process-wide ModelCache.
package whisper
