package whisper

// Config captures runtime settings for speech engine invocations.
type Config struct {
	// Binary is the engine command; resolved from PATH when empty.
	Binary string
	// ModelDir is where local model files live. When a model cannot be
	// found locally the engine is handed the bare size name and resolves
	// it itself.
	ModelDir string
}

// Engine invocation constants.
const (
	DefaultBinary = "whisper"
	FFmpegCommand = "ffmpeg"

	// OutputFormat requests word-timed JSON from the engine.
	OutputFormat = "json"

	// analysisSampleRate and analysisChannels describe the WAV handed to
	// the engine.
	analysisSampleRate = "16000"
	analysisChannels   = "1"
)
