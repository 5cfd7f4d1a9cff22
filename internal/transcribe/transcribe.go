// Package transcribe defines the token-level transcription contract the
// detection engine consumes, decoupled from any particular speech engine.
package transcribe

import (
	"context"
	"time"

	"chapterize/internal/timecode"
)

// Token is one recognized word with timing in the asset's timeline.
type Token struct {
	Text       string
	Start      timecode.Timecode
	End        timecode.Timecode
	Confidence float64
}

// Span bounds a transcription request to a slice of the asset.
type Span struct {
	Start  timecode.Timecode
	Length time.Duration
}

// Profile selects the engine's transcription mode.
type Profile string

const (
	// ProfileFull transcribes everything, silence included.
	ProfileFull Profile = "full"
	// ProfileVADGated skips stretches without voice activity. Faster on
	// sparse audio, with the same ordering guarantees.
	ProfileVADGated Profile = "vad-gated"
)

// Request describes one transcription of a source file or a window of it.
type Request struct {
	Source   string
	Language string
	Profile  Profile
	// Window, when set, restricts transcription to that slice. Token
	// times remain relative to the whole asset.
	Window *Span
}

// Adapter produces token streams from audio. Implementations must emit
// tokens in non-decreasing start order.
type Adapter interface {
	Stream(ctx context.Context, req Request) (*TokenStream, error)
}
