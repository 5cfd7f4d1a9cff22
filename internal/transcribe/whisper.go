package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"chapterize/internal/services"
	"chapterize/internal/services/whisper"
	"chapterize/internal/timecode"
)

// WhisperAdapter streams tokens from the external whisper engine. The engine
// works on whole files, so a Stream call runs one transcription and hands the
// result out through the pull contract.
type WhisperAdapter struct {
	service   *whisper.Service
	ffmpeg    string
	modelSize string

	// extractSegment and extractFull are replaceable in tests.
	extractSegment func(ctx context.Context, ffmpegBinary, source string, startSec, durationSec float64, dest string) error
	extractFull    func(ctx context.Context, ffmpegBinary, source, dest string) error
	transcribe     func(ctx context.Context, audioPath string, opts whisper.TranscribeOptions) (*whisper.Transcript, error)
}

// NewWhisperAdapter builds an adapter over a shared whisper service.
func NewWhisperAdapter(service *whisper.Service, ffmpegBinary, modelSize string) *WhisperAdapter {
	return &WhisperAdapter{
		service:        service,
		ffmpeg:         ffmpegBinary,
		modelSize:      modelSize,
		extractSegment: whisper.ExtractSegment,
		extractFull:    whisper.ExtractFullAudio,
		transcribe:     service.Transcribe,
	}
}

// Stream transcribes the requested source or window and returns its tokens.
// Collaborator failures carry ErrExternalTool.
func (a *WhisperAdapter) Stream(ctx context.Context, req Request) (*TokenStream, error) {
	workDir, err := os.MkdirTemp("", "chapterize-transcribe-")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "stream", "create workspace", err)
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "analysis.wav")
	var offset timecode.Timecode
	if req.Window != nil {
		offset = req.Window.Start
		err = a.extractSegment(ctx, a.ffmpeg, req.Source, req.Window.Start.Seconds(), req.Window.Length.Seconds(), audioPath)
	} else {
		err = a.extractFull(ctx, a.ffmpeg, req.Source, audioPath)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "stream", "audio extraction failed", err)
	}

	transcript, err := a.transcribe(ctx, audioPath, whisper.TranscribeOptions{
		Language:  req.Language,
		ModelSize: a.modelSize,
		VADFilter: req.Profile == ProfileVADGated,
		WorkDir:   workDir,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "stream", "speech engine failed", err)
	}

	return NewTokenStream(tokensFromTranscript(transcript, offset)), nil
}

// tokensFromTranscript flattens word timings into asset-relative tokens.
func tokensFromTranscript(transcript *whisper.Transcript, offset timecode.Timecode) []Token {
	shift := time.Duration(offset.Millis()) * time.Millisecond
	var tokens []Token
	for _, segment := range transcript.Segments {
		for _, word := range segment.Words {
			tokens = append(tokens, Token{
				Text:       word.Text,
				Start:      timecode.FromSeconds(word.Start).Add(shift),
				End:        timecode.FromSeconds(word.End).Add(shift),
				Confidence: word.Probability,
			})
		}
	}
	return tokens
}
