// Package asset models the audio file under detection and probes its
// container properties through ffprobe.
package asset

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"chapterize/internal/media/ffprobe"
	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// Container classifies the asset's container kind.
type Container string

const (
	// ContainerPlain is a plain audio container without chapter atoms (mp3, flac, ...).
	ContainerPlain Container = "plain"
	// ContainerChaptered is an MPEG-4 family container that can carry
	// embedded chapter markers (m4b, m4a, mp4).
	ContainerChaptered Container = "chaptered"
)

// Asset describes one audio file for the lifetime of a detection run.
// Immutable once probed.
type Asset struct {
	Path       string
	Duration   timecode.Timecode
	SampleRate int
	Channels   int
	Container  Container

	// EmbeddedChapters carries the raw container chapter markers found
	// during probing, if any.
	EmbeddedChapters []ffprobe.Chapter
	// Tags carries container-level metadata for downstream splitting.
	Tags map[string]string
}

// ChapterCapable reports whether the container kind can hold embedded
// chapter markers.
func (a *Asset) ChapterCapable() bool {
	return a.Container == ContainerChaptered
}

// SupportedExtensions lists the input formats accepted for detection.
var SupportedExtensions = []string{".mp3", ".m4b", ".m4a"}

var chapteredExtensions = map[string]bool{
	".m4b": true,
	".m4a": true,
	".mp4": true,
}

// Supported reports whether the file extension is an accepted input format.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Probe inspects the file and builds an immutable Asset. An inspection
// failure is a collaborator failure; a file with no audio stream or no
// duration is malformed input.
func Probe(ctx context.Context, ffprobeBinary, path string) (*Asset, error) {
	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "asset", "probe", "container inspection failed", err)
	}
	return fromResult(path, result)
}

// FromProbeResult builds an Asset from an already-obtained inspection result.
func FromProbeResult(path string, result ffprobe.Result) (*Asset, error) {
	return fromResult(path, result)
}

func fromResult(path string, result ffprobe.Result) (*Asset, error) {
	duration := result.DurationSeconds()
	if duration <= 0 {
		return nil, services.Wrap(services.ErrValidation, "asset", "probe", "container reports no duration", nil)
	}
	stream, ok := result.PrimaryAudioStream()
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "asset", "probe", "no audio stream found", nil)
	}

	container := ContainerPlain
	if chapteredExtensions[strings.ToLower(filepath.Ext(path))] {
		container = ContainerChaptered
	}

	return &Asset{
		Path:             path,
		Duration:         timecode.FromSeconds(duration),
		SampleRate:       result.SampleRate(),
		Channels:         stream.Channels,
		Container:        container,
		EmbeddedChapters: result.Chapters,
		Tags:             result.Format.Tags,
	}, nil
}

// WindowAround clips a window of ±margin around a center position to the
// asset bounds and returns its start and length.
func (a *Asset) WindowAround(center timecode.Timecode, margin time.Duration) (start timecode.Timecode, length time.Duration) {
	start = center.Sub(margin)
	end := center.Add(margin)
	if end.After(a.Duration) {
		end = a.Duration
	}
	return start, end.Distance(start)
}
