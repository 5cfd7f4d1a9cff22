package whisper

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// buildExtractArgs assembles the ffmpeg arguments that produce a mono 16 kHz
// WAV for the engine. A negative startSec extracts the whole file.
func buildExtractArgs(source string, startSec, durationSec float64, dest string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
	}
	if startSec >= 0 {
		args = append(args,
			"-ss", fmt.Sprintf("%.3f", startSec),
			"-t", fmt.Sprintf("%.3f", durationSec),
		)
	}
	args = append(args,
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", analysisChannels,
		"-ar", analysisSampleRate,
		"-c:a", "pcm_s16le",
		dest,
	)
	return args
}

// ExtractFullAudio extracts the entire audio stream from a source file into a
// mono 16 kHz WAV suitable for the engine.
func ExtractFullAudio(ctx context.Context, ffmpegBinary, source, dest string) error {
	args := buildExtractArgs(source, -1, -1, dest)
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ExtractSegment extracts a bounded time range into a mono 16 kHz WAV.
func ExtractSegment(ctx context.Context, ffmpegBinary, source string, startSec, durationSec float64, dest string) error {
	if startSec < 0 {
		return fmt.Errorf("extract segment: invalid start %.3f", startSec)
	}
	if durationSec <= 0 {
		return fmt.Errorf("extract segment: invalid duration %.3f", durationSec)
	}
	args := buildExtractArgs(source, startSec, durationSec, dest)
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract segment: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
