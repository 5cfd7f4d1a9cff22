package pcm

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// StreamEnvelope decodes the asset's primary audio through ffmpeg into mono
// 16 kHz PCM and folds it into an amplitude envelope in a single pass. The
// whole file streams through a pipe; nothing is buffered on disk.
func StreamEnvelope(ctx context.Context, ffmpegBinary, path string, hop time.Duration) (Envelope, error) {
	binary := strings.TrimSpace(ffmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if strings.TrimSpace(path) == "" {
		return Envelope{}, fmt.Errorf("pcm stream: empty path")
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", SampleRate),
		"-f", "s16le",
		"-",
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Envelope{}, fmt.Errorf("pcm stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return Envelope{}, fmt.Errorf("pcm stream: start ffmpeg: %w", err)
	}

	env, decodeErr := Decode(stdout, hop)

	if err := cmd.Wait(); err != nil {
		return Envelope{}, fmt.Errorf("pcm stream: ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if decodeErr != nil {
		return Envelope{}, decodeErr
	}
	return env, nil
}
