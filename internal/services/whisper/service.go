package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TranscribeOptions direct one engine invocation.
type TranscribeOptions struct {
	Language  string
	ModelSize string
	// VADFilter gates transcription on voice activity so long silent
	// stretches are skipped by the engine.
	VADFilter bool
	// WorkDir receives the engine's JSON output. A temporary directory is
	// used when empty.
	WorkDir string
}

// Service runs the external speech engine and parses its output. All word
// and segment times are relative to the audio file handed in.
type Service struct {
	cfg   Config
	cache *ModelCache

	// commandRunner is replaceable in tests.
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService builds a Service sharing models through the given cache.
func NewService(cfg Config, cache *ModelCache) *Service {
	return &Service{
		cfg:   cfg,
		cache: cache,
		commandRunner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
			return cmd.CombinedOutput()
		},
	}
}

// Binary returns the engine command to invoke.
func (s *Service) Binary() string {
	if s.cfg.Binary != "" {
		return s.cfg.Binary
	}
	return DefaultBinary
}

// Transcribe runs the engine against audioPath and returns the word-timed
// transcript.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (*Transcript, error) {
	model, err := s.cache.Acquire(opts.Language, opts.ModelSize)
	if err != nil {
		return nil, err
	}

	workDir := opts.WorkDir
	if workDir == "" {
		dir, err := os.MkdirTemp("", "chapterize-whisper-")
		if err != nil {
			return nil, fmt.Errorf("create transcription workspace: %w", err)
		}
		defer os.RemoveAll(dir)
		workDir = dir
	}

	args := buildTranscribeArgs(audioPath, model, opts, workDir)
	output, err := s.commandRunner(ctx, s.Binary(), args...)
	if err != nil {
		return nil, fmt.Errorf("speech engine: %w: %s", err, strings.TrimSpace(string(output)))
	}

	resultPath := outputPath(workDir, audioPath)
	payload, err := os.ReadFile(resultPath) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("read transcription output: %w", err)
	}
	return parseTranscript(payload)
}

// buildTranscribeArgs assembles the engine command line.
func buildTranscribeArgs(audioPath string, model Model, opts TranscribeOptions, workDir string) []string {
	args := []string{
		audioPath,
		"--model", model.Name(),
		"--language", opts.Language,
		"--output_format", OutputFormat,
		"--output_dir", workDir,
		"--word_timestamps", "True",
		"--verbose", "False",
	}
	if opts.VADFilter {
		args = append(args, "--vad_filter", "True")
	}
	return args
}

// outputPath locates the JSON the engine writes next to the work directory.
func outputPath(workDir, audioPath string) string {
	base := filepath.Base(audioPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(workDir, stem+".json")
}
