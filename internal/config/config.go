package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir    string `toml:"work_dir" env:"CHAPTERIZE_WORK_DIR"`
	LogDir     string `toml:"log_dir" env:"CHAPTERIZE_LOG_DIR"`
	ModelDir   string `toml:"model_dir" env:"CHAPTERIZE_MODEL_DIR"`
	SnapshotDB string `toml:"snapshot_db" env:"CHAPTERIZE_SNAPSHOT_DB"`
}

// Tools contains external binary locations. Empty values resolve from PATH.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg" env:"CHAPTERIZE_FFMPEG"`
	FFprobe string `toml:"ffprobe" env:"CHAPTERIZE_FFPROBE"`
	Whisper string `toml:"whisper" env:"CHAPTERIZE_WHISPER"`
}

// Detection contains the chapter boundary detection settings.
type Detection struct {
	// Method selects the strategy when embedded chapters are absent:
	// "keyword", "silence", or "hybrid".
	Method string `toml:"method" env:"CHAPTERIZE_METHOD"`
	// ModelSize selects the speech model profile (tiny/base/small/medium/large).
	ModelSize string `toml:"model_size" env:"CHAPTERIZE_MODEL_SIZE"`
	// Language is the narration language (code or full word).
	Language string `toml:"language" env:"CHAPTERIZE_LANGUAGE"`
	// VADFilter gates full-file transcription on voice activity, skipping
	// long stretches without speech.
	VADFilter bool `toml:"vad_filter" env:"CHAPTERIZE_VAD_FILTER"`
	// SilenceThresholdDB is the dBFS level at or below which audio counts as
	// silent. Must be negative.
	SilenceThresholdDB float64 `toml:"silence_threshold_db"`
	// MinSilenceSeconds is the minimum quiet run length that yields a
	// boundary candidate.
	MinSilenceSeconds float64 `toml:"min_silence_seconds"`
	// ConfidenceFloor discards candidates scoring below it before merging.
	ConfidenceFloor float64 `toml:"confidence_floor"`
	// MinGapSeconds merges candidates closer together than this. Must be at
	// least the one-second boundary lead-in.
	MinGapSeconds float64 `toml:"min_gap_seconds"`
	// MaxTokenGapSeconds prevents keyword matches from spanning token gaps
	// larger than this.
	MaxTokenGapSeconds float64 `toml:"max_token_gap_seconds"`
	// ExtraExclusions extends the built-in per-language exclusion phrases.
	ExtraExclusions []string `toml:"extra_exclusions"`
	// HybridStrict drops silence intervals that lack keyword confirmation
	// instead of keeping them as low-confidence generic chapters.
	HybridStrict bool `toml:"hybrid_strict"`
	// HybridMarginSeconds is the half-width of the transcription window
	// around each silence interval midpoint.
	HybridMarginSeconds float64 `toml:"hybrid_margin_seconds"`
	// HybridWorkers bounds the parallel window transcriptions.
	HybridWorkers int `toml:"hybrid_workers"`
	// HybridFailureRatio is the fraction of window failures above which the
	// whole hybrid run fails rather than dropping individual windows.
	HybridFailureRatio float64 `toml:"hybrid_failure_ratio"`
	// UseEmbedded uses embedded container chapters without prompting.
	UseEmbedded bool `toml:"use_embedded" env:"CHAPTERIZE_USE_EMBEDDED"`
}

// Cue contains cue-sheet generation settings.
type Cue struct {
	Generate bool   `toml:"generate"`
	Path     string `toml:"path"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format" env:"CHAPTERIZE_LOG_FORMAT"`
	Level  string `toml:"level" env:"CHAPTERIZE_LOG_LEVEL"`
}

// Config encapsulates all configuration values for chapterize.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Detection Detection `toml:"detection"`
	Cue       Cue       `toml:"cue"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/chapterize/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// variables override file values. The returned path is where the config was
// read from (or would be created), and exists reports whether a file was
// found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, "", false, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the work, log, and model directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.ModelDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	if c.Paths.SnapshotDB != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.SnapshotDB), 0o755); err != nil {
			return fmt.Errorf("ensure snapshot directory: %w", err)
		}
	}
	return nil
}

// FFmpegBinary returns the configured ffmpeg command.
func (c *Config) FFmpegBinary() string {
	if v := strings.TrimSpace(c.Tools.FFmpeg); v != "" {
		return v
	}
	return "ffmpeg"
}

// FFprobeBinary returns the configured ffprobe command.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Tools.FFprobe); v != "" {
		return v
	}
	return "ffprobe"
}

// WhisperBinary returns the configured speech engine command.
func (c *Config) WhisperBinary() string {
	if v := strings.TrimSpace(c.Tools.Whisper); v != "" {
		return v
	}
	return "whisper"
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("chapterize.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves ~ and relative segments in a user-supplied path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
