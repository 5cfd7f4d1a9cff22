package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"chapterize/internal/config"
	"chapterize/internal/detect"
	"chapterize/internal/logging"
	"chapterize/internal/services/whisper"
	"chapterize/internal/snapshot"
	"chapterize/internal/transcribe"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
	})
	return c.logger, c.loggerErr
}

// openStore opens the snapshot database at the configured path. Callers own
// the returned store and must close it.
func (c *commandContext) openStore() (*snapshot.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return snapshot.Open(cfg.Paths.SnapshotDB)
}

// newDetector wires the transcription stack and the detection pipeline for
// the given settings. The returned cleanup releases the model cache.
func (c *commandContext) newDetector(settings config.Detection) (*detect.Pipeline, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	detectCfg, err := detect.FromSettings(settings)
	if err != nil {
		return nil, nil, err
	}

	cache := whisper.NewModelCache(cfg.Paths.ModelDir)
	service := whisper.NewService(whisper.Config{
		Binary:   cfg.WhisperBinary(),
		ModelDir: cfg.Paths.ModelDir,
	}, cache)
	adapter := transcribe.NewWhisperAdapter(service, cfg.FFmpegBinary(), detectCfg.ModelSize)

	pipeline, err := detect.NewPipeline(detectCfg, adapter, cfg.FFmpegBinary(), logger)
	if err != nil {
		cache.Close()
		return nil, nil, err
	}
	return pipeline, func() { cache.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
