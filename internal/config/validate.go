package config

import (
	"errors"
	"fmt"
	"strings"

	"chapterize/internal/chapters"
	"chapterize/internal/lexicon"
)

var validModelSizes = map[string]bool{
	"tiny":   true,
	"base":   true,
	"small":  true,
	"medium": true,
	"large":  true,
}

var validMethods = map[string]bool{
	"keyword": true,
	"silence": true,
	"hybrid":  true,
}

// Validate ensures the configuration is usable. Threshold and phrase
// validation happens here, before any detection work begins.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := &c.Detection

	if !validMethods[d.Method] {
		return fmt.Errorf("detection.method must be one of keyword, silence, hybrid (got %q)", d.Method)
	}
	if !validModelSizes[d.ModelSize] {
		return fmt.Errorf("detection.model_size must be one of tiny, base, small, medium, large (got %q)", d.ModelSize)
	}
	if _, ok := lexicon.Normalize(d.Language); !ok {
		return fmt.Errorf("detection.language %q is not supported (supported: %s)",
			d.Language, strings.Join(lexicon.Supported(), ", "))
	}
	if d.SilenceThresholdDB >= 0 || d.SilenceThresholdDB < -120 {
		return errors.New("detection.silence_threshold_db must be negative and above -120")
	}
	if d.MinSilenceSeconds <= 0 {
		return errors.New("detection.min_silence_seconds must be positive")
	}
	if d.ConfidenceFloor < 0 || d.ConfidenceFloor > 1 {
		return errors.New("detection.confidence_floor must be between 0 and 1")
	}
	if leadIn := chapters.BoundaryLeadIn.Seconds(); d.MinGapSeconds < leadIn {
		return fmt.Errorf("detection.min_gap_seconds must be at least %.0f, the boundary lead-in", leadIn)
	}
	if d.MaxTokenGapSeconds <= 0 {
		return errors.New("detection.max_token_gap_seconds must be positive")
	}
	if d.HybridMarginSeconds <= 0 {
		return errors.New("detection.hybrid_margin_seconds must be positive")
	}
	if d.HybridWorkers < 1 {
		return errors.New("detection.hybrid_workers must be at least 1")
	}
	if d.HybridFailureRatio < 0 || d.HybridFailureRatio > 1 {
		return errors.New("detection.hybrid_failure_ratio must be between 0 and 1")
	}
	for _, phrase := range d.ExtraExclusions {
		if strings.TrimSpace(phrase) == "" {
			return errors.New("detection.extra_exclusions must not contain empty phrases")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
