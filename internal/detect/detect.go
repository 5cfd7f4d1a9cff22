// Package detect is the chapter boundary detection engine: strategies that
// turn audio and transcripts into confidence-scored boundary candidates, and
// the merger that reduces them to a verified chapter timeline.
package detect

import (
	"fmt"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/lexicon"
	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// Method selects a detection strategy.
type Method string

const (
	MethodKeyword Method = "keyword"
	MethodSilence Method = "silence"
	MethodHybrid  Method = "hybrid"
)

// Candidate is one proposed split point. Many candidates may describe the
// same boundary; the merger consumes them all.
type Candidate struct {
	At         timecode.Timecode
	Source     chapters.Source
	Confidence float64
	// Label is the matched phrase, empty for silence evidence.
	Label string
}

// Confidence tiers. Silence evidence always scores below any keyword match,
// so a confirmed announcement wins every merge.
const (
	confidenceLongMatch  = 0.95
	confidenceShortMatch = 0.85
	confidenceStandalone = 0.80

	// ConfidenceSilence is the fixed tier for unconfirmed silence evidence.
	ConfidenceSilence = 0.50
)

func sourceRank(s chapters.Source) int {
	switch s {
	case chapters.SourceKeyword:
		return 2
	case chapters.SourceSilence:
		return 1
	default:
		return 0
	}
}

// Config carries the validated detection settings one run operates under.
type Config struct {
	Method    Method
	ModelSize string
	Language  string
	// VADFilter selects the voice-activity-gated transcription profile for
	// full-file passes.
	VADFilter          bool
	SilenceThresholdDB float64
	MinSilence         time.Duration
	ConfidenceFloor    float64
	MinGap             time.Duration
	MaxTokenGap        time.Duration
	ExtraExclusions    []string
	HybridStrict       bool
	HybridMargin       time.Duration
	HybridWorkers      int
	HybridFailureRatio float64
}

// FromSettings converts loaded application settings into an engine config,
// normalizing the language code.
func FromSettings(d config.Detection) (Config, error) {
	language, ok := lexicon.Normalize(d.Language)
	if !ok {
		return Config{}, services.Wrap(services.ErrConfiguration, "detect", "config",
			fmt.Sprintf("unsupported language %q", d.Language), nil)
	}
	return Config{
		Method:             Method(d.Method),
		ModelSize:          d.ModelSize,
		Language:           language,
		VADFilter:          d.VADFilter,
		SilenceThresholdDB: d.SilenceThresholdDB,
		MinSilence:         secondsToDuration(d.MinSilenceSeconds),
		ConfidenceFloor:    d.ConfidenceFloor,
		MinGap:             secondsToDuration(d.MinGapSeconds),
		MaxTokenGap:        secondsToDuration(d.MaxTokenGapSeconds),
		ExtraExclusions:    d.ExtraExclusions,
		HybridStrict:       d.HybridStrict,
		HybridMargin:       secondsToDuration(d.HybridMarginSeconds),
		HybridWorkers:      d.HybridWorkers,
		HybridFailureRatio: d.HybridFailureRatio,
	}, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Validate rejects out-of-range settings before any detection work runs.
func (c Config) Validate() error {
	fail := func(message string) error {
		return services.Wrap(services.ErrValidation, "detect", "config", message, nil)
	}
	switch c.Method {
	case MethodKeyword, MethodSilence, MethodHybrid:
	default:
		return fail(fmt.Sprintf("unknown method %q", c.Method))
	}
	if _, ok := lexicon.Normalize(c.Language); !ok {
		return fail(fmt.Sprintf("unsupported language %q", c.Language))
	}
	if c.SilenceThresholdDB >= 0 || c.SilenceThresholdDB < -120 {
		return fail(fmt.Sprintf("silence threshold %.1f dB outside (-120, 0)", c.SilenceThresholdDB))
	}
	if c.MinSilence <= 0 {
		return fail("minimum silence duration must be positive")
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fail(fmt.Sprintf("confidence floor %.2f outside [0, 1]", c.ConfidenceFloor))
	}
	// The merger trims each boundary by the lead-in; a smaller gap could
	// produce zero-length chapters next to the implicit boundaries.
	if c.MinGap < chapters.BoundaryLeadIn {
		return fail(fmt.Sprintf("minimum gap %v below boundary lead-in %v", c.MinGap, chapters.BoundaryLeadIn))
	}
	if c.MaxTokenGap <= 0 {
		return fail("maximum token gap must be positive")
	}
	if c.Method == MethodHybrid {
		if c.HybridMargin <= 0 {
			return fail("hybrid margin must be positive")
		}
		if c.HybridWorkers < 1 {
			return fail("hybrid workers must be at least 1")
		}
		if c.HybridFailureRatio < 0 || c.HybridFailureRatio > 1 {
			return fail(fmt.Sprintf("hybrid failure ratio %.2f outside [0, 1]", c.HybridFailureRatio))
		}
	}
	return nil
}
