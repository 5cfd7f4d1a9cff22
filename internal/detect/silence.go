package detect

import (
	"log/slog"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/media/pcm"
	"chapterize/internal/timecode"
)

// Interval is one maximal quiet run in the amplitude envelope.
type Interval struct {
	Start timecode.Timecode
	End   timecode.Timecode
}

// Midpoint returns the interval's center.
func (iv Interval) Midpoint() timecode.Timecode {
	return timecode.FromMillis((iv.Start.Millis() + iv.End.Millis()) / 2)
}

// Duration returns the interval's length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Distance(iv.Start)
}

// SilenceDetector finds quiet runs in an amplitude envelope. Silence alone
// is weak evidence, so its candidates score at the fixed silence tier.
type SilenceDetector struct {
	thresholdDB float64
	minSilence  time.Duration
	logger      *slog.Logger
}

// NewSilenceDetector builds a detector for a dBFS threshold and minimum run
// length.
func NewSilenceDetector(thresholdDB float64, minSilence time.Duration, logger *slog.Logger) *SilenceDetector {
	return &SilenceDetector{
		thresholdDB: thresholdDB,
		minSilence:  minSilence,
		logger:      logging.NewComponentLogger(logger, "silence-detector"),
	}
}

// Intervals scans the envelope once, left to right, and returns every
// maximal run at or below the threshold lasting at least the minimum.
func (d *SilenceDetector) Intervals(env pcm.Envelope) []Interval {
	hop := env.Hop
	if hop <= 0 {
		hop = pcm.DefaultHop
	}

	var intervals []Interval
	runStart := -1
	flush := func(endIdx int) {
		if runStart < 0 {
			return
		}
		start := timecode.FromDuration(time.Duration(runStart) * hop)
		end := timecode.FromDuration(time.Duration(endIdx) * hop)
		if end.Distance(start) >= d.minSilence {
			intervals = append(intervals, Interval{Start: start, End: end})
		}
		runStart = -1
	}

	for i, level := range env.Levels {
		if level <= d.thresholdDB {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(env.Levels))

	d.logger.Debug("silence scan complete",
		logging.Int("hops", len(env.Levels)),
		logging.Int("intervals", len(intervals)))
	return intervals
}

// Scan returns one silence-tier candidate at the midpoint of each qualifying
// interval.
func (d *SilenceDetector) Scan(env pcm.Envelope) []Candidate {
	intervals := d.Intervals(env)
	candidates := make([]Candidate, 0, len(intervals))
	for _, iv := range intervals {
		candidates = append(candidates, Candidate{
			At:         iv.Midpoint(),
			Source:     chapters.SourceSilence,
			Confidence: ConfidenceSilence,
		})
	}
	return candidates
}
