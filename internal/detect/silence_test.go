package detect

import (
	"testing"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/media/pcm"
)

// envelopeOf builds a 100ms-hop envelope from per-hop dBFS levels.
func envelopeOf(levels ...float64) pcm.Envelope {
	return pcm.Envelope{Hop: 100 * time.Millisecond, Levels: levels}
}

// hops repeats a level n times.
func hops(level float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = level
	}
	return out
}

func TestSilenceIntervals(t *testing.T) {
	detector := NewSilenceDetector(-40, 2*time.Second, logging.NewNop())

	// 3s speech, 2.5s silence, 4s speech, 1s silence (too short), 2s
	// silence trailing to the end.
	var levels []float64
	levels = append(levels, hops(-20, 30)...)
	levels = append(levels, hops(-55, 25)...)
	levels = append(levels, hops(-18, 40)...)
	levels = append(levels, hops(-50, 10)...)
	levels = append(levels, hops(-15, 5)...)
	levels = append(levels, hops(-60, 20)...)

	intervals := detector.Intervals(envelopeOf(levels...))
	if len(intervals) != 2 {
		t.Fatalf("intervals = %d, want 2", len(intervals))
	}
	if intervals[0].Start.Seconds() != 3.0 || intervals[0].End.Seconds() != 5.5 {
		t.Errorf("interval 0 = [%v, %v]", intervals[0].Start.Seconds(), intervals[0].End.Seconds())
	}
	// Trailing run is closed at the envelope end.
	if intervals[1].Start.Seconds() != 11.0 || intervals[1].End.Seconds() != 13.0 {
		t.Errorf("interval 1 = [%v, %v]", intervals[1].Start.Seconds(), intervals[1].End.Seconds())
	}
}

func TestSilenceThresholdIsInclusive(t *testing.T) {
	detector := NewSilenceDetector(-40, time.Second, logging.NewNop())
	intervals := detector.Intervals(envelopeOf(hops(-40, 15)...))
	if len(intervals) != 1 {
		t.Fatalf("level exactly at threshold should count as silent, got %d intervals", len(intervals))
	}
}

func TestSilenceScanCandidates(t *testing.T) {
	detector := NewSilenceDetector(-40, 2*time.Second, logging.NewNop())
	var levels []float64
	levels = append(levels, hops(-20, 30)...)
	levels = append(levels, hops(-55, 30)...)
	levels = append(levels, hops(-20, 30)...)

	candidates := detector.Scan(envelopeOf(levels...))
	if len(candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(candidates))
	}
	c := candidates[0]
	// Run covers [3.0, 6.0]; midpoint 4.5.
	if c.At.Seconds() != 4.5 {
		t.Errorf("At = %v, want 4.5", c.At.Seconds())
	}
	if c.Source != chapters.SourceSilence || c.Confidence != ConfidenceSilence || c.Label != "" {
		t.Errorf("candidate = %+v", c)
	}
}

func TestSilenceNoQualifyingRuns(t *testing.T) {
	detector := NewSilenceDetector(-40, 2*time.Second, logging.NewNop())
	if candidates := detector.Scan(envelopeOf(hops(-20, 100)...)); len(candidates) != 0 {
		t.Errorf("candidates = %+v, want none", candidates)
	}
	if candidates := detector.Scan(envelopeOf()); len(candidates) != 0 {
		t.Errorf("empty envelope candidates = %+v, want none", candidates)
	}
}
