package detect

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/lexicon"
	"chapterize/internal/logging"
	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// Merger reduces boundary candidates from any strategy to a verified chapter
// list.
type Merger struct {
	confidenceFloor float64
	minGap          time.Duration
	language        string
	logger          *slog.Logger
}

// NewMerger wires the merger from a validated config.
func NewMerger(cfg Config, logger *slog.Logger) *Merger {
	return &Merger{
		confidenceFloor: cfg.ConfidenceFloor,
		minGap:          cfg.MinGap,
		language:        cfg.Language,
		logger:          logging.NewComponentLogger(logger, "merger"),
	}
}

// Merge filters, sorts, and deduplicates candidates, places the implicit
// boundaries at zero and the asset duration, applies the lead-in trim, and
// verifies every structural invariant. Zero surviving candidates is a
// no-signal failure; a verification failure is an internal defect and is
// never corrected.
func (m *Merger) Merge(candidates []Candidate, duration timecode.Timecode) (chapters.List, error) {
	winners := m.reduce(candidates, duration)
	if len(winners) == 0 {
		return nil, services.Wrap(services.ErrNoSignal, "detect", "merge",
			"no candidates survived filtering", nil)
	}

	list := buildChapters(winners, duration, m.language)
	if err := list.Verify(duration); err != nil {
		return nil, err
	}

	m.logger.Debug("merge complete",
		logging.Int("candidates", len(candidates)),
		logging.Int("chapters", len(list)))
	return list, nil
}

// reduce drops candidates below the floor, sorts by timestamp, merges groups
// within the minimum gap keeping the highest confidence (tie-break keyword
// over silence over anything else), and discards boundaries too close to the
// implicit ones at zero and the asset end.
func (m *Merger) reduce(candidates []Candidate, duration timecode.Timecode) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence < m.confidenceFloor {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].At.Before(kept[j].At)
	})

	var winners []Candidate
	for _, c := range kept {
		if len(winners) == 0 {
			winners = append(winners, c)
			continue
		}
		last := &winners[len(winners)-1]
		if c.At.Distance(last.At) <= m.minGap {
			if stronger(c, *last) {
				*last = c
			}
			continue
		}
		winners = append(winners, c)
	}

	bounded := winners[:0]
	for _, c := range winners {
		if c.At.Distance(timecode.Zero()) <= m.minGap {
			continue
		}
		if c.At.Distance(duration) <= m.minGap || c.At.After(duration) {
			continue
		}
		bounded = append(bounded, c)
	}
	return bounded
}

func stronger(a, b Candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return sourceRank(a.Source) > sourceRank(b.Source)
}

// buildChapters turns interior boundaries into the final timeline. Each
// boundary starts a chapter at its raw timestamp; the preceding chapter ends
// one lead-in earlier so the announcement opens the new chapter.
func buildChapters(winners []Candidate, duration timecode.Timecode, language string) chapters.List {
	list := make(chapters.List, 0, len(winners)+1)

	opening := chapters.Chapter{
		Index:  0,
		Start:  timecode.Zero(),
		Label:  "Opening",
		Source: winners[0].Source,
	}
	list = append(list, opening)

	marker := "chapter"
	if features, ok := lexicon.FeaturesFor(language); ok {
		marker = features.ChapterMarker
	}
	for i, c := range winners {
		list[len(list)-1].End = c.At.Sub(chapters.BoundaryLeadIn)
		label := c.Label
		if label == "" {
			label = lexicon.TitleLabel(language, fmt.Sprintf("%s %d", marker, i+1))
		}
		list = append(list, chapters.Chapter{
			Index:  i + 1,
			Start:  c.At,
			Label:  label,
			Source: c.Source,
		})
	}
	list[len(list)-1].End = duration
	return list
}
