// Package chapters models the verified output of a detection run and emits
// it as cue sheets and JSON snapshots.
package chapters

import (
	"fmt"
	"time"

	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// Source names the detection signal a chapter boundary came from.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceSilence  Source = "silence"
	SourceEmbedded Source = "embedded"
)

// BoundaryLeadIn is how far before a detected announcement the preceding
// chapter is cut, so the announcement audio opens the new chapter.
const BoundaryLeadIn = time.Second

// Chapter is one span of the asset. Start is the raw boundary position; End
// is trimmed by BoundaryLeadIn ahead of the next detected boundary, or
// touches the next start exactly when markers came from the container.
type Chapter struct {
	// Index is 0-based and contiguous in timeline order.
	Index int
	Start timecode.Timecode
	End   timecode.Timecode
	Label string
	// Source records which signal placed the chapter's start boundary.
	Source Source
}

// Duration returns the chapter's span length.
func (c Chapter) Duration() time.Duration {
	return c.End.Distance(c.Start)
}

// List is an ordered chapter sequence covering a whole asset.
type List []Chapter

// Verify checks the structural invariants every emitted list must hold: the
// first chapter starts at zero, the last ends at the asset duration, indexes
// are contiguous from zero, every chapter has positive span, and each
// interior end either touches the next start or sits exactly BoundaryLeadIn
// before it. Violations are internal defects and are never corrected here.
func (l List) Verify(duration timecode.Timecode) error {
	if len(l) == 0 {
		return violation("empty chapter list")
	}
	if !l[0].Start.IsZero() {
		return violation(fmt.Sprintf("first chapter starts at %s, not zero", l[0].Start.Format()))
	}
	if !l[len(l)-1].End.Equal(duration) {
		return violation(fmt.Sprintf("last chapter ends at %s, asset ends at %s",
			l[len(l)-1].End.Format(), duration.Format()))
	}
	for i, c := range l {
		if c.Index != i {
			return violation(fmt.Sprintf("chapter at position %d has index %d", i, c.Index))
		}
		if !c.End.After(c.Start) {
			return violation(fmt.Sprintf("chapter %d has non-positive span [%s, %s)",
				c.Index, c.Start.Format(), c.End.Format()))
		}
		if i == 0 {
			continue
		}
		prev := l[i-1]
		if !prev.Start.Before(c.Start) {
			return violation(fmt.Sprintf("chapter %d start %s does not increase past %s",
				c.Index, c.Start.Format(), prev.Start.Format()))
		}
		trimmed := c.Start.Sub(BoundaryLeadIn)
		if !prev.End.Equal(c.Start) && !prev.End.Equal(trimmed) {
			return violation(fmt.Sprintf("chapter %d ends at %s but chapter %d starts at %s",
				prev.Index, prev.End.Format(), c.Index, c.Start.Format()))
		}
	}
	return nil
}

func violation(message string) error {
	return services.Wrap(services.ErrInvariant, "chapters", "verify", message, nil)
}
