package detect

import (
	"fmt"
	"log/slog"

	"chapterize/internal/asset"
	"chapterize/internal/chapters"
	"chapterize/internal/logging"
	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// EmbeddedExtractor is the fast path: container-native chapter markers need
// no detection work at all.
type EmbeddedExtractor struct {
	logger *slog.Logger
}

// NewEmbeddedExtractor builds the extractor.
func NewEmbeddedExtractor(logger *slog.Logger) *EmbeddedExtractor {
	return &EmbeddedExtractor{logger: logging.NewComponentLogger(logger, "embedded")}
}

// Extract builds the chapter list from the markers the probe already read.
// Absent markers report ErrNotFound; markers that fail the structural
// invariants report a distinct read failure. Both let the caller fall
// through to a detection strategy.
func (e *EmbeddedExtractor) Extract(a *asset.Asset) (chapters.List, error) {
	if !a.ChapterCapable() || len(a.EmbeddedChapters) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "detect", "embedded",
			"no embedded chapter markers", nil)
	}

	list := make(chapters.List, 0, len(a.EmbeddedChapters))
	for i, marker := range a.EmbeddedChapters {
		label := marker.Title()
		if label == "" {
			label = fmt.Sprintf("Chapter %d", i+1)
		}
		list = append(list, chapters.Chapter{
			Index:  i,
			Start:  timecode.FromSeconds(marker.StartSeconds()),
			End:    timecode.FromSeconds(marker.EndSeconds()),
			Label:  label,
			Source: chapters.SourceEmbedded,
		})
	}

	if err := list.Verify(a.Duration); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "detect", "embedded",
			"embedded markers are inconsistent", err)
	}

	e.logger.Info("using embedded chapter markers", logging.Int("chapters", len(list)))
	return list, nil
}
