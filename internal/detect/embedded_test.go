package detect

import (
	"errors"
	"testing"

	"chapterize/internal/asset"
	"chapterize/internal/logging"
	"chapterize/internal/media/ffprobe"
	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

func TestEmbeddedNotFound(t *testing.T) {
	extractor := NewEmbeddedExtractor(logging.NewNop())

	plain := &asset.Asset{Path: "/b.mp3", Duration: timecode.FromSeconds(60), Container: asset.ContainerPlain}
	if _, err := extractor.Extract(plain); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("plain container err = %v, want ErrNotFound", err)
	}

	empty := &asset.Asset{Path: "/b.m4b", Duration: timecode.FromSeconds(60), Container: asset.ContainerChaptered}
	if _, err := extractor.Extract(empty); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("markerless container err = %v, want ErrNotFound", err)
	}
}

func TestEmbeddedUntitledMarkersGetGenericLabels(t *testing.T) {
	extractor := NewEmbeddedExtractor(logging.NewNop())
	a := &asset.Asset{
		Path:      "/b.m4b",
		Duration:  timecode.FromSeconds(100),
		Container: asset.ContainerChaptered,
		EmbeddedChapters: []ffprobe.Chapter{
			{StartTime: "0.000", EndTime: "40.000"},
			{StartTime: "40.000", EndTime: "100.000", Tags: map[string]string{"title": "Finale"}},
		},
	}

	list, err := extractor.Extract(a)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if list[0].Label != "Chapter 1" || list[1].Label != "Finale" {
		t.Errorf("labels = %q, %q", list[0].Label, list[1].Label)
	}
}

func TestEmbeddedInconsistentMarkersAreNotNotFound(t *testing.T) {
	extractor := NewEmbeddedExtractor(logging.NewNop())
	a := &asset.Asset{
		Path:      "/b.m4b",
		Duration:  timecode.FromSeconds(100),
		Container: asset.ContainerChaptered,
		EmbeddedChapters: []ffprobe.Chapter{
			{StartTime: "0.000", EndTime: "60.000"},
			{StartTime: "50.000", EndTime: "100.000"},
		},
	}

	_, err := extractor.Extract(a)
	if err == nil || errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want a read failure distinct from not-found", err)
	}
	// Bad container data falls through to a detection strategy.
	if !services.Recoverable(err) {
		t.Errorf("err = %v, want a recoverable classification", err)
	}
}
