package testsupport

import (
	"context"
	"testing"
	"time"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/snapshot"
	"chapterize/internal/timecode"
)

// MustOpenStore opens a snapshot.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *snapshot.Store {
	t.Helper()

	store, err := snapshot.Open(cfg.Paths.SnapshotDB)
	if err != nil {
		t.Fatalf("snapshot.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedRun persists a two-chapter detection run for the source and returns its
// ID.
func SeedRun(t testing.TB, store *snapshot.Store, source string) string {
	t.Helper()

	id, err := store.SaveRun(context.Background(), snapshot.Run{
		SourcePath:      source,
		DurationSeconds: 3600,
		Method:          "hybrid",
		Language:        "en",
		CreatedAt:       time.Now().UTC(),
		Chapters: chapters.List{
			{Index: 0, Start: timecode.Zero(), End: timecode.FromSeconds(899), Label: "Opening", Source: chapters.SourceKeyword},
			{Index: 1, Start: timecode.FromSeconds(900), End: timecode.FromSeconds(3600), Label: "Chapter One", Source: chapters.SourceKeyword},
		},
	})
	if err != nil {
		t.Fatalf("store.SaveRun: %v", err)
	}
	return id
}
