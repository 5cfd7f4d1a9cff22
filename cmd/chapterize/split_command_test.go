package main

import (
	"os"
	"path/filepath"
	"testing"

	"chapterize/internal/chapters"
	"chapterize/internal/config"
	"chapterize/internal/timecode"
)

func TestLoadCueChapters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.cue")
	list := chapters.List{
		{Index: 0, Start: timecode.Zero(), End: timecode.FromSeconds(899), Label: "Opening", Source: chapters.SourceKeyword},
		{Index: 1, Start: timecode.FromSeconds(900), End: timecode.FromSeconds(3600), Label: "Chapter One", Source: chapters.SourceKeyword},
	}
	if err := writeCueFile(path, "/books/book.mp3", list); err != nil {
		t.Fatalf("writeCueFile: %v", err)
	}

	loaded, err := loadCueChapters(path)
	if err != nil {
		t.Fatalf("loadCueChapters: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("chapters = %d, want 2", len(loaded))
	}
	if loaded[1].Label != "Chapter One" || !loaded[1].Start.Equal(timecode.FromSeconds(900)) {
		t.Errorf("chapter = %+v", loaded[1])
	}
}

func TestLoadCueChaptersMissingFile(t *testing.T) {
	if _, err := loadCueChapters(filepath.Join(t.TempDir(), "absent.cue")); err == nil {
		t.Fatal("missing cue sheet should fail")
	}
}

func TestResolveCuePath(t *testing.T) {
	cfg := &config.Config{}

	if got := resolveCuePath(cfg, "/books/a.mp3", "/tmp/explicit.cue"); got != "/tmp/explicit.cue" {
		t.Errorf("flag path = %q", got)
	}
	if got := resolveCuePath(cfg, "/books/a.mp3", ""); got != "" {
		t.Errorf("generation disabled should yield no path, got %q", got)
	}

	cfg.Cue.Generate = true
	if got := resolveCuePath(cfg, "/books/a.mp3", ""); got != "/books/a.cue" {
		t.Errorf("sibling path = %q", got)
	}

	cfg.Cue.Path = "/out/fixed.cue"
	if got := resolveCuePath(cfg, "/books/a.mp3", ""); got != "/out/fixed.cue" {
		t.Errorf("configured path = %q", got)
	}
}

func TestWriteCueFileCreateFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory at the target path makes os.Create fail.
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	list := chapters.List{{Index: 0, Start: timecode.Zero(), End: timecode.FromSeconds(10), Label: "Opening"}}
	if err := writeCueFile(target, "a.mp3", list); err == nil {
		t.Fatal("writeCueFile should fail when the path is a directory")
	}
}
