package ffmeta

import (
	"strings"
	"testing"
)

func TestFromTags(t *testing.T) {
	m := FromTags(map[string]string{
		"Title":    "The Long Winter",
		"artist":   "A. Author",
		"album":    "The Long Winter",
		"composer": "N. Narrator",
		"genre":    "Audiobook",
		"date":     "2019",
	})
	if m.Narrator != "N. Narrator" {
		t.Errorf("Narrator = %q, want composer tag mapped", m.Narrator)
	}
	if m.Title != "The Long Winter" || m.Artist != "A. Author" || m.Date != "2019" {
		t.Errorf("metadata = %+v", m)
	}
}

func TestFromTagsFallbacks(t *testing.T) {
	m := FromTags(map[string]string{
		"album_artist": "A. Author",
		"narrator":     "N. Narrator",
		"year":         "2019",
	})
	if m.Artist != "A. Author" || m.Narrator != "N. Narrator" || m.Date != "2019" {
		t.Errorf("metadata = %+v", m)
	}
}

func TestMergeUserWins(t *testing.T) {
	probed := Metadata{Title: "Probed", Artist: "A. Author", Genre: "Audiobook"}
	user := Metadata{Title: "Corrected", Narrator: "N. Narrator"}

	merged := Merge(probed, user)
	if merged.Title != "Corrected" {
		t.Errorf("Title = %q, user value must win", merged.Title)
	}
	if merged.Artist != "A. Author" || merged.Genre != "Audiobook" {
		t.Errorf("probed values lost: %+v", merged)
	}
	if merged.Narrator != "N. Narrator" {
		t.Errorf("Narrator = %q", merged.Narrator)
	}
}

func TestFFmpegArgs(t *testing.T) {
	m := Metadata{Artist: "A. Author", Narrator: "N. Narrator"}
	joined := strings.Join(m.FFmpegArgs(), " ")
	if !strings.Contains(joined, "-metadata artist=A. Author") {
		t.Errorf("args missing artist: %s", joined)
	}
	if !strings.Contains(joined, "-metadata composer=N. Narrator") {
		t.Errorf("args missing composer: %s", joined)
	}
	if strings.Contains(joined, "album=") || strings.Contains(joined, "genre=") {
		t.Errorf("empty fields must be omitted: %s", joined)
	}
}
