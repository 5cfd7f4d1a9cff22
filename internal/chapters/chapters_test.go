package chapters

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// sampleList mirrors merger output: detected boundaries at 899s and 1799s,
// each preceding end trimmed one second ahead of the next start.
func sampleList() List {
	return List{
		{Index: 0, Start: timecode.Zero(), End: timecode.FromSeconds(898), Label: "Opening Credits", Source: SourceKeyword},
		{Index: 1, Start: timecode.FromSeconds(899), End: timecode.FromSeconds(1798), Label: "Chapter One", Source: SourceKeyword},
		{Index: 2, Start: timecode.FromSeconds(1799), End: timecode.FromSeconds(3600), Label: "Chapter Two", Source: SourceSilence},
	}
}

// embeddedList mirrors container markers: exactly contiguous ends.
func embeddedList() List {
	return List{
		{Index: 0, Start: timecode.Zero(), End: timecode.FromSeconds(1200), Label: "Chapter 1", Source: SourceEmbedded},
		{Index: 1, Start: timecode.FromSeconds(1200), End: timecode.FromSeconds(3600), Label: "Chapter 2", Source: SourceEmbedded},
	}
}

func TestVerify(t *testing.T) {
	duration := timecode.FromSeconds(3600)
	if err := sampleList().Verify(duration); err != nil {
		t.Fatalf("Verify trimmed list: %v", err)
	}
	if err := embeddedList().Verify(duration); err != nil {
		t.Fatalf("Verify embedded list: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(List) List
	}{
		{"empty", func(List) List { return nil }},
		{"nonzero start", func(l List) List { l[0].Start = timecode.FromSeconds(1); return l }},
		{"short end", func(l List) List { l[2].End = timecode.FromSeconds(3599); return l }},
		{"gap", func(l List) List { l[0].End = timecode.FromSeconds(890); return l }},
		{"overlap", func(l List) List { l[0].End = timecode.FromSeconds(899.5); return l }},
		{"zero span", func(l List) List { l[1].End = l[1].Start; return l }},
		{"broken index", func(l List) List { l[1].Index = 7; return l }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mutate(sampleList()).Verify(duration)
			if !errors.Is(err, services.ErrInvariant) {
				t.Errorf("Verify = %v, want ErrInvariant", err)
			}
		})
	}
}

func TestCueSheetRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCueSheet(&buf, "novel.mp3", sampleList()); err != nil {
		t.Fatalf("WriteCueSheet: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		`FILE "novel.mp3"`,
		"TRACK 01 AUDIO",
		`  TITLE "Chapter One"`,
		"  START 00:14:59.000",
		"  END 01:00:00.000",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("cue sheet missing %q:\n%s", want, text)
		}
	}

	source, list, err := ReadCueSheet(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ReadCueSheet: %v", err)
	}
	if source != "novel.mp3" {
		t.Errorf("source = %q", source)
	}
	if len(list) != 3 {
		t.Fatalf("tracks = %d", len(list))
	}
	if list[1].Index != 1 || list[1].Label != "Chapter One" || !list[1].Start.Equal(timecode.FromSeconds(899)) {
		t.Errorf("track 2 = %+v", list[1])
	}
	if err := list.Verify(timecode.FromSeconds(3600)); err != nil {
		t.Errorf("round-tripped list fails Verify: %v", err)
	}
}

func TestReadCueSheetRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no tracks", `FILE "a.mp3"` + "\n"},
		{"title outside track", "TITLE \"x\"\n"},
		{"bad track number", "TRACK xx AUDIO\n"},
		{"zero track number", "TRACK 00 AUDIO\n"},
		{"bad timecode", "TRACK 01 AUDIO\n  START 00:14:59\n"},
		{"unknown keyword", "TRACK 01 AUDIO\n  BOGUS 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadCueSheet(strings.NewReader(tt.text)); !errors.Is(err, services.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	original := sampleList()
	payload, err := EncodeSnapshot(original)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}

	decoded, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("len = %d, want %d", len(decoded), len(original))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("chapter %d = %+v, want %+v", i, decoded[i], original[i])
		}
	}

	// Deterministic: encoding again yields identical bytes.
	again, err := EncodeSnapshot(original)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if !bytes.Equal(payload, again) {
		t.Error("snapshot encoding is not deterministic")
	}
}
