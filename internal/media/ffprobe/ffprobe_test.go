package ffprobe

import "testing"

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2}
  ],
  "chapters": [
    {"id": 0, "start_time": "0.000000", "end_time": "912.500000", "tags": {"title": "Prologue"}},
    {"id": 1, "start_time": "912.500000", "end_time": "1800.000000", "tags": {"title": "Chapter 01"}},
    {"id": 2, "start_time": "1800.000000", "end_time": "3600.000000"}
  ],
  "format": {
    "filename": "book.m4b",
    "nb_streams": 1,
    "duration": "3600.000000",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "tags": {"title": "A Book", "artist": "An Author"}
  }
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.DurationSeconds() != 3600 {
		t.Errorf("DurationSeconds = %v", result.DurationSeconds())
	}
	if result.SampleRate() != 44100 {
		t.Errorf("SampleRate = %d", result.SampleRate())
	}
	if result.AudioStreamCount() != 1 {
		t.Errorf("AudioStreamCount = %d", result.AudioStreamCount())
	}
	if len(result.Chapters) != 3 {
		t.Fatalf("Chapters = %d", len(result.Chapters))
	}
	if got := result.Chapters[0].Title(); got != "Prologue" {
		t.Errorf("chapter 0 title = %q", got)
	}
	if got := result.Chapters[2].Title(); got != "" {
		t.Errorf("untitled chapter title = %q", got)
	}
	if got := result.Chapters[1].StartSeconds(); got != 912.5 {
		t.Errorf("chapter 1 start = %v", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("expected parse error")
	}
}
