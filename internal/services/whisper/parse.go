package whisper

import (
	"encoding/json"
	"fmt"
)

// Word is one recognized word with absolute-in-file timing.
type Word struct {
	Text        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// Segment is one engine utterance with its word timings.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// Transcript is the parsed engine output for one invocation.
type Transcript struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Empty reports whether the transcript carries no words at all.
func (t *Transcript) Empty() bool {
	for _, segment := range t.Segments {
		if len(segment.Words) > 0 {
			return false
		}
	}
	return true
}

// parseTranscript decodes the engine's JSON payload, dropping words with
// inverted or negative timing.
func parseTranscript(payload []byte) (*Transcript, error) {
	var transcript Transcript
	if err := json.Unmarshal(payload, &transcript); err != nil {
		return nil, fmt.Errorf("parse transcription output: %w", err)
	}
	for i := range transcript.Segments {
		segment := &transcript.Segments[i]
		kept := segment.Words[:0]
		for _, word := range segment.Words {
			if word.Start < 0 || word.End < word.Start {
				continue
			}
			kept = append(kept, word)
		}
		segment.Words = kept
	}
	return &transcript, nil
}
