package chapters

import (
	"encoding/json"
	"fmt"

	"chapterize/internal/timecode"
)

// snapshotChapter is the stable wire form of one chapter. Times are encoded
// as HH:MM:SS.mmm strings so snapshots stay exact across round-trips.
type snapshotChapter struct {
	Index  int    `json:"index"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Label  string `json:"label"`
	Source Source `json:"source"`
}

// EncodeSnapshot renders a chapter list as deterministic JSON. Decoding the
// result with DecodeSnapshot yields an identical list.
func EncodeSnapshot(list List) ([]byte, error) {
	encoded := make([]snapshotChapter, 0, len(list))
	for _, c := range list {
		encoded = append(encoded, snapshotChapter{
			Index:  c.Index,
			Start:  c.Start.Format(),
			End:    c.End.Format(),
			Label:  c.Label,
			Source: c.Source,
		})
	}
	return json.MarshalIndent(encoded, "", "  ")
}

// DecodeSnapshot parses JSON produced by EncodeSnapshot.
func DecodeSnapshot(payload []byte) (List, error) {
	var encoded []snapshotChapter
	if err := json.Unmarshal(payload, &encoded); err != nil {
		return nil, fmt.Errorf("decode chapter snapshot: %w", err)
	}
	list := make(List, 0, len(encoded))
	for _, sc := range encoded {
		start, err := timecode.Parse(sc.Start)
		if err != nil {
			return nil, fmt.Errorf("decode chapter snapshot: chapter %d: %w", sc.Index, err)
		}
		end, err := timecode.Parse(sc.End)
		if err != nil {
			return nil, fmt.Errorf("decode chapter snapshot: chapter %d: %w", sc.Index, err)
		}
		list = append(list, Chapter{
			Index:  sc.Index,
			Start:  start,
			End:    end,
			Label:  sc.Label,
			Source: sc.Source,
		})
	}
	return list, nil
}
