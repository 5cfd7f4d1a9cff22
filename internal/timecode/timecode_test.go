package timecode

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFromSecondsRounding(t *testing.T) {
	tests := []struct {
		seconds float64
		millis  int64
	}{
		{0, 0},
		{-5, 0},
		{0.0004, 0},
		{0.0005, 1},
		{899.2994, 899299},
		{899.2996, 899300},
		{3600, 3600000},
	}
	for _, tt := range tests {
		if got := FromSeconds(tt.seconds).Millis(); got != tt.millis {
			t.Errorf("FromSeconds(%v) = %d ms, want %d", tt.seconds, got, tt.millis)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	tests := []struct {
		millis int64
		text   string
	}{
		{0, "00:00:00.000"},
		{899300, "00:14:59.300"},
		{3600000, "01:00:00.000"},
		{90061001, "25:01:01.001"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			tc := FromMillis(tt.millis)
			if got := tc.Format(); got != tt.text {
				t.Fatalf("Format = %q, want %q", got, tt.text)
			}
			parsed, err := Parse(tt.text)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !parsed.Equal(tc) {
				t.Errorf("Parse(%q) = %v, want %v", tt.text, parsed, tc)
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, text := range []string{
		"", "14:59", "00:14:59", "00:14:59.3", "00:14:59.3000",
		"00:61:00.000", "00:00:61.000", "0:14:59.000", "aa:bb:cc.ddd",
	} {
		if _, err := Parse(text); err == nil {
			t.Errorf("Parse(%q) should fail", text)
		}
	}
}

func TestSubClampsAtZero(t *testing.T) {
	if got := Zero().Sub(time.Second); !got.IsZero() {
		t.Errorf("zero minus one second = %v, want zero", got)
	}
	if got := FromSeconds(0.5).Sub(time.Second); !got.IsZero() {
		t.Errorf("0.5s minus one second = %v, want zero", got)
	}
	got := FromSeconds(900.3).Sub(time.Second)
	if got.Seconds() != 899.3 {
		t.Errorf("900.3s minus one second = %v, want 899.3", got.Seconds())
	}
}

func TestAddSubAndComparisons(t *testing.T) {
	a := FromSeconds(10)
	b := a.Add(2 * time.Second)
	if !b.After(a) || !a.Before(b) || a.Equal(b) {
		t.Errorf("ordering broken: a=%v b=%v", a, b)
	}
	if got := a.Add(-20 * time.Second); !got.IsZero() {
		t.Errorf("negative Add should clamp, got %v", got)
	}
}

func TestDistance(t *testing.T) {
	a := FromSeconds(900.3)
	b := FromSeconds(901.0)
	if got := a.Distance(b); got != 700*time.Millisecond {
		t.Errorf("Distance = %v, want 700ms", got)
	}
	if got := b.Distance(a); got != 700*time.Millisecond {
		t.Errorf("Distance is not symmetric: %v", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	payload, err := json.Marshal(FromSeconds(899.3))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(payload) != `"00:14:59.300"` {
		t.Fatalf("Marshal = %s", payload)
	}
	var parsed Timecode
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !parsed.Equal(FromSeconds(899.3)) {
		t.Errorf("round trip = %v", parsed)
	}
	if err := json.Unmarshal([]byte(`"garbage"`), &parsed); err == nil {
		t.Error("Unmarshal should reject malformed text")
	}
}

func TestDuration(t *testing.T) {
	if got := FromDuration(90 * time.Second).Duration(); got != 90*time.Second {
		t.Errorf("Duration round-trip = %v", got)
	}
	if got := FromDuration(-time.Second); !got.IsZero() {
		t.Errorf("negative duration should clamp, got %v", got)
	}
}
