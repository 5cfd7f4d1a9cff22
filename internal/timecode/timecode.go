// Package timecode provides millisecond-precision positions on an asset's
// timeline. All detection, merging, and emission happens in this unit, so
// float drift never reaches an emitted boundary.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timecode is a non-negative position measured in whole milliseconds.
type Timecode struct {
	millis int64
}

// Zero is the start of the timeline.
func Zero() Timecode {
	return Timecode{}
}

// FromSeconds rounds a float position to the nearest millisecond. Negative
// inputs clamp to zero.
func FromSeconds(seconds float64) Timecode {
	if seconds <= 0 || math.IsNaN(seconds) {
		return Timecode{}
	}
	return Timecode{millis: int64(math.Round(seconds * 1000))}
}

// FromDuration converts a duration offset from the timeline start. Negative
// inputs clamp to zero.
func FromDuration(d time.Duration) Timecode {
	if d <= 0 {
		return Timecode{}
	}
	return Timecode{millis: d.Milliseconds()}
}

// FromMillis wraps a raw millisecond count. Negative inputs clamp to zero.
func FromMillis(millis int64) Timecode {
	if millis <= 0 {
		return Timecode{}
	}
	return Timecode{millis: millis}
}

// Parse reads the canonical "HH:MM:SS.mmm" form produced by Format. Hours
// may exceed two digits; minutes, seconds, and milliseconds are strict.
func Parse(s string) (Timecode, error) {
	clock, msPart, ok := strings.Cut(s, ".")
	if !ok || len(msPart) != 3 {
		return Timecode{}, fmt.Errorf("parse timecode %q: want HH:MM:SS.mmm", s)
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Timecode{}, fmt.Errorf("parse timecode %q: want HH:MM:SS.mmm", s)
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || hours < 0 {
		return Timecode{}, fmt.Errorf("parse timecode %q: bad hours", s)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes > 59 {
		return Timecode{}, fmt.Errorf("parse timecode %q: bad minutes", s)
	}
	seconds, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seconds > 59 {
		return Timecode{}, fmt.Errorf("parse timecode %q: bad seconds", s)
	}
	millis, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return Timecode{}, fmt.Errorf("parse timecode %q: bad milliseconds", s)
	}

	total := ((hours*60+minutes)*60+seconds)*1000 + millis
	return Timecode{millis: total}, nil
}

// Format renders the canonical "HH:MM:SS.mmm" form.
func (t Timecode) Format() string {
	millis := t.millis % 1000
	totalSeconds := t.millis / 1000
	seconds := totalSeconds % 60
	minutes := (totalSeconds / 60) % 60
	hours := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// String implements fmt.Stringer with the canonical form.
func (t Timecode) String() string {
	return t.Format()
}

// Seconds returns the position as float seconds.
func (t Timecode) Seconds() float64 {
	return float64(t.millis) / 1000
}

// Millis returns the raw millisecond count.
func (t Timecode) Millis() int64 {
	return t.millis
}

// Duration returns the position as an offset from the timeline start.
func (t Timecode) Duration() time.Duration {
	return time.Duration(t.millis) * time.Millisecond
}

// Add moves forward by d. Moving backward clamps at zero.
func (t Timecode) Add(d time.Duration) Timecode {
	return FromMillis(t.millis + d.Milliseconds())
}

// Sub moves backward by d, clamping at zero.
func (t Timecode) Sub(d time.Duration) Timecode {
	return FromMillis(t.millis - d.Milliseconds())
}

// MarshalText renders the canonical form, so timecodes embed cleanly in JSON.
func (t Timecode) MarshalText() ([]byte, error) {
	return []byte(t.Format()), nil
}

// UnmarshalText parses the canonical form.
func (t *Timecode) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Before reports whether t is strictly earlier than other.
func (t Timecode) Before(other Timecode) bool {
	return t.millis < other.millis
}

// After reports whether t is strictly later than other.
func (t Timecode) After(other Timecode) bool {
	return t.millis > other.millis
}

// Equal reports millisecond equality.
func (t Timecode) Equal(other Timecode) bool {
	return t.millis == other.millis
}

// IsZero reports whether t is the timeline start.
func (t Timecode) IsZero() bool {
	return t.millis == 0
}

// Distance returns the absolute gap between two positions.
func (t Timecode) Distance(other Timecode) time.Duration {
	gap := t.millis - other.millis
	if gap < 0 {
		gap = -gap
	}
	return time.Duration(gap) * time.Millisecond
}
