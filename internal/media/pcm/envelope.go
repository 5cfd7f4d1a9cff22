package pcm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// SampleRate is the decode rate used for analysis audio. Matches the mono
// 16 kHz stream handed to the speech engine.
const SampleRate = 16000

// DefaultHop is the envelope resolution: one level per 100ms of audio.
const DefaultHop = 100 * time.Millisecond

// silenceFloorDB is the level reported for an all-zero hop, where a true RMS
// would be negative infinity.
const silenceFloorDB = -120.0

// Envelope is a left-to-right amplitude profile of an audio signal.
type Envelope struct {
	// Hop is the duration each level covers.
	Hop time.Duration
	// Levels holds one RMS value in dBFS per hop.
	Levels []float64
}

// Duration returns the total time span the envelope covers.
func (e Envelope) Duration() time.Duration {
	return time.Duration(len(e.Levels)) * e.Hop
}

// Decode consumes signed 16-bit little-endian mono PCM at SampleRate and
// produces an envelope with the given hop. A trailing partial hop is included
// so short tails are never dropped.
func Decode(r io.Reader, hop time.Duration) (Envelope, error) {
	if hop <= 0 {
		hop = DefaultHop
	}
	samplesPerHop := int(hop.Seconds() * SampleRate)
	if samplesPerHop <= 0 {
		return Envelope{}, fmt.Errorf("pcm decode: hop %v too small", hop)
	}

	reader := bufio.NewReaderSize(r, 64*1024)
	env := Envelope{Hop: hop}

	var sumSquares float64
	count := 0
	buf := make([]byte, 2)

	for {
		if _, err := io.ReadFull(reader, buf); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				// Odd trailing byte: ignore the torn sample.
				break
			}
			return Envelope{}, fmt.Errorf("pcm decode: %w", err)
		}
		sample := int16(binary.LittleEndian.Uint16(buf))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
		count++

		if count == samplesPerHop {
			env.Levels = append(env.Levels, rmsToDB(sumSquares, count))
			sumSquares = 0
			count = 0
		}
	}

	if count > 0 {
		env.Levels = append(env.Levels, rmsToDB(sumSquares, count))
	}
	return env, nil
}

func rmsToDB(sumSquares float64, count int) float64 {
	rms := math.Sqrt(sumSquares / float64(count))
	if rms <= 0 {
		return silenceFloorDB
	}
	db := 20 * math.Log10(rms)
	if db < silenceFloorDB {
		return silenceFloorDB
	}
	return db
}
