// Package decoder turns a raw note event stream into closed note intervals.
//
// The stream is a flat sequence of records, each a status byte, two data
// bytes and a delta-time:
//
//	status pitch velocity delta...
//
// Only Note-On (0x9n) and Note-Off (0x8n) are interpreted. Every other
// status is skipped as a fixed 3-byte record, so running status, meta events
// and sysex payloads are not supported.
package decoder

import (
	"math"
	"math/bits"

	"github.com/jsphweid/pianov/constants"
	"github.com/jsphweid/pianov/model"
	"github.com/pkg/errors"
)

const (
	kindNoteOff = 0x8
	kindNoteOn  = 0x9

	// status + two data bytes
	eventSize  = 3
	numPitches = 128
)

// Decoder decodes event streams at a fixed resolution.
type Decoder struct {
	TicksPerQuarter uint32
}

// Decode decodes buf at the default resolution of 480 ticks per quarter note.
func Decode(buf []byte) (model.Notes, error) {
	d := Decoder{TicksPerQuarter: constants.TicksPerQuarterNote}
	return d.Decode(buf)
}

// Decode walks buf once and pairs note starts with note ends. It returns
// ErrUnexpectedEndOfStream if buf is truncated and ErrNoNotesFound if nothing
// was closed. On error no notes are returned.
//
// A second Note-On for a pitch that is already sounding restarts it; the
// earlier start is dropped. Ends without a matching start are ignored, and
// notes still sounding when the stream ends are discarded.
func (d Decoder) Decode(buf []byte) (model.Notes, error) {
	tpq := d.TicksPerQuarter
	if tpq == 0 {
		tpq = constants.TicksPerQuarterNote
	}
	s := state{tpq: float64(tpq)}

	for s.cursor < len(buf) {
		if len(buf)-s.cursor < eventSize {
			return nil, errors.Wrapf(ErrUnexpectedEndOfStream, "event at offset %d", s.cursor)
		}
		status, pitch, velocity := buf[s.cursor], buf[s.cursor+1], buf[s.cursor+2]
		s.cursor += eventSize

		switch status >> 4 {
		case kindNoteOn:
			if velocity > 0 {
				s.open(pitch)
			} else {
				s.close(pitch)
			}
		case kindNoteOff:
			s.close(pitch)
		}

		delta, next, err := ReadVLQ(buf, s.cursor)
		if err != nil {
			return nil, err
		}
		s.cursor = next
		s.advance(delta)
	}

	if len(s.notes) == 0 {
		return nil, ErrNoNotesFound
	}
	return s.notes, nil
}

// state lives for one Decode call.
type state struct {
	tpq    float64
	cursor int
	ticks  uint64

	// start tick of every sounding pitch
	sounding [numPitches]bool
	starts   [numPitches]uint64

	notes model.Notes
}

// advance moves elapsed time forward, pinning it at the last tick rather
// than wrapping.
func (s *state) advance(delta uint64) {
	sum, carry := bits.Add64(s.ticks, delta, 0)
	if carry != 0 {
		sum = math.MaxUint64
	}
	s.ticks = sum
}

func (s *state) open(pitch uint8) {
	if pitch >= numPitches {
		return
	}
	s.sounding[pitch] = true
	s.starts[pitch] = s.ticks
}

func (s *state) close(pitch uint8) {
	if pitch >= numPitches || !s.sounding[pitch] {
		return
	}
	s.sounding[pitch] = false
	start := s.starts[pitch]
	if s.ticks == start {
		// zero length, nothing ever sounded
		return
	}
	s.notes = append(s.notes, model.NoteInterval{
		Pitch:    pitch,
		Start:    float64(start) / s.tpq,
		Duration: float64(s.ticks-start) / s.tpq,
	})
}
