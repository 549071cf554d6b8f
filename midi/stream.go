package midi

import (
	"math"
	"math/bits"
	"sort"

	"github.com/jsphweid/pianov/constants"
	"github.com/jsphweid/pianov/decoder"
	"github.com/jsphweid/pianov/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoNoteEvents = errors.New("no note events in midi file")

const defaultVelocity = 100

type noteEvent struct {
	ticks uint64
	isEnd bool
	msg   []byte
}

// FromSMF flattens every track of s into one event stream at 480 ticks per
// quarter note. Only note starts and ends are kept; tempo and other meta
// events are dropped.
func FromSMF(s *smf.SMF) ([]byte, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Resolution() == 0 {
		return nil, errors.Errorf("unsupported time format %v", s.TimeFormat)
	}
	resolution := uint64(ticks.Resolution())

	var events []noteEvent
	for _, track := range s.Tracks {
		var absTicks uint64
		// index into events of the sounding start per channel and key
		open := make(map[[2]uint8]int)
		for _, evt := range track {
			absTicks += uint64(evt.Delta)
			scaled := scaleTicks(absTicks, resolution)
			var channel, key, velocity uint8
			switch {
			case evt.Message.GetNoteStart(&channel, &key, &velocity):
				open[[2]uint8{channel, key}] = len(events)
				events = append(events, noteEvent{scaled, false, gomidi.NoteOn(channel, key, velocity)})
			case evt.Message.GetNoteEnd(&channel, &key):
				k := [2]uint8{channel, key}
				i, ok := open[k]
				if !ok {
					continue
				}
				delete(open, k)
				if events[i].ticks == scaled {
					// too short to survive the new resolution
					events[i].msg = nil
					continue
				}
				events = append(events, noteEvent{scaled, true, gomidi.NoteOff(channel, key)})
			}
		}
	}
	events = dropEmpty(events)

	if len(events) == 0 {
		return nil, ErrNoNoteEvents
	}
	return encode(events), nil
}

// FromNotes writes notes back out as an event stream. Decoding the result
// gives the same notes, up to rounding to whole ticks.
func FromNotes(notes model.Notes) []byte {
	var events []noteEvent
	for _, n := range notes {
		start := toTicks(n.Start)
		end := toTicks(n.End())
		if end <= start {
			continue
		}
		events = append(events,
			noteEvent{start, false, gomidi.NoteOn(0, n.Pitch, defaultVelocity)},
			noteEvent{end, true, gomidi.NoteOff(0, n.Pitch)},
		)
	}
	return encode(events)
}

// scaleTicks converts ticks at resolution to the stream's 480 per quarter
// note, pinning at the largest tick instead of overflowing.
func scaleTicks(ticks, resolution uint64) uint64 {
	hi, lo := bits.Mul64(ticks, constants.TicksPerQuarterNote)
	if hi >= resolution {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, resolution)
	return q
}

func dropEmpty(events []noteEvent) []noteEvent {
	res := events[:0]
	for _, evt := range events {
		if evt.msg != nil {
			res = append(res, evt)
		}
	}
	return res
}

func toTicks(t float64) uint64 {
	return uint64(math.Round(t * constants.TicksPerQuarterNote))
}

func encode(events []noteEvent) []byte {
	// prioritize smaller offset values then note off
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].ticks != events[j].ticks {
			return events[i].ticks < events[j].ticks
		}
		return events[i].isEnd && !events[j].isEnd
	})

	var res []byte
	var prev uint64
	if len(events) > 0 && events[0].ticks > 0 {
		// the stream starts at zero, so leading silence rides on a
		// controller message the decoder skips
		res = append(res, gomidi.ControlChange(0, 0, 0)...)
		res = decoder.AppendVLQ(res, events[0].ticks)
		prev = events[0].ticks
	}
	for i, evt := range events {
		res = append(res, evt.msg...)
		var delta uint64
		if i+1 < len(events) {
			delta = events[i+1].ticks - prev
			prev = events[i+1].ticks
		}
		res = decoder.AppendVLQ(res, delta)
	}
	return res
}
