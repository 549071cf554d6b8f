package decoder

import (
	"errors"
	"math"
	"testing"

	"github.com/jsphweid/pianov/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodesSingleNote(t *testing.T) {
	// the delta after an event is the time until the next one
	buf := []byte{
		0x90, 60, 64, 0x78,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 60, Start: 0, Duration: 0.25}}, notes)
}

func TestZeroVelocityNoteOnClosesNote(t *testing.T) {
	buf := []byte{
		0x00, 0, 0, 0x83, 0x60, // 480 ticks of silence
		0x91, 64, 100, 0x83, 0x60,
		0x91, 64, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 64, Start: 1, Duration: 1}}, notes)
}

func TestChannelIsIgnored(t *testing.T) {
	buf := []byte{
		0x93, 60, 64, 0x60,
		0x8A, 60, 64, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, uint8(60), notes[0].Pitch)
	assert.Equal(t, 0.2, notes[0].Duration)
}

func TestUnmatchedNoteOffIsIgnored(t *testing.T) {
	buf := []byte{
		0x80, 62, 0, 0x10,
		0x90, 60, 64, 0x78,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 60, Start: 16.0 / 480, Duration: 0.25}}, notes)
}

func TestSecondNoteOnRestartsNote(t *testing.T) {
	buf := []byte{
		0x90, 60, 64, 0x78,
		0x90, 60, 64, 0x78,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 60, Start: 0.25, Duration: 0.25}}, notes)
}

func TestOpenNotesAtEndAreDropped(t *testing.T) {
	buf := []byte{
		0x90, 60, 64, 0x00,
		0x90, 67, 64, 0x78,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 60, Start: 0, Duration: 0.25}}, notes)
}

func TestNotesAreInEmissionOrder(t *testing.T) {
	buf := []byte{
		0x90, 60, 64, 0x00,
		0x90, 64, 64, 0x78,
		0x80, 64, 0, 0x78,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{
		{Pitch: 64, Start: 0, Duration: 0.25},
		{Pitch: 60, Start: 0, Duration: 0.5},
	}, notes)
}

func TestOtherEventsAreSkipped(t *testing.T) {
	buf := []byte{
		0xB0, 7, 100, 0x00, // control change
		0xE0, 0, 64, 0x78, // pitch bend
		0x90, 60, 64, 0x78,
		0xC0, 1, 0, 0x00, // program change, padded
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 60, Start: 0.25, Duration: 0.25}}, notes)
}

func TestZeroLengthNotesAreDropped(t *testing.T) {
	buf := []byte{
		0x90, 60, 64, 0x00,
		0x80, 60, 0, 0x78,
		0x90, 62, 64, 0x78,
		0x80, 62, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, model.Notes{{Pitch: 62, Start: 0.25, Duration: 0.25}}, notes)
}

func TestPitchWithHighBitIsIgnored(t *testing.T) {
	buf := []byte{
		0x90, 0xC0, 64, 0x78,
		0x80, 0xC0, 0, 0x00,
	}
	_, err := Decode(buf)
	assert.ErrorIs(t, err, ErrNoNotesFound)
}

func TestMultiByteDeltaTime(t *testing.T) {
	// 0x81 0x80 0x00 == 16384 ticks
	buf := []byte{
		0x90, 60, 64, 0x81, 0x80, 0x00,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 16384.0/480, notes[0].Duration)
}

func TestTruncatedBuffersFail(t *testing.T) {
	cases := map[string][]byte{
		"status only":       {0x90},
		"missing velocity":  {0x90, 60},
		"missing delta":     {0x90, 60, 64},
		"unfinished delta":  {0x90, 60, 64, 0x81},
		"second event torn": {0x90, 60, 64, 0x78, 0x80, 60},
		"after a full note": {0x90, 60, 64, 0x78, 0x80, 60, 0, 0x00, 0x90},
	}
	for name, buf := range cases {
		t.Run(name, func(t *testing.T) {
			notes, err := Decode(buf)
			assert.ErrorIs(t, err, ErrUnexpectedEndOfStream)
			assert.Nil(t, notes)
		})
	}
}

func TestNoNotesFound(t *testing.T) {
	cases := map[string][]byte{
		"empty":        {},
		"only other":   {0xB0, 7, 100, 0x00, 0xC0, 1, 0, 0x83, 0x60},
		"never closed": {0x90, 60, 64, 0x78},
	}
	for name, buf := range cases {
		t.Run(name, func(t *testing.T) {
			notes, err := Decode(buf)
			assert.True(t, errors.Is(err, ErrNoNotesFound))
			assert.Nil(t, notes)
		})
	}
}

func TestCustomResolution(t *testing.T) {
	buf := []byte{
		0x90, 60, 64, 0x60,
		0x80, 60, 0, 0x00,
	}
	notes, err := Decoder{TicksPerQuarter: 96}.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 1.0, notes[0].Duration)
}

func TestDecodedNotesAreWellFormed(t *testing.T) {
	var buf []byte
	for i := 0; i < 200; i++ {
		pitch := byte(60 + i%5)
		status := byte(0x90)
		if i%3 == 0 {
			status = 0x80
		}
		buf = append(buf, status, pitch, byte(i%2)*64)
		buf = AppendVLQ(buf, uint64(i*13%500))
	}
	notes, err := Decode(buf)
	require.NoError(t, err)
	for _, n := range notes {
		assert.Greater(t, n.Duration, 0.0)
		assert.Less(t, n.Pitch, uint8(128))
		assert.GreaterOrEqual(t, n.Start, 0.0)
	}
}

func TestElapsedTimeNeverGoesBackwards(t *testing.T) {
	buf := AppendVLQ([]byte{0x90, 60, 64}, 480)
	buf = AppendVLQ(append(buf, 0x80, 60, 0), math.MaxUint64)
	buf = AppendVLQ(append(buf, 0x90, 62, 64), 480)
	buf = append(buf, 0x80, 62, 0, 0x00)

	notes, err := Decode(buf)
	require.NoError(t, err)
	// time is pinned at the last tick, so the note on 62 has no length
	assert.Equal(t, model.Notes{{Pitch: 60, Start: 0, Duration: 1}}, notes)

	buf = AppendVLQ([]byte{0x90, 60, 64}, math.MaxUint64)
	buf = AppendVLQ(append(buf, 0x90, 64, 64), math.MaxUint64)
	buf = AppendVLQ(append(buf, 0x80, 60, 0), 1)
	buf = append(buf, 0x80, 64, 0, 0x00)

	notes, err = Decode(buf)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, uint8(60), notes[0].Pitch)
	assert.Equal(t, float64(uint64(math.MaxUint64))/480, notes[0].Duration)
}
