package decoder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVLQ(t *testing.T) {
	cases := []struct {
		buf   []byte
		value uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x40}, 0x40},
		{[]byte{0x7F}, 0x7F},
		{[]byte{0x81, 0x00}, 0x80},
		{[]byte{0xC0, 0x00}, 0x2000},
		{[]byte{0xFF, 0x7F}, 0x3FFF},
		{[]byte{0x81, 0x80, 0x00}, 0x4000},
		{[]byte{0xFF, 0xFF, 0x7F}, 0x1FFFFF},
		{[]byte{0x81, 0x80, 0x80, 0x00}, 0x200000},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 0xFFFFFFF},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("% X", c.buf), func(t *testing.T) {
			value, next, err := ReadVLQ(c.buf, 0)
			require.NoError(t, err)
			assert.Equal(t, c.value, value)
			assert.Equal(t, len(c.buf), next)
			assert.Equal(t, c.buf, AppendVLQ(nil, c.value))
		})
	}
}

func TestReadVLQHasNoWidthLimit(t *testing.T) {
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	value, next, err := ReadVLQ(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), value)
	assert.Equal(t, 6, next)
}

func TestReadVLQFromOffset(t *testing.T) {
	buf := []byte{0x90, 60, 64, 0x83, 0x60, 0xAA}
	value, next, err := ReadVLQ(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(480), value)
	assert.Equal(t, 5, next)
}

func TestReadVLQTruncated(t *testing.T) {
	_, _, err := ReadVLQ([]byte{0x81, 0x80}, 0)
	assert.ErrorIs(t, err, ErrUnexpectedEndOfStream)

	_, _, err = ReadVLQ([]byte{0x00}, 1)
	assert.ErrorIs(t, err, ErrUnexpectedEndOfStream)
}

func TestVLQRoundTrip(t *testing.T) {
	for v := uint64(0); v < 1<<28; v = v*3 + 1 {
		buf := AppendVLQ(nil, v)
		assert.LessOrEqual(t, len(buf), 4)
		got, next, err := ReadVLQ(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(buf), next)
	}
	got, _, err := ReadVLQ(AppendVLQ(nil, 1<<28-1), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<28-1), got)
}
