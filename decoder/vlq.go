package decoder

import "github.com/pkg/errors"

const (
	vlqMask     = 0x7F
	vlqContinue = 0x80
	vlqShift    = 7
)

// ReadVLQ reads a big-endian base-128 variable-length quantity starting at
// offset and returns the value and the offset just past it. There is no width
// limit: it stops at the first byte with the high bit clear or fails when the
// buffer runs out first.
func ReadVLQ(buf []byte, offset int) (uint64, int, error) {
	var value uint64
	for {
		if offset >= len(buf) {
			return 0, offset, errors.Wrapf(ErrUnexpectedEndOfStream, "delta time at offset %d", offset)
		}
		b := buf[offset]
		offset++
		value = (value << vlqShift) | uint64(b&vlqMask)
		if b&vlqContinue == 0 {
			return value, offset, nil
		}
	}
}

// AppendVLQ appends the variable-length encoding of v to dst.
func AppendVLQ(dst []byte, v uint64) []byte {
	var tmp [10]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & vlqMask)
	for v >>= vlqShift; v > 0; v >>= vlqShift {
		i--
		tmp[i] = byte(v&vlqMask) | vlqContinue
	}
	return append(dst, tmp[i:]...)
}
