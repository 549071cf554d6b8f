package decoder

import "github.com/pkg/errors"

var (
	// ErrUnexpectedEndOfStream means the buffer ended in the middle of an
	// event or a delta-time.
	ErrUnexpectedEndOfStream = errors.New("unexpected end of midi data")

	// ErrNoNotesFound means the stream parsed but closed no notes. Usually a
	// wrong or empty file.
	ErrNoNotesFound = errors.New("no notes found in midi data")
)
