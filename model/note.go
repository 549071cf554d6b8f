package model

// NoteInterval is a closed note: a pitch that started sounding at Start and
// stopped at Start+Duration. Times are in quarter notes.
type NoteInterval struct {
	Pitch    uint8   `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

func (n NoteInterval) End() float64 {
	return n.Start + n.Duration
}

type Notes = []NoteInterval
