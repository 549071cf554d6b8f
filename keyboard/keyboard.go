// Package keyboard maps the sounding notes onto piano keys.
package keyboard

import (
	"fmt"
	"strings"

	"github.com/jsphweid/pianov/active"
	"github.com/jsphweid/pianov/constants"
	"github.com/jsphweid/pianov/model"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func IsWhiteKey(pitch uint8) bool {
	switch pitch % 12 {
	case 0, 2, 4, 5, 7, 9, 11:
		return true
	}
	return false
}

// PitchName returns scientific pitch notation, 60 is C4.
func PitchName(pitch uint8) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], int(pitch)/12-1)
}

// Layout is an inclusive range of keys.
type Layout struct {
	Low  uint8
	High uint8
}

var Default = Layout{Low: constants.KeyboardLow, High: constants.KeyboardHigh}

func (l Layout) Contains(pitch uint8) bool {
	return pitch >= l.Low && pitch <= l.High
}

// Keys returns one state per key in the layout. A key is active when any note
// of that pitch is sounding at t.
func (l Layout) Keys(notes model.Notes, t float64) []model.KeyState {
	var on [256]bool
	for _, n := range notes {
		if l.Contains(n.Pitch) && active.IsActive(n, t) {
			on[n.Pitch] = true
		}
	}
	return l.states(on)
}

// KeysFor builds key states from pitches that are already known to be active.
func (l Layout) KeysFor(pitches []uint8) []model.KeyState {
	var on [256]bool
	for _, p := range pitches {
		on[p] = true
	}
	return l.states(on)
}

func (l Layout) states(on [256]bool) []model.KeyState {
	if l.High < l.Low {
		return nil
	}
	res := make([]model.KeyState, 0, int(l.High-l.Low)+1)
	for p := int(l.Low); p <= int(l.High); p++ {
		pitch := uint8(p)
		res = append(res, model.KeyState{
			Pitch:  pitch,
			Name:   PitchName(pitch),
			White:  IsWhiteKey(pitch),
			Active: on[pitch],
		})
	}
	return res
}

// Render draws keys on one line. White keys are "|_|", black keys "|#|",
// and pressed keys of either colour are "|*|".
func Render(keys []model.KeyState) string {
	var b strings.Builder
	for _, k := range keys {
		switch {
		case k.Active:
			b.WriteString("|*|")
		case k.White:
			b.WriteString("|_|")
		default:
			b.WriteString("|#|")
		}
	}
	return b.String()
}

// Names lists the names of the pressed keys, e.g. "C4 E4 G4".
func Names(keys []model.KeyState) string {
	var names []string
	for _, k := range keys {
		if k.Active {
			names = append(names, k.Name)
		}
	}
	return strings.Join(names, " ")
}
