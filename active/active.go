// Package active answers which notes are sounding at a given time.
package active

import (
	"sort"

	"github.com/jsphweid/pianov/model"
)

// IsActive reports whether n is sounding at t. Intervals are half-open:
// a note is active at its start and no longer active at its end.
func IsActive(n model.NoteInterval, t float64) bool {
	return t >= n.Start && t < n.Start+n.Duration
}

// Notes returns the notes sounding at t, in collection order.
func Notes(notes model.Notes, t float64) model.Notes {
	var res model.Notes
	for _, n := range notes {
		if IsActive(n, t) {
			res = append(res, n)
		}
	}
	return res
}

// Pitches returns the distinct pitches sounding at t, lowest first.
func Pitches(notes model.Notes, t float64) []uint8 {
	return pitchesOf(Notes(notes, t))
}

func pitchesOf(notes model.Notes) []uint8 {
	var seen [256]bool
	var res []uint8
	for _, n := range notes {
		if !seen[n.Pitch] {
			seen[n.Pitch] = true
			res = append(res, n.Pitch)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i] < res[j]
	})
	return res
}
