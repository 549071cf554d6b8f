package active

import (
	"math"
	"sort"

	"github.com/jsphweid/pianov/model"
)

// notes longer than this many quarters are checked on every lookup instead
// of being spread over buckets
const maxBucketSpan = 64

// Index buckets notes by whole quarter note so a lookup only checks the notes
// overlapping that quarter. Build one per collection; it is read-only after.
type Index struct {
	notes   model.Notes
	buckets map[int64][]int
	long    []int
}

func bucketOf(t float64) int64 {
	return int64(math.Floor(t))
}

func NewIndex(notes model.Notes) *Index {
	idx := &Index{
		notes:   notes,
		buckets: make(map[int64][]int),
	}
	for i, n := range notes {
		first := bucketOf(n.Start)
		last := bucketOf(n.End())
		if last-first > maxBucketSpan {
			idx.long = append(idx.long, i)
			continue
		}
		for b := first; b <= last; b++ {
			idx.buckets[b] = append(idx.buckets[b], i)
		}
	}
	return idx
}

// At returns the same notes as Notes(notes, t), in collection order.
func (idx *Index) At(t float64) model.Notes {
	candidates := idx.buckets[bucketOf(t)]
	if len(idx.long) > 0 {
		candidates = append(append([]int(nil), candidates...), idx.long...)
		sort.Ints(candidates)
	}

	var res model.Notes
	for _, i := range candidates {
		if IsActive(idx.notes[i], t) {
			res = append(res, idx.notes[i])
		}
	}
	return res
}

func (idx *Index) PitchesAt(t float64) []uint8 {
	return pitchesOf(idx.At(t))
}

func (idx *Index) Len() int {
	return len(idx.notes)
}
