// Package store holds the note collection that is currently loaded.
//
// A load decodes into a fresh Collection and publishes it with a single
// pointer swap, so readers only ever see a whole collection: the previous one
// or the new one. Collections are never modified after publishing.
package store

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/pianov/active"
	"github.com/jsphweid/pianov/decoder"
	"github.com/jsphweid/pianov/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Collection struct {
	Id       uuid.UUID
	Source   string
	Notes    model.Notes
	LoadedAt time.Time

	index *active.Index
}

var empty = &Collection{index: active.NewIndex(nil)}

func (c *Collection) IsEmpty() bool {
	return len(c.Notes) == 0
}

// ActiveAt returns the notes of c sounding at t.
func (c *Collection) ActiveAt(t float64) model.Notes {
	return c.index.At(t)
}

func (c *Collection) PitchesAt(t float64) []uint8 {
	return c.index.PitchesAt(t)
}

// End is the time the last note stops.
func (c *Collection) End() float64 {
	var end float64
	for _, n := range c.Notes {
		if n.End() > end {
			end = n.End()
		}
	}
	return end
}

type Store struct {
	current atomic.Pointer[Collection]
}

func New() *Store {
	return &Store{}
}

// Current returns the published collection, or an empty one if nothing has
// been loaded yet.
func (s *Store) Current() *Collection {
	if c := s.current.Load(); c != nil {
		return c
	}
	return empty
}

// Load decodes buf and, if that succeeds, publishes it as the current
// collection. On error the current collection is left as it was.
func (s *Store) Load(source string, buf []byte) (*Collection, error) {
	logger := log.WithFields(log.Fields{
		"function": "Store.Load",
		"source":   source,
	})

	notes, err := decoder.Decode(buf)
	if err != nil {
		logger.WithField("bytes", len(buf)).Warn(err.Error())
		return nil, errors.Wrapf(err, "could not decode %s", source)
	}

	c := &Collection{
		Id:       uuid.New(),
		Source:   source,
		Notes:    notes,
		LoadedAt: time.Now(),
		index:    active.NewIndex(notes),
	}
	s.current.Store(c)

	logger.WithFields(log.Fields{
		"id":    c.Id,
		"notes": len(notes),
	}).Info("published collection")
	return c, nil
}

func (s *Store) LoadFile(path string) (*Collection, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read midi file")
	}
	return s.Load(path, dat)
}

// Reset drops the current collection.
func (s *Store) Reset() {
	s.current.Store(nil)
	log.WithField("function", "Store.Reset").Debug("collection dropped")
}
