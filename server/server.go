// Package server exposes the loaded notes, the clock and the keyboard over
// HTTP so a browser can draw the keys.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/pianov/clock"
	"github.com/jsphweid/pianov/decoder"
	"github.com/jsphweid/pianov/keyboard"
	"github.com/jsphweid/pianov/model"
	"github.com/jsphweid/pianov/store"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// 16 MiB is far more than any song needs
const maxUploadSize = 16 << 20

type Server struct {
	Store    *store.Store
	Clock    *clock.Clock
	Layout   keyboard.Layout
	MediaDir string

	// context the clock runs in; the server's lifetime
	ctx context.Context
}

func New(ctx context.Context, s *store.Store, c *clock.Clock, layout keyboard.Layout, mediaDir string) *Server {
	return &Server{
		Store:    s,
		Clock:    c,
		Layout:   layout,
		MediaDir: mediaDir,
		ctx:      ctx,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/load", s.HandleLoad).Methods("POST")
	router.HandleFunc("/load/{name}", s.HandleLoadFile).Methods("POST")
	router.HandleFunc("/notes", s.HandleNotes).Methods("GET")
	router.HandleFunc("/active", s.HandleActive).Methods("GET")
	router.HandleFunc("/keyboard", s.HandleKeyboard).Methods("GET")
	router.HandleFunc("/clock", s.HandleClock).Methods("GET")
	router.HandleFunc("/clock/start", s.HandleClockStart).Methods("POST")
	router.HandleFunc("/clock/stop", s.HandleClockStop).Methods("POST")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithField("function", "writeJSON").Error(err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func loadStatus(err error) int {
	switch {
	case errors.Is(err, decoder.ErrUnexpectedEndOfStream), errors.Is(err, decoder.ErrNoNotesFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func toLoadResponse(c *store.Collection) model.LoadResponse {
	return model.LoadResponse{
		Id:       c.Id.String(),
		Source:   c.Source,
		NumNotes: len(c.Notes),
		LoadedAt: c.LoadedAt,
	}
}

func (s *Server) HandleLoad(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not read request body"))
		return
	}

	source := r.URL.Query().Get("name")
	if source == "" {
		source = "upload"
	}
	c, err := s.Store.Load(source, body)
	if err != nil {
		writeError(w, loadStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toLoadResponse(c))
}

func (s *Server) HandleLoadFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name != filepath.Base(name) || name == "." || name == ".." {
		writeError(w, http.StatusBadRequest, errors.Errorf("bad file name %q", name))
		return
	}

	c, err := s.Store.LoadFile(filepath.Join(s.MediaDir, name))
	if err != nil {
		writeError(w, loadStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, toLoadResponse(c))
}

func (s *Server) HandleNotes(w http.ResponseWriter, r *http.Request) {
	c := s.Store.Current()
	res := model.NotesResponse{
		Source: c.Source,
		Notes:  c.Notes,
	}
	if !c.IsEmpty() {
		res.Id = c.Id.String()
	}
	if res.Notes == nil {
		res.Notes = model.Notes{}
	}
	writeJSON(w, http.StatusOK, res)
}

// queryTime reads ?t=, falling back to the clock.
func (s *Server) queryTime(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		return s.Clock.Now(), nil
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Errorf("bad time %q", raw)
	}
	return t, nil
}

func (s *Server) HandleActive(w http.ResponseWriter, r *http.Request) {
	t, err := s.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c := s.Store.Current()
	res := model.ActiveResponse{
		Time:    t,
		Notes:   c.ActiveAt(t),
		Pitches: []int{},
	}
	if res.Notes == nil {
		res.Notes = model.Notes{}
	}
	for _, p := range c.PitchesAt(t) {
		res.Pitches = append(res.Pitches, int(p))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleKeyboard(w http.ResponseWriter, r *http.Request) {
	t, err := s.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	keys := s.Layout.KeysFor(s.Store.Current().PitchesAt(t))
	writeJSON(w, http.StatusOK, model.KeyboardResponse{Time: t, Keys: keys})
}

func (s *Server) clockResponse() model.ClockResponse {
	return model.ClockResponse{Time: s.Clock.Now(), Running: s.Clock.Running()}
}

func (s *Server) HandleClock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.clockResponse())
}

func (s *Server) HandleClockStart(w http.ResponseWriter, r *http.Request) {
	s.Clock.Start(s.ctx)
	writeJSON(w, http.StatusOK, s.clockResponse())
}

func (s *Server) HandleClockStop(w http.ResponseWriter, r *http.Request) {
	s.Clock.Stop()
	writeJSON(w, http.StatusOK, s.clockResponse())
}
