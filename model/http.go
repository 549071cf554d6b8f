package model

import "time"

type LoadResponse struct {
	Id       string    `json:"id"`
	Source   string    `json:"source"`
	NumNotes int       `json:"num_notes"`
	LoadedAt time.Time `json:"loaded_at"`
}

type NotesResponse struct {
	Id     string `json:"id"`
	Source string `json:"source"`
	Notes  Notes  `json:"notes"`
}

type ActiveResponse struct {
	Time    float64 `json:"time"`
	Notes   Notes   `json:"notes"`
	Pitches []int   `json:"pitches"`
}

type KeyboardResponse struct {
	Time float64    `json:"time"`
	Keys []KeyState `json:"keys"`
}

type ClockResponse struct {
	Time    float64 `json:"time"`
	Running bool    `json:"running"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
