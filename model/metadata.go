package model

type SongMetadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   uint   `json:"year,omitempty"`
}
