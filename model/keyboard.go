package model

type KeyState struct {
	Pitch  uint8  `json:"pitch"`
	Name   string `json:"name"`
	White  bool   `json:"white"`
	Active bool   `json:"active"`
}
