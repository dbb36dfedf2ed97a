package types

import "catmouse/internal/game"

// ClientMessage is every inbound frame. Payload fields are pointers so a
// frame with the wrong shape for its type can be dropped without guessing
// at zero values.
//
// Types: "take-seat" {seatIndex}, "set-host" {asHost}, "leave-seat",
// "start-game", "pos" {x,y}, "gps" {lat,lon,accuracy?,ts?}.
type ClientMessage struct {
	Type      string   `json:"type"`
	SeatIndex *int     `json:"seatIndex,omitempty"`
	AsHost    *bool    `json:"asHost,omitempty"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	TS        *float64 `json:"ts,omitempty"`
}

// ServerMessage is every outbound frame. Exactly one payload field is set
// per type: "hello", "room-state", "players", "game-started", "caught",
// "room-error".
type ServerMessage struct {
	Type    string                     `json:"type"`
	Hello   *Hello                     `json:"hello,omitempty"`
	Room    *game.RoomView             `json:"room,omitempty"`
	Players map[string]game.PlayerView `json:"players,omitempty"`
	Started *Started                   `json:"started,omitempty"`
	Caught  *Caught                    `json:"caught,omitempty"`
	Message string                     `json:"message,omitempty"`
}

// Hello is sent once per connection, before any broadcast.
type Hello struct {
	ID         string `json:"id"`
	MinPlayers int    `json:"minPlayers"`
	MaxPlayers int    `json:"maxPlayers"`
	MaxSeats   int    `json:"maxSeats"`
}

type Started struct {
	RoomID      string `json:"roomId"`
	TargetCount int    `json:"targetCount"`
	CatID       string `json:"catId"`
}

type Caught struct {
	RoomID  string `json:"roomId"`
	MouseID string `json:"mouseId"`
	ByCatID string `json:"byCatId"`
}
