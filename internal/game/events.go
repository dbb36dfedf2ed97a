package game

type EventType string

const (
	// EvtRoomChanged asks for a room-state broadcast to the room's members.
	EvtRoomChanged EventType = "RoomChanged"
	// EvtPlayersChanged asks for a live-fields tick snapshot broadcast.
	EvtPlayersChanged EventType = "PlayersChanged"
	// EvtStarted announces a round start.
	EvtStarted EventType = "Started"
	// EvtCaught announces a cat catching a mouse.
	EvtCaught EventType = "Caught"
)

// Event describes a broadcast the caller must perform after an operation.
// Events carry ids only; the caller resolves views against current state.
type Event struct {
	Type        EventType
	RoomID      string
	TargetCount int
	CatID       string
	MouseID     string
}
