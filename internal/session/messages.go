package session

import (
	"catmouse/internal/game"
	"catmouse/internal/types"
)

type Msg interface{ isSessionMsg() }

// Connect registers a new participant. The session replies with a Welcome
// and then sends the hello frame and current room state to the outbox.
type Connect struct {
	Outbox chan types.ServerMessage
	Reply  chan Welcome
}

func (Connect) isSessionMsg() {}

type Welcome struct {
	ID string
}

// Disconnect is the transport-level goodbye: seat/host release, record
// removal and dwell-timer purge.
type Disconnect struct{ ID string }

func (Disconnect) isSessionMsg() {}

// FromClient carries one decoded inbound frame.
type FromClient struct {
	ID  string
	Msg types.ClientMessage
}

func (FromClient) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// GetState reflects internal state without data races; test-only.
type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type View struct {
	NumClients int
	Room       game.RoomView
}
