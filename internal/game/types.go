package game

import "time"

const (
	MaxSeats   = 6
	MinPlayers = 3
	MaxPlayers = 6

	// CatchDist is the catch radius in normalized-space units; CatchHold is
	// how long a cat must stay inside it before the catch registers.
	CatchDist = 0.06
	CatchHold = 1200 * time.Millisecond

	TickInterval = 150 * time.Millisecond

	DefaultRoomID = "LOBBY"
)

type Role string

const (
	RoleObserver Role = "observer"
	RoleCat      Role = "cat"
	RoleMouse    Role = "mouse"
)

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseRunning Phase = "running"
)

// Participant is one live connection. SeatIndex is -1 while unseated.
type Participant struct {
	ID         string
	Name       string
	Role       Role
	RoomID     string
	SeatIndex  int
	X, Y       float64
	LastUpdate time.Time
	Caught     bool
	Geo        *GeoPosition
}

// GeoPosition is the last device GPS fix a participant reported.
// Accuracy is nil when the device did not provide one.
type GeoPosition struct {
	Lat      float64  `json:"lat"`
	Lon      float64  `json:"lon"`
	Accuracy *float64 `json:"accuracy"`
	TS       float64  `json:"ts"`
}

// Room seats hold participant ids; "" means the slot is empty. Seat 0 is
// reserved for the host.
type Room struct {
	ID          string
	HostID      string
	TargetCount int
	Phase       Phase
	Seats       [MaxSeats]string
	StartedAt   time.Time
}

func (r *Room) seatedIDs() []string {
	ids := make([]string, 0, MaxSeats)
	for _, id := range r.Seats {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
