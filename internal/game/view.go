package game

// RoomView is the low-frequency public room state. It deliberately omits
// raw coordinates and GPS payloads; those travel on the per-tick players
// channel only.
type RoomView struct {
	ID          string     `json:"id"`
	HostID      string     `json:"hostId,omitempty"`
	TargetCount int        `json:"targetCount"`
	Phase       Phase      `json:"phase"`
	StartedAt   int64      `json:"startedAt,omitempty"`
	Seats       []SeatView `json:"seats"`
}

type SeatView struct {
	Index         int    `json:"index"`
	Empty         bool   `json:"empty"`
	ParticipantID string `json:"participantId,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          Role   `json:"role,omitempty"`
	GeoReady      bool   `json:"geoReady"`
}

// PlayerView is the high-frequency live snapshot of one seated participant.
type PlayerView struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Role   Role         `json:"role"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Caught bool         `json:"caught"`
	Last   int64        `json:"last"`
	Geo    *GeoPosition `json:"gps,omitempty"`
}

func (s *State) RoomView(roomID string) (RoomView, bool) {
	room := s.room(roomID)
	if room == nil {
		return RoomView{}, false
	}
	view := RoomView{
		ID:          room.ID,
		HostID:      room.HostID,
		TargetCount: room.TargetCount,
		Phase:       room.Phase,
		Seats:       make([]SeatView, MaxSeats),
	}
	if !room.StartedAt.IsZero() {
		view.StartedAt = room.StartedAt.UnixMilli()
	}
	for i, id := range room.Seats {
		seat := SeatView{Index: i, Empty: true}
		if p := s.Participants[id]; id != "" && p != nil {
			seat.Empty = false
			seat.ParticipantID = id
			seat.Name = p.Name
			seat.Role = p.Role
			seat.GeoReady = p.Geo != nil
		}
		view.Seats[i] = seat
	}
	return view, true
}

// PlayersView maps participant id to live fields for every occupied seat.
func (s *State) PlayersView(roomID string) map[string]PlayerView {
	room := s.room(roomID)
	if room == nil {
		return nil
	}
	out := make(map[string]PlayerView)
	for _, id := range room.seatedIDs() {
		p := s.Participants[id]
		if p == nil {
			continue
		}
		out[id] = PlayerView{
			ID:     p.ID,
			Name:   p.Name,
			Role:   p.Role,
			X:      p.X,
			Y:      p.Y,
			Caught: p.Caught,
			Last:   p.LastUpdate.UnixMilli(),
			Geo:    p.Geo,
		}
	}
	return out
}
