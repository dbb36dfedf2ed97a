package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// State owns every participant, room and dwell timer. It is not safe for
// concurrent use: all mutation must happen on a single goroutine (the
// session loop), which is what keeps check-then-act validation sound.
type State struct {
	Participants map[string]*Participant
	Rooms        map[string]*Room

	timers map[pairKey]time.Time
	clock  Clock
	rng    *rand.Rand
}

func NewState() *State {
	return &State{
		Participants: make(map[string]*Participant),
		Rooms:        make(map[string]*Room),
		timers:       make(map[pairKey]time.Time),
		clock:        systemClock{},
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// EnsureDefaultRoom lazily creates the well-known room. It is never
// destroyed, even when empty.
func (s *State) EnsureDefaultRoom() *Room {
	if r, ok := s.Rooms[DefaultRoomID]; ok {
		return r
	}
	r := &Room{
		ID:          DefaultRoomID,
		TargetCount: MinPlayers,
		Phase:       PhaseLobby,
	}
	s.Rooms[DefaultRoomID] = r
	return r
}

// Register creates a participant with defaults and joins it to the default
// room. Everyone starts as an unseated observer at a random position.
func (s *State) Register() (*Participant, []Event) {
	room := s.EnsureDefaultRoom()
	p := &Participant{
		ID:         uuid.NewString(),
		Name:       "player",
		Role:       RoleObserver,
		RoomID:     room.ID,
		SeatIndex:  -1,
		X:          s.rng.Float64(),
		Y:          s.rng.Float64(),
		LastUpdate: s.clock.Now(),
	}
	s.Participants[p.ID] = p
	return p, []Event{{Type: EvtRoomChanged, RoomID: room.ID}}
}

func (s *State) room(id string) *Room {
	if id == "" {
		return nil
	}
	return s.Rooms[id]
}

// Members returns the ids of every participant currently in the room,
// seated or not. Observers receive room broadcasts too.
func (s *State) Members(roomID string) []string {
	var ids []string
	for id, p := range s.Participants {
		if p.RoomID == roomID {
			ids = append(ids, id)
		}
	}
	return ids
}

// UpdatePosition ingests a screen-relative position report. Unknown ids,
// roomless participants and non-finite coordinates are dropped.
func (s *State) UpdatePosition(id string, x, y float64) {
	p := s.Participants[id]
	if p == nil || p.RoomID == "" {
		return
	}
	if !isFinite(x) || !isFinite(y) {
		return
	}
	p.X = clamp01(x)
	p.Y = clamp01(y)
	p.LastUpdate = s.clock.Now()
}

// UpdateGeo ingests a device GPS fix. Geo readiness is part of the public
// seat view, so a successful update re-broadcasts the room.
func (s *State) UpdateGeo(id string, lat, lon float64, accuracy, ts *float64) []Event {
	p := s.Participants[id]
	if p == nil {
		return nil
	}
	if !isFinite(lat) || !isFinite(lon) {
		return nil
	}

	geo := &GeoPosition{
		Lat: math.Max(-90, math.Min(90, lat)),
		Lon: math.Max(-180, math.Min(180, lon)),
	}
	if accuracy != nil && isFinite(*accuracy) {
		a := math.Max(0, *accuracy)
		geo.Accuracy = &a
	}
	if ts != nil && isFinite(*ts) {
		geo.TS = *ts
	} else {
		geo.TS = float64(s.clock.Now().UnixMilli())
	}
	p.Geo = geo
	p.LastUpdate = s.clock.Now()

	if p.RoomID == "" {
		return nil
	}
	return []Event{{Type: EvtRoomChanged, RoomID: p.RoomID}}
}

// Disconnect releases the participant's seat and host claim, removes the
// record and purges any dwell timers that reference it. A non-default room
// left empty is destroyed.
func (s *State) Disconnect(id string) []Event {
	p := s.Participants[id]
	if p == nil {
		return nil
	}

	var events []Event
	if room := s.room(p.RoomID); room != nil {
		if p.SeatIndex >= 0 && room.Seats[p.SeatIndex] == id {
			room.Seats[p.SeatIndex] = ""
		}
		if room.HostID == id {
			room.HostID = ""
		}
		if len(room.seatedIDs()) == 0 && room.ID != DefaultRoomID {
			delete(s.Rooms, room.ID)
		} else {
			events = []Event{{Type: EvtRoomChanged, RoomID: room.ID}}
		}
	}
	p.RoomID = ""
	p.SeatIndex = -1
	p.Role = RoleObserver

	delete(s.Participants, id)
	s.purgeTimers(id)
	return events
}

func clamp01(n float64) float64 {
	return math.Max(0, math.Min(1, n))
}

func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
