package game

import (
	"errors"
	"fmt"
)

// Reported failures; the message text travels verbatim in a room-error
// frame. Everything else in this file rejects silently.
var (
	ErrOnlyHostCanStart = errors.New("Only host can start the game.")
	ErrAlreadyStarted   = errors.New("Game already started.")
	ErrNoSeatedPlayers  = errors.New("Need at least 1 seated player before start.")
	ErrNoFreeSeat       = errors.New("No free seat to move current center player.")
)

func seatName(index int) string {
	return fmt.Sprintf("Player %d", index+1)
}

// TakeSeat moves the participant onto the requested seat. Seat 0 is refused
// while a different participant is host; occupied seats are refused. Taking
// the currently held seat is an observable no-op.
func (s *State) TakeSeat(id string, seat int) []Event {
	p := s.Participants[id]
	if p == nil {
		return nil
	}
	room := s.room(p.RoomID)
	if room == nil || room.Phase != PhaseLobby {
		return nil
	}
	if seat < 0 || seat >= MaxSeats {
		return nil
	}
	if seat == 0 && room.HostID != "" && room.HostID != id {
		return nil
	}
	if room.Seats[seat] != "" && room.Seats[seat] != id {
		return nil
	}

	if p.SeatIndex >= 0 && room.Seats[p.SeatIndex] == id {
		room.Seats[p.SeatIndex] = ""
	}
	room.Seats[seat] = id
	p.SeatIndex = seat
	p.Name = seatName(seat)
	return []Event{{Type: EvtRoomChanged, RoomID: room.ID}}
}

// SetHost claims or gives up the host role. Claiming relocates or swaps with
// the current seat-0 occupant; the only reported failure is a full room with
// nowhere to move them.
func (s *State) SetHost(id string, asHost bool) ([]Event, error) {
	p := s.Participants[id]
	if p == nil {
		return nil, nil
	}
	room := s.room(p.RoomID)
	if room == nil || room.Phase != PhaseLobby {
		return nil, nil
	}

	if !asHost {
		if room.HostID != id {
			return nil, nil
		}
		room.HostID = ""
		if p.SeatIndex >= 0 {
			p.Name = seatName(p.SeatIndex)
		}
		return []Event{{Type: EvtRoomChanged, RoomID: room.ID}}, nil
	}

	center := room.Seats[0]
	switch {
	case p.SeatIndex < 0:
		// Unseated requester: push the current center occupant to a free
		// seat before taking seat 0.
		if center != "" && center != id {
			free := -1
			for i := 1; i < MaxSeats; i++ {
				if room.Seats[i] == "" {
					free = i
					break
				}
			}
			if free == -1 {
				return nil, ErrNoFreeSeat
			}
			room.Seats[free] = center
			if cp := s.Participants[center]; cp != nil {
				cp.SeatIndex = free
				cp.Name = seatName(free)
			}
		}
		room.Seats[0] = id
		p.SeatIndex = 0
		p.Name = "Host"

	case p.SeatIndex != 0:
		// Seated requester: swap seats with the center occupant.
		room.Seats[p.SeatIndex] = center
		room.Seats[0] = id
		if cp := s.Participants[center]; cp != nil {
			cp.SeatIndex = p.SeatIndex
			cp.Name = seatName(p.SeatIndex)
		}
		p.SeatIndex = 0
		p.Name = "Host"

	default:
		p.Name = "Host"
	}

	room.HostID = id
	return []Event{{Type: EvtRoomChanged, RoomID: room.ID}}, nil
}

// LeaveSeat frees the participant's seat and resets it to an observer.
func (s *State) LeaveSeat(id string) []Event {
	p := s.Participants[id]
	if p == nil {
		return nil
	}
	room := s.room(p.RoomID)
	if room == nil || room.Phase != PhaseLobby {
		return nil
	}
	if p.SeatIndex < 0 || room.Seats[p.SeatIndex] != id {
		return nil
	}

	if room.HostID == id {
		room.HostID = ""
	}
	room.Seats[p.SeatIndex] = ""
	p.SeatIndex = -1
	p.Name = "player"
	p.Role = RoleObserver
	p.Caught = false
	return []Event{{Type: EvtRoomChanged, RoomID: room.ID}}
}

// StartGame begins a round: one seated participant becomes the cat, the
// rest become mice, everyone gets a fresh random position.
func (s *State) StartGame(id string) ([]Event, error) {
	p := s.Participants[id]
	if p == nil {
		return nil, nil
	}
	room := s.room(p.RoomID)
	if room == nil {
		return nil, nil
	}

	if room.HostID != id {
		return nil, ErrOnlyHostCanStart
	}
	if room.Phase != PhaseLobby {
		return nil, ErrAlreadyStarted
	}
	seated := room.seatedIDs()
	if len(seated) < 1 {
		return nil, ErrNoSeatedPlayers
	}

	catID := seated[s.rng.Intn(len(seated))]
	room.TargetCount = len(seated)

	now := s.clock.Now()
	for _, sid := range seated {
		sp := s.Participants[sid]
		if sp == nil {
			continue
		}
		sp.Caught = false
		sp.X = s.rng.Float64()
		sp.Y = s.rng.Float64()
		sp.LastUpdate = now
		if sid == catID {
			sp.Role = RoleCat
		} else {
			sp.Role = RoleMouse
		}
	}

	room.Phase = PhaseRunning
	room.StartedAt = now

	return []Event{
		{Type: EvtRoomChanged, RoomID: room.ID},
		{Type: EvtStarted, RoomID: room.ID, TargetCount: room.TargetCount, CatID: catID},
	}, nil
}
