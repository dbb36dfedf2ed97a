package game

import "math"

// pairKey identifies one dwell timer. The value in the timers map is when
// this pair's continuous sub-threshold proximity began.
type pairKey struct {
	roomID  string
	catID   string
	mouseID string
}

// Tick evaluates catch rules for every running room: any cat within
// CatchDist of an uncaught mouse for CatchHold of continuous tick time
// catches it. Separation at any point resets the dwell clock. Each running
// room also gets a live-fields snapshot event.
func (s *State) Tick() []Event {
	var events []Event
	now := s.clock.Now()

	for _, room := range s.Rooms {
		if room.Phase != PhaseRunning {
			continue
		}

		var cats, mice []*Participant
		for _, id := range room.seatedIDs() {
			p := s.Participants[id]
			if p == nil {
				continue
			}
			switch {
			case p.Role == RoleCat:
				cats = append(cats, p)
			case p.Role == RoleMouse && !p.Caught:
				mice = append(mice, p)
			}
		}

		for _, cat := range cats {
			for _, mouse := range mice {
				d := math.Hypot(cat.X-mouse.X, cat.Y-mouse.Y)
				key := pairKey{roomID: room.ID, catID: cat.ID, mouseID: mouse.ID}

				if d >= CatchDist {
					delete(s.timers, key)
					continue
				}
				start, ok := s.timers[key]
				if !ok {
					start = now
					s.timers[key] = start
				}
				if now.Sub(start) >= CatchHold {
					mouse.Caught = true
					events = append(events, Event{
						Type:    EvtCaught,
						RoomID:  room.ID,
						MouseID: mouse.ID,
						CatID:   cat.ID,
					})
					delete(s.timers, key)
				}
			}
		}

		events = append(events, Event{Type: EvtPlayersChanged, RoomID: room.ID})
	}
	return events
}

// purgeTimers removes every dwell timer referencing the id, as cat or
// mouse. Called on disconnect so no ghost participant can be promoted
// into a catch.
func (s *State) purgeTimers(id string) {
	for key := range s.timers {
		if key.catID == id || key.mouseID == id {
			delete(s.timers, key)
		}
	}
}
