package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestState() (*State, *manualClock) {
	clk := &manualClock{now: time.Unix(1700000000, 0)}
	s := NewState()
	s.clock = clk
	s.rng = rand.New(rand.NewSource(1))
	return s, clk
}

// checkSeatInvariant asserts the core room invariant: every occupied seat
// references a live participant whose SeatIndex and RoomID point back, and
// the host (if any) occupies seat 0.
func checkSeatInvariant(t *testing.T, s *State) {
	t.Helper()
	for _, room := range s.Rooms {
		for i, id := range room.Seats {
			if id == "" {
				continue
			}
			p := s.Participants[id]
			require.NotNil(t, p, "seat %d references dead participant %s", i, id)
			require.Equal(t, i, p.SeatIndex)
			require.Equal(t, room.ID, p.RoomID)
		}
		if room.HostID != "" {
			require.Equal(t, room.HostID, room.Seats[0], "host must occupy seat 0")
		}
	}
}

func TestRegisterJoinsDefaultRoom(t *testing.T) {
	s, _ := newTestState()
	p, events := s.Register()

	require.NotEmpty(t, p.ID)
	assert.Equal(t, "player", p.Name)
	assert.Equal(t, RoleObserver, p.Role)
	assert.Equal(t, DefaultRoomID, p.RoomID)
	assert.Equal(t, -1, p.SeatIndex)
	assert.False(t, p.Caught)
	assert.Nil(t, p.Geo)
	assert.GreaterOrEqual(t, p.X, 0.0)
	assert.LessOrEqual(t, p.X, 1.0)

	require.Len(t, events, 1)
	assert.Equal(t, EvtRoomChanged, events[0].Type)
	assert.Equal(t, DefaultRoomID, events[0].RoomID)

	room := s.Rooms[DefaultRoomID]
	require.NotNil(t, room)
	assert.Equal(t, PhaseLobby, room.Phase)
	assert.Empty(t, room.HostID)
}

func TestTakeSeatAssignsSeatAndName(t *testing.T) {
	s, _ := newTestState()
	p, _ := s.Register()

	events := s.TakeSeat(p.ID, 2)
	require.Len(t, events, 1)
	assert.Equal(t, 2, p.SeatIndex)
	assert.Equal(t, "Player 3", p.Name)
	assert.Equal(t, p.ID, s.Rooms[DefaultRoomID].Seats[2])
	checkSeatInvariant(t, s)
}

func TestTakeSeatRejectsOccupiedAndOutOfRange(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()
	s.TakeSeat(a.ID, 1)

	assert.Nil(t, s.TakeSeat(b.ID, 1), "occupied seat")
	assert.Nil(t, s.TakeSeat(b.ID, -1))
	assert.Nil(t, s.TakeSeat(b.ID, MaxSeats))
	assert.Equal(t, -1, b.SeatIndex)
	checkSeatInvariant(t, s)
}

func TestSeatZeroReservedWhileHosted(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()

	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)
	require.Equal(t, 0, a.SeatIndex)

	assert.Nil(t, s.TakeSeat(b.ID, 0))
	assert.Equal(t, -1, b.SeatIndex)
	assert.Equal(t, a.ID, s.Rooms[DefaultRoomID].Seats[0])
	checkSeatInvariant(t, s)
}

func TestTakeSeatOwnSeatIsIdempotent(t *testing.T) {
	s, _ := newTestState()
	p, _ := s.Register()
	s.TakeSeat(p.ID, 3)

	before, ok := s.RoomView(DefaultRoomID)
	require.True(t, ok)

	events := s.TakeSeat(p.ID, 3)
	require.Len(t, events, 1, "still broadcasts")

	after, _ := s.RoomView(DefaultRoomID)
	assert.Equal(t, before, after, "re-taking the held seat must change nothing observable")
}

func TestSetHostSwapsWithSeatedRequester(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()

	_, err := s.SetHost(a.ID, true) // a takes seat 0
	require.NoError(t, err)
	s.TakeSeat(b.ID, 2)

	_, err = s.SetHost(b.ID, true)
	require.NoError(t, err)

	room := s.Rooms[DefaultRoomID]
	assert.Equal(t, b.ID, room.Seats[0])
	assert.Equal(t, a.ID, room.Seats[2])
	assert.Equal(t, b.ID, room.HostID)
	assert.Equal(t, "Host", b.Name)
	assert.Equal(t, "Player 3", a.Name)
	checkSeatInvariant(t, s)
}

func TestSetHostRelocatesCenterForUnseatedRequester(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()

	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)

	_, err = s.SetHost(b.ID, true) // b is unseated; a must move aside
	require.NoError(t, err)

	room := s.Rooms[DefaultRoomID]
	assert.Equal(t, b.ID, room.Seats[0])
	assert.Equal(t, b.ID, room.HostID)
	assert.Equal(t, "Host", b.Name)
	assert.Equal(t, 1, a.SeatIndex, "center occupant relocated to first free seat")
	assert.Equal(t, "Player 2", a.Name)
	checkSeatInvariant(t, s)
}

func TestSetHostFailsWhenNoFreeSeat(t *testing.T) {
	s, _ := newTestState()
	var seated []*Participant
	for i := 0; i < MaxSeats; i++ {
		p, _ := s.Register()
		seated = append(seated, p)
	}
	_, err := s.SetHost(seated[0].ID, true)
	require.NoError(t, err)
	for i := 1; i < MaxSeats; i++ {
		require.Len(t, s.TakeSeat(seated[i].ID, i), 1)
	}

	late, _ := s.Register()
	before, _ := s.RoomView(DefaultRoomID)

	events, err := s.SetHost(late.ID, true)
	require.ErrorIs(t, err, ErrNoFreeSeat)
	assert.Equal(t, "No free seat to move current center player.", err.Error())
	assert.Nil(t, events)

	after, _ := s.RoomView(DefaultRoomID)
	assert.Equal(t, before, after, "failed host claim must not mutate state")
	checkSeatInvariant(t, s)
}

func TestUnhostRestoresSeatName(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)
	require.Equal(t, "Host", a.Name)

	events, err := s.SetHost(a.ID, false)
	require.NoError(t, err)
	require.Len(t, events, 1)

	room := s.Rooms[DefaultRoomID]
	assert.Empty(t, room.HostID)
	assert.Equal(t, 0, a.SeatIndex, "unhosting keeps the seat")
	assert.Equal(t, "Player 1", a.Name)
	checkSeatInvariant(t, s)
}

func TestUnhostIgnoredForNonHost(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)

	events, err := s.SetHost(b.ID, false)
	require.NoError(t, err)
	assert.Nil(t, events)
	assert.Equal(t, a.ID, s.Rooms[DefaultRoomID].HostID)
}

func TestLeaveSeatResetsParticipant(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)

	events := s.LeaveSeat(a.ID)
	require.Len(t, events, 1)

	room := s.Rooms[DefaultRoomID]
	assert.Empty(t, room.HostID, "leaver was host")
	assert.Empty(t, room.Seats[0])
	assert.Equal(t, -1, a.SeatIndex)
	assert.Equal(t, "player", a.Name)
	assert.Equal(t, RoleObserver, a.Role)
	checkSeatInvariant(t, s)
}

func TestLeaveSeatIgnoredWhileRunning(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)
	_, err = s.StartGame(a.ID)
	require.NoError(t, err)

	assert.Nil(t, s.LeaveSeat(a.ID))
	assert.Equal(t, 0, a.SeatIndex)
}

func TestStartGameAssignsRolesAndTarget(t *testing.T) {
	s, clk := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()
	c, _ := s.Register()

	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)
	s.TakeSeat(b.ID, 1)
	s.TakeSeat(c.ID, 2)

	events, err := s.StartGame(a.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EvtRoomChanged, events[0].Type)
	require.Equal(t, EvtStarted, events[1].Type)
	assert.Equal(t, 3, events[1].TargetCount)
	assert.Contains(t, []string{a.ID, b.ID, c.ID}, events[1].CatID)

	room := s.Rooms[DefaultRoomID]
	assert.Equal(t, PhaseRunning, room.Phase)
	assert.Equal(t, 3, room.TargetCount)
	assert.Equal(t, clk.now, room.StartedAt)

	cats, mice := 0, 0
	for _, p := range []*Participant{a, b, c} {
		assert.False(t, p.Caught)
		assert.Equal(t, clk.now, p.LastUpdate)
		switch p.Role {
		case RoleCat:
			cats++
			assert.Equal(t, events[1].CatID, p.ID)
		case RoleMouse:
			mice++
		}
	}
	assert.Equal(t, 1, cats)
	assert.Equal(t, 2, mice)
}

func TestStartGameOnlyHost(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)
	s.TakeSeat(b.ID, 1)

	events, err := s.StartGame(b.ID)
	require.ErrorIs(t, err, ErrOnlyHostCanStart)
	assert.Equal(t, "Only host can start the game.", err.Error())
	assert.Nil(t, events)
	assert.Equal(t, PhaseLobby, s.Rooms[DefaultRoomID].Phase)
}

func TestStartGameTwiceFails(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)

	_, err = s.StartGame(a.ID)
	require.NoError(t, err)

	_, err = s.StartGame(a.ID)
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestUpdatePositionClampsAndRejects(t *testing.T) {
	s, _ := newTestState()
	p, _ := s.Register()

	s.UpdatePosition(p.ID, 1.5, -0.3)
	assert.Equal(t, 1.0, p.X)
	assert.Equal(t, 0.0, p.Y)

	s.UpdatePosition(p.ID, math.NaN(), 0.5)
	assert.Equal(t, 1.0, p.X, "non-finite update must be a no-op")
	s.UpdatePosition(p.ID, 0.5, math.Inf(1))
	assert.Equal(t, 0.0, p.Y)

	s.UpdatePosition("nope", 0.5, 0.5)
}

func TestUpdateGeoClampsAndFlagsReadiness(t *testing.T) {
	s, clk := newTestState()
	p, _ := s.Register()
	s.TakeSeat(p.ID, 1)

	view, _ := s.RoomView(DefaultRoomID)
	assert.False(t, view.Seats[1].GeoReady)

	acc := -5.0
	events := s.UpdateGeo(p.ID, 95, -200, &acc, nil)
	require.Len(t, events, 1, "geo readiness changes the public seat view")
	assert.Equal(t, EvtRoomChanged, events[0].Type)

	require.NotNil(t, p.Geo)
	assert.Equal(t, 90.0, p.Geo.Lat)
	assert.Equal(t, -180.0, p.Geo.Lon)
	require.NotNil(t, p.Geo.Accuracy)
	assert.Equal(t, 0.0, *p.Geo.Accuracy)
	assert.Equal(t, float64(clk.now.UnixMilli()), p.Geo.TS)

	view, _ = s.RoomView(DefaultRoomID)
	assert.True(t, view.Seats[1].GeoReady)

	assert.Nil(t, s.UpdateGeo(p.ID, math.NaN(), 10, nil, nil))
	assert.Equal(t, 90.0, p.Geo.Lat, "invalid fix must not overwrite the last one")

	events = s.UpdateGeo(p.ID, 10, 20, nil, nil)
	require.Len(t, events, 1)
	assert.Nil(t, p.Geo.Accuracy, "missing accuracy is recorded as unknown")
}

func TestDisconnectReleasesSeatAndHost(t *testing.T) {
	s, _ := newTestState()
	a, _ := s.Register()
	b, _ := s.Register()
	_, err := s.SetHost(a.ID, true)
	require.NoError(t, err)
	s.TakeSeat(b.ID, 1)

	events := s.Disconnect(a.ID)
	require.Len(t, events, 1)
	assert.Equal(t, EvtRoomChanged, events[0].Type)

	room := s.Rooms[DefaultRoomID]
	assert.Empty(t, room.HostID)
	assert.Empty(t, room.Seats[0])
	assert.NotContains(t, s.Participants, a.ID)
	checkSeatInvariant(t, s)
}

func TestDisconnectDestroysEmptyNonDefaultRoom(t *testing.T) {
	s, _ := newTestState()
	p, _ := s.Register()

	side := &Room{ID: "SIDE", Phase: PhaseLobby, TargetCount: MinPlayers}
	s.Rooms[side.ID] = side
	p.RoomID = side.ID
	require.Len(t, s.TakeSeat(p.ID, 1), 1)

	events := s.Disconnect(p.ID)
	assert.Nil(t, events, "no members left to notify")
	assert.NotContains(t, s.Rooms, "SIDE")
	assert.Contains(t, s.Rooms, DefaultRoomID, "the default room is never destroyed")
}

func TestDefaultRoomSurvivesLastDisconnect(t *testing.T) {
	s, _ := newTestState()
	p, _ := s.Register()
	s.TakeSeat(p.ID, 0)

	s.Disconnect(p.ID)
	assert.Contains(t, s.Rooms, DefaultRoomID)
	assert.Empty(t, s.Rooms[DefaultRoomID].Seats[0])
}
