package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"catmouse/internal/game"
	"catmouse/internal/types"
)

// Session is the single-threaded owner of all game state. Every mutation —
// inbound client frames, connects, disconnects and the catch-rules tick —
// is serialized through one loop goroutine, so the rules core never sees
// concurrent writers.
type Session struct {
	inbox   chan Msg
	state   *game.State
	clients map[string]chan types.ServerMessage
	tick    time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	log     *zap.Logger
}

func New(parent context.Context, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:   make(chan Msg, 64),
		state:   game.NewState(),
		clients: make(map[string]chan types.ServerMessage),
		tick:    game.TickInterval,
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case <-ticker.C:
			s.dispatch(s.state.Tick())

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Connect:
				s.handleConnect(msg)

			case Disconnect:
				s.handleDisconnect(msg.ID)

			case FromClient:
				s.handleClient(msg.ID, msg.Msg)

			case GetState:
				view, _ := s.state.RoomView(game.DefaultRoomID)
				msg.Reply <- View{NumClients: len(s.clients), Room: view}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleConnect(msg Connect) {
	p, events := s.state.Register()
	s.clients[p.ID] = msg.Outbox
	msg.Reply <- Welcome{ID: p.ID}

	s.sendTo(p.ID, types.ServerMessage{Type: "hello", Hello: &types.Hello{
		ID:         p.ID,
		MinPlayers: game.MinPlayers,
		MaxPlayers: game.MaxPlayers,
		MaxSeats:   game.MaxSeats,
	}})
	s.dispatch(events)
	s.log.Info("participant connected", zap.String("id", p.ID))
}

func (s *Session) handleDisconnect(id string) {
	if ch, ok := s.clients[id]; ok {
		close(ch)
		delete(s.clients, id)
	}
	s.dispatch(s.state.Disconnect(id))
	s.log.Info("participant disconnected", zap.String("id", id))
}

// handleClient validates frame shape here and semantics in the rules core;
// anything malformed is dropped without a reply.
func (s *Session) handleClient(id string, cm types.ClientMessage) {
	switch cm.Type {
	case "take-seat":
		if cm.SeatIndex == nil {
			return
		}
		s.dispatch(s.state.TakeSeat(id, *cm.SeatIndex))

	case "set-host":
		if cm.AsHost == nil {
			return
		}
		events, err := s.state.SetHost(id, *cm.AsHost)
		if err != nil {
			s.sendTo(id, types.ServerMessage{Type: "room-error", Message: err.Error()})
			return
		}
		s.dispatch(events)

	case "leave-seat":
		s.dispatch(s.state.LeaveSeat(id))

	case "start-game":
		events, err := s.state.StartGame(id)
		if err != nil {
			s.sendTo(id, types.ServerMessage{Type: "room-error", Message: err.Error()})
			return
		}
		s.dispatch(events)

	case "pos":
		if cm.X == nil || cm.Y == nil {
			return
		}
		s.state.UpdatePosition(id, *cm.X, *cm.Y)

	case "gps":
		if cm.Lat == nil || cm.Lon == nil {
			return
		}
		s.dispatch(s.state.UpdateGeo(id, *cm.Lat, *cm.Lon, cm.Accuracy, cm.TS))

	default:
		s.log.Debug("unknown client frame", zap.String("type", cm.Type))
	}
}

func (s *Session) dispatch(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EvtRoomChanged:
			view, ok := s.state.RoomView(ev.RoomID)
			if !ok {
				continue
			}
			s.broadcast(ev.RoomID, types.ServerMessage{Type: "room-state", Room: &view})

		case game.EvtPlayersChanged:
			players := s.state.PlayersView(ev.RoomID)
			s.broadcast(ev.RoomID, types.ServerMessage{Type: "players", Players: players})

		case game.EvtStarted:
			s.log.Info("round started",
				zap.String("room", ev.RoomID),
				zap.String("cat", ev.CatID),
				zap.Int("targetCount", ev.TargetCount))
			s.broadcast(ev.RoomID, types.ServerMessage{Type: "game-started", Started: &types.Started{
				RoomID:      ev.RoomID,
				TargetCount: ev.TargetCount,
				CatID:       ev.CatID,
			}})

		case game.EvtCaught:
			s.log.Info("mouse caught",
				zap.String("room", ev.RoomID),
				zap.String("mouse", ev.MouseID),
				zap.String("cat", ev.CatID))
			s.broadcast(ev.RoomID, types.ServerMessage{Type: "caught", Caught: &types.Caught{
				RoomID:  ev.RoomID,
				MouseID: ev.MouseID,
				ByCatID: ev.CatID,
			}})
		}
	}
}

func (s *Session) broadcast(roomID string, m types.ServerMessage) {
	var dropped []string
	for _, id := range s.state.Members(roomID) {
		ch, ok := s.clients[id]
		if !ok {
			continue
		}
		select {
		case ch <- m:
		default:
			// Client is slow/full; drop them.
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		s.drop(id)
	}
}

func (s *Session) sendTo(id string, m types.ServerMessage) {
	ch, ok := s.clients[id]
	if !ok {
		return
	}
	select {
	case ch <- m:
	default:
		s.drop(id)
	}
}

// drop closes a backlogged client's outbox and releases its game state.
// The ws writer notices the closed channel and tears down the socket.
func (s *Session) drop(id string) {
	ch, ok := s.clients[id]
	if !ok {
		return
	}
	close(ch)
	delete(s.clients, id)
	s.log.Warn("dropping slow client", zap.String("id", id))
	s.dispatch(s.state.Disconnect(id))
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.cancel()
}
