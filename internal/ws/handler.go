package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"catmouse/internal/session"
	"catmouse/internal/types"
)

func Handler(s *session.Session, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.ServerMessage, 32)
		reply := make(chan session.Welcome, 1)
		s.Inbox() <- session.Connect{Outbox: out, Reply: reply}
		welcome := <-reply
		defer func() { s.Inbox() <- session.Disconnect{ID: welcome.ID} }()

		// Writer goroutine. When the session closes the outbox (slow client
		// or shutdown) it also closes the socket, which unblocks the reader.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for m := range out {
				payload, err := json.Marshal(m)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			conn.Close(websocket.StatusPolicyViolation, "outbox closed")
		}()

		// Reader loop. No per-read deadline: lobby clients can idle
		// indefinitely between frames.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Anything else still means goodbye (Disconnect in defer).
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				// Malformed frames are dropped silently.
				log.Debug("bad client frame", zap.String("id", welcome.ID), zap.Error(err))
				continue
			}
			s.Inbox() <- session.FromClient{ID: welcome.ID, Msg: cm}
		}
	}
}
