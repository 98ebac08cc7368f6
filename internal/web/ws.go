package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/gamey/internal/app"
)

type wsMessage struct {
	Type  string         `json:"type"`
	State *stateResponse `json:"state,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams the game state as JSON after every change, sending the
// current state first.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// reads only detect the peer going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch, unsub := h.svc.Subscribe(ctx)
	defer unsub()

	if gs, err := h.svc.Current(); err == nil {
		if err := writeState(conn, gs); err != nil {
			return
		}
	}
	if err := h.writeWSWithHeartbeat(ctx, conn, ch); err != nil {
		log.Debug().Err(err).Msg("websocket closed")
	}
}

func (h *handlers) writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, updates <-chan app.GameState) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping, _ := json.Marshal(wsMessage{Type: "ping"})

	for {
		select {
		case <-ctx.Done():
			return nil
		case gs, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeState(conn, &gs); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < h.heartbeat {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func writeState(conn *websocket.Conn, gs *app.GameState) error {
	st := newStateResponse(gs)
	return conn.WriteJSON(wsMessage{Type: "state", State: &st})
}
