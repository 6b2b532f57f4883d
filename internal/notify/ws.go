package notify

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	MessageSubscribed = "subscribed"
	MessageUpdate     = "battleUpdate"
)

// ErrUpgrade wraps a failed websocket handshake. The upgrader has already
// answered the request when it is returned.
var ErrUpgrade = errors.New("websocket upgrade failed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Message is the envelope written to websocket clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// ServeWS upgrades the request and streams updates for battleID until the
// client goes away. The current snapshot is sent first. Errors returned
// before the upgrade (ErrUnknownBattle, storage failures) leave the
// response untouched.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, battleID uint) error {
	initial, err := h.Latest(battleID)
	if err != nil {
		return err
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpgrade, err)
	}
	defer conn.Close()

	id, updates, cancel := h.Subscribe(battleID)
	defer cancel()

	write := func(m Message) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(m)
	}
	if err := write(Message{Type: MessageSubscribed, Data: map[string]string{"subscriberId": id.String()}}); err != nil {
		return nil
	}
	if err := write(Message{Type: MessageUpdate, Data: initial}); err != nil {
		return nil
	}

	// Clients only send control frames; reading keeps pongs flowing and
	// notices a closed socket.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := write(Message{Type: MessageUpdate, Data: u}); err != nil {
				return nil
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}
