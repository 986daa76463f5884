// Package notify pushes settled transaction receipts to subscribed players
// over websockets. A receipt is only a nudge: clients still read the state
// from the authority.
package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eviterin/thegate/internal/authority"
	"github.com/eviterin/thegate/internal/constants"
	"github.com/eviterin/thegate/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Subscriber is one live connection of a player.
type Subscriber struct {
	playerID string
	send     chan authority.Receipt
}

// Receipts yields the receipts published for the subscriber's player. It is
// closed on Unregister.
func (s *Subscriber) Receipts() <-chan authority.Receipt { return s.send }

// Hub tracks subscribers per player.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscriber]struct{})}
}

func (h *Hub) Register(playerID string) *Subscriber {
	s := &Subscriber{playerID: playerID, send: make(chan authority.Receipt, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[playerID] == nil {
		h.subs[playerID] = make(map[*Subscriber]struct{})
	}
	h.subs[playerID][s] = struct{}{}
	return s
}

func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[s.playerID]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	close(s.send)
	if len(set) == 0 {
		delete(h.subs, s.playerID)
	}
}

// Subscribers returns the number of live subscribers of playerID.
func (h *Hub) Subscribers(playerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[playerID])
}

// Notify publishes rc to every subscriber of playerID. Slow subscribers
// miss the receipt instead of blocking the block producer.
func (h *Hub) Notify(playerID string, rc authority.Receipt) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs[playerID] {
		select {
		case s.send <- rc:
		default:
			logging.Warn("subscriber too slow, receipt dropped", logging.Fields{constants.LogFieldPlayerID: playerID, constants.LogFieldTxID: rc.TxID})
		}
	}
}

// Serve upgrades the request and streams receipts for playerID until the
// peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, playerID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	s := h.Register(playerID)
	logging.Info("subscriber connected", logging.Fields{constants.LogFieldPlayerID: playerID})
	go writePump(conn, s)
	readPump(conn)
	h.Unregister(s)
	logging.Info("subscriber disconnected", logging.Fields{constants.LogFieldPlayerID: playerID})
	return nil
}

// readPump discards inbound messages and returns when the connection fails.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Warn("failed to set read deadline", nil)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Error("websocket read failed", err, nil)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, s *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case rc, ok := <-s.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(rc); err != nil {
				logging.Debug("websocket write failed", logging.Fields{constants.LogFieldPlayerID: s.playerID})
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
