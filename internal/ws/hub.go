// Package ws pushes game notifications to connected players and accepts
// moves and challenge responses over the same socket.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game"
)

const sendBuffer = 256

// Actions is the part of game.Service reachable from a socket.
type Actions interface {
	SubmitMove(ctx context.Context, sessionID, playerID, move string) (game.MoveResult, error)
	RespondChallenge(ctx context.Context, challengeID, playerID string, accept bool) (game.ChallengeOutcome, error)
	Session(sessionID string) (game.SessionView, error)
}

// Hub tracks one connection per player. A new connection for the same
// player replaces the old one.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	watchers map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	actions  Actions
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(actions Actions, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		watchers:   make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		actions:    actions,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are checked by middleware before the upgrade.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run owns registration until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.playerID]; ok {
				h.log.Info("player reconnected, closing old connection", zap.String("player_id", c.playerID))
				old.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(time.Second))
				h.dropLocked(old)
			}
			h.clients[c.playerID] = c
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c.playerID] == c {
				h.dropLocked(c)
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, c := range h.clients {
				h.dropLocked(c)
			}
			h.mu.Unlock()
			return
		}
	}
}

// dropLocked forgets c and closes its send channel. h.mu must be held.
func (h *Hub) dropLocked(c *Client) {
	delete(h.clients, c.playerID)
	for community, set := range h.watchers {
		delete(set, c)
		if len(set) == 0 {
			delete(h.watchers, community)
		}
	}
	close(c.send)
}

// Connected reports whether playerID has a live socket.
func (h *Hub) Connected(playerID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[playerID]
	return ok
}

// Notify implements game.Notifier. It never blocks: a full buffer drops
// the message.
func (h *Hub) Notify(playerID string, n game.Notification) {
	h.SendToPlayer(playerID, n)
}

func (h *Hub) SendToPlayer(playerID string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("marshal message", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[playerID]
	if !ok {
		h.log.Debug("no client for player", zap.String("player_id", playerID))
		return
	}
	h.trySendLocked(c, data)
}

// reply sends to c only while c is still the registered client.
func (h *Hub) reply(c *Client, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("marshal reply", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c.playerID] == c {
		h.trySendLocked(c, data)
	}
}

func (h *Hub) trySendLocked(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("send buffer full, dropping message", zap.String("player_id", c.playerID))
	}
}

func (h *Hub) watch(c *Client, communityID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] != c {
		return
	}
	set, ok := h.watchers[communityID]
	if !ok {
		set = make(map[*Client]struct{})
		h.watchers[communityID] = set
	}
	set[c] = struct{}{}
}

// Serve upgrades the request and attaches the socket to playerID. The
// caller has already authenticated the player.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, playerID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{hub: h, conn: conn, playerID: playerID, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}
	h.log.Info("player connected", zap.String("player_id", playerID))

	go c.writePump()
	go c.readPump()
	return nil
}
