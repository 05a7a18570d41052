package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = 30 * time.Second
	maxMessage    = 64 * 1024
	actionTimeout = 15 * time.Second
)

// Message is the inbound envelope.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type moveData struct {
	SessionID string `json:"session_id"`
	Move      string `json:"move"`
}

type respondData struct {
	ChallengeID string `json:"challenge_id"`
	Accept      bool   `json:"accept"`
}

type sessionData struct {
	SessionID string `json:"session_id"`
}

type watchData struct {
	CommunityID string `json:"community_id"`
}

// Reply is the outbound envelope for direct answers to a client message.
type Reply struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Data      any    `json:"data,omitempty"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	playerID string
	send     chan []byte
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Info("websocket closed unexpectedly", zap.String("player_id", c.playerID), zap.Error(err))
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("", "bad_request", "invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.log.Debug("websocket write failed", zap.String("player_id", c.playerID), zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch msg.Type {
	case "move":
		var d moveData
		if err := json.Unmarshal(msg.Data, &d); err != nil || d.SessionID == "" {
			c.sendError(msg.Type, "bad_request", "session_id and move required")
			return
		}
		res, err := c.hub.actions.SubmitMove(ctx, d.SessionID, c.playerID, d.Move)
		if err != nil {
			c.sendGameError(msg.Type, err)
			return
		}
		c.hub.reply(c, Reply{Type: "move_result", SessionID: d.SessionID, Data: res})

	case "respond":
		var d respondData
		if err := json.Unmarshal(msg.Data, &d); err != nil || d.ChallengeID == "" {
			c.sendError(msg.Type, "bad_request", "challenge_id required")
			return
		}
		out, err := c.hub.actions.RespondChallenge(ctx, d.ChallengeID, c.playerID, d.Accept)
		if err != nil {
			c.sendGameError(msg.Type, err)
			return
		}
		c.hub.reply(c, Reply{Type: "respond_result", SessionID: out.SessionID, Data: out})

	case "get_state":
		var d sessionData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			c.sendError(msg.Type, "bad_request", "session_id required")
			return
		}
		v, err := c.hub.actions.Session(d.SessionID)
		if err == nil && v.Players[0] != c.playerID && v.Players[1] != c.playerID {
			err = game.ErrNotParticipant
		}
		if err != nil {
			c.sendGameError(msg.Type, err)
			return
		}
		c.hub.reply(c, Reply{Type: "session_state", SessionID: v.ID, Data: v})

	case "watch":
		var d watchData
		if err := json.Unmarshal(msg.Data, &d); err != nil || d.CommunityID == "" {
			c.sendError(msg.Type, "bad_request", "community_id required")
			return
		}
		c.hub.watch(c, d.CommunityID)
		c.hub.reply(c, Reply{Type: "watching", Data: d})

	case "ping":
		c.hub.reply(c, Reply{Type: "pong"})

	default:
		c.sendError(msg.Type, "bad_request", "unknown message type")
	}
}

func (c *Client) sendGameError(request string, err error) {
	code := game.ErrorCode(err)
	msg := err.Error()
	if code == "internal" {
		c.hub.log.Error("socket action failed", zap.String("player_id", c.playerID), zap.String("request", request), zap.Error(err))
		msg = "internal error"
	}
	c.sendError(request, code, msg)
}

func (c *Client) sendError(request, code, message string) {
	c.hub.reply(c, Reply{Type: "error", Code: code, Message: message, Data: request})
}
