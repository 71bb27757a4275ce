package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"holdemsim/holdem"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// wsClient is one WebSocket subscriber. Inbound messages carry deal and
// action requests; outbound messages are the session event stream. All
// conn writes go through writePump via the out channel.
type wsClient struct {
	sess *Session
	conn *websocket.Conn
	out  chan []byte
	stop func()
}

type wsRequest struct {
	Op     string `json:"op"` // "deal" or "action"
	Chair  uint16 `json:"chair"`
	Action string `json:"action"`
	Amount int64  `json:"amount"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, sess *Session) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	ch, cancel := sess.Subscribe()
	c := &wsClient{
		sess: sess,
		conn: conn,
		out:  make(chan []byte, 64),
		stop: cancel,
	}
	s.log.WithField("session", sess.ID).Info("websocket client connected")

	// Late joiners get the current state before any live events.
	if data, err := encodeEvent(eventState, sess.State(), nil); err == nil {
		c.out <- data
	}

	go c.forward(ch)
	go c.writePump()
	go c.readPump()
}

// forward copies session events into the client's outbound queue, dropping
// on overflow so a stalled socket never backs up the session.
func (c *wsClient) forward(ch <-chan []byte) {
	for data := range ch {
		select {
		case c.out <- data:
		default:
		}
	}
	close(c.out)
}

func (c *wsClient) readPump() {
	defer func() {
		c.stop()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.handleMessage(message)
	}
}

func (c *wsClient) handleMessage(data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch req.Op {
	case "deal":
		if _, err := c.sess.Deal(); err != nil {
			c.sendError(err.Error())
		}
	case "action":
		action, ok := holdem.ParseActionType(req.Action)
		if !ok {
			c.sendError("unknown action " + req.Action)
			return
		}
		if _, err := c.sess.Act(req.Chair, action, req.Amount); err != nil {
			c.sendError(err.Error())
		}
	default:
		c.sendError("unknown op")
	}
}

func (c *wsClient) sendError(msg string) {
	data, err := json.Marshal(map[string]string{"type": "error", "error": msg})
	if err != nil {
		return
	}
	select {
	case c.out <- data:
	default:
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
