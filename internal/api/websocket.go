package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"olif/internal/assistant"
	"olif/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4 * 1024
)

// WebSocket upgrader configuration; origins are checked by the cors layer
// for HTTP and by the session token here.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsFrame is a server-to-client frame
type wsFrame struct {
	Type    string             `json:"type"`
	Message *assistant.Message `json:"message,omitempty"`
	Data    interface{}        `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// wsConnection streams a session's events and accepts utterances
type wsConnection struct {
	conn    *websocket.Conn
	session *session.Session
	events  <-chan assistant.Event
	cancel  func()
	send    chan []byte
	ctx     context.Context
	stop    context.CancelFunc
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("failed to upgrade connection: %v", err)
		return
	}

	sess := currentSession(c)
	events, cancel := sess.Assistant.Subscribe(64)
	ctx, stop := context.WithCancel(context.Background())
	ws := &wsConnection{
		conn:    conn,
		session: sess,
		events:  events,
		cancel:  cancel,
		send:    make(chan []byte, 64),
		ctx:     ctx,
		stop:    stop,
	}

	// Start the read and write pumps
	go ws.writePump()
	go ws.readPump()
}

// readPump feeds inbound text frames to the assistant as utterances
func (c *wsConnection) readPump() {
	defer func() {
		c.stop()
		c.cancel()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("websocket error: %v", err)
			}
			return
		}
		c.handleMessage(message)
	}
}

// handleMessage accepts a bare utterance or {"text": "..."}
func (c *wsConnection) handleMessage(message []byte) {
	text := string(message)
	var req messageRequest
	if json.Valid(message) && json.Unmarshal(message, &req) == nil {
		text = req.Text
	}

	// replies arrive as message events
	_, err := c.session.Assistant.Send(c.ctx, text)
	if errors.Is(err, assistant.ErrEmptyUtterance) {
		c.enqueue(wsFrame{Type: "error", Error: err.Error()})
	} else if err != nil {
		log.Errorf("websocket utterance failed: %v", err)
		c.enqueue(wsFrame{Type: "error", Error: "internal error"})
	}
}

// writePump pumps session events and replies to the WebSocket connection
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, open := <-c.events:
			if !open {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.write(wsFrame{Type: string(ev.Type), Message: ev.Message, Data: ev.Data}); err != nil {
				return
			}
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *wsConnection) write(f wsFrame) error {
	data, err := json.Marshal(f)
	if err != nil {
		log.Errorf("error marshaling frame: %v", err)
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConnection) enqueue(f wsFrame) {
	data, err := json.Marshal(f)
	if err != nil {
		log.Errorf("error marshaling frame: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn("websocket buffer full, dropping frame")
	}
}
