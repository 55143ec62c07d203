package network

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer when none is configured.
	defaultMaxMessageSize = 4096
)

// Client is one websocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	maxMessageSize int64
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn, maxMessageSize int64) *Client {
	if maxMessageSize <= 0 {
		maxMessageSize = defaultMaxMessageSize
	}
	return &Client{
		hub:            hub,
		conn:           conn,
		send:           make(chan []byte, hub.sendBuffer),
		maxMessageSize: maxMessageSize,
	}
}

// Register adds the client to the hub. It reports false once the hub is gone.
func (c *Client) Register() bool {
	select {
	case c.hub.register <- c:
		return true
	case <-c.hub.done:
		return false
	}
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ReadPump reads commands until the connection drops. Each command runs on
// its own goroutine because turn commands block for their paced sequence.
func (c *Client) ReadPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.leave()
		c.conn.Close()
	}()
	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnf("websocket read error: %v", err)
			}
			break
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.hub.metrics.RecordWSError()
			c.hub.Reply(c, Message{Type: MsgTypeError, Payload: errorPayload{Error: "invalid command: " + err.Error()}})
			continue
		}
		c.hub.metrics.RecordWSMessage(true)
		go c.handle(ctx, cmd)
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

func (c *Client) handle(ctx context.Context, cmd Command) {
	res, err := c.hub.control.Dispatch(ctx, cmd)
	if err != nil {
		c.hub.logger.Warnf("Command %s rejected: %v", cmd.Type, err)
		c.hub.Reply(c, Message{Type: MsgTypeError, RequestID: cmd.RequestID, Payload: errorPayload{Error: err.Error()}})
		return
	}
	c.hub.Reply(c, Message{Type: MsgTypeResult, RequestID: cmd.RequestID, Payload: res})
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// ServeWS upgrades the request and starts the client pumps. An empty
// allowedOrigins accepts any origin.
func ServeWS(hub *Hub, allowedOrigins []string, maxMessageSize int64) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(allowedOrigins, r.Header.Get("Origin"))
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Errorf("Failed to upgrade websocket: %v", err)
			hub.metrics.RecordWSError()
			return
		}
		client := NewClient(hub, conn, maxMessageSize)
		if !client.Register() {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
