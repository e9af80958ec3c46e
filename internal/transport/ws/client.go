package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"copaweb/internal/app"
	"copaweb/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 64
)

// eventMessages maps page events onto wire message types
var eventMessages = map[domain.EventType]MessageType{
	domain.EventFormState:      MsgFormState,
	domain.EventClipboardWrite: MsgClipboardWrite,
	domain.EventToast:          MsgToast,
}

// Client represents the WebSocket connection of one page
type Client struct {
	conn    *websocket.Conn
	session *app.PageSession
	send    chan []byte
	done    chan struct{}
	logger  *slog.Logger
	mu      sync.Mutex
	closed  bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.PageSession, logger *slog.Logger) *Client {
	return &Client{
		conn:    conn,
		session: session,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger.With("sessionID", session.GetID()),
	}
}

// GetSessionID implements app.ClientConnection interface
func (c *Client) GetSessionID() string {
	return c.session.GetID()
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	if event, ok := message.(*domain.PageEvent); ok {
		msgType, known := eventMessages[event.Type]
		if !known {
			c.logger.Warn("unknown page event", "type", event.Type)
			return nil
		}
		message = NewServerMessage(msgType, event.Payload)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.Detach(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}
	c.session.Touch()

	switch msg.Type {
	case MsgFieldChange:
		c.handleFieldChange(msg.Payload)
	case MsgFieldBlur:
		c.session.Blur()
	case MsgSubmit:
		c.handleSubmit()
	case MsgClipboardDone:
		c.handleClipboardDone(msg.Payload)
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleFieldChange handles a field_change message
func (c *Client) handleFieldChange(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	// an absent value is an emptied field
	value, _ := payloadMap["value"].(string)
	c.session.Change(value)
}

// handleSubmit runs the submission off the read pump so clipboard
// acknowledgements keep flowing while it waits.
func (c *Client) handleSubmit() {
	go func() {
		err := c.session.Submit()
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrSubmitInFlight),
			errors.Is(err, domain.ErrSubmitNotAllowed):
			c.logger.Debug("submit rejected", "error", err)
			c.sendError(ErrCodeSubmitRejected, err.Error())
		default:
			c.logger.Error("submit failed", "error", err)
			c.sendError(ErrCodeInternalError, "Internal server error")
		}
	}()
}

// handleClipboardDone handles a clipboard_done message
func (c *Client) handleClipboardDone(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	id, ok := payloadMap["id"].(string)
	if !ok || id == "" {
		c.sendError(ErrCodeInvalidMessage, "Clipboard write id is required")
		return
	}
	done, _ := payloadMap["ok"].(bool)

	c.session.AckClipboard(id, done)
}

// sendConnected sends the connected message
func (c *Client) sendConnected() {
	c.Send(NewServerMessage(MsgConnected, &ConnectedPayload{
		SessionID: c.session.GetID(),
		Lang:      c.session.GetLang(),
	}))
}

// sendError sends an error message
func (c *Client) sendError(code, message string) {
	c.Send(NewServerMessage(MsgError, &ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

// sendPong sends a pong message
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
