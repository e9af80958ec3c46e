package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgFieldChange   MessageType = "field_change"
	MsgFieldBlur     MessageType = "field_blur"
	MsgSubmit        MessageType = "submit"
	MsgClipboardDone MessageType = "clipboard_done"
	MsgPing          MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected      MessageType = "connected"
	MsgError          MessageType = "error"
	MsgFormState      MessageType = "form_state"
	MsgClipboardWrite MessageType = "clipboard_write"
	MsgToast          MessageType = "toast"
	MsgPong           MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// FieldChangePayload is the payload for field_change message
type FieldChangePayload struct {
	Value string `json:"value"`
}

// ClipboardDonePayload is the payload for clipboard_done message
type ClipboardDonePayload struct {
	ID string `json:"id"`
	OK bool   `json:"ok"`
}

// Server message payloads

// ConnectedPayload is the payload for connected message
type ConnectedPayload struct {
	SessionID string `json:"sessionId"`
	Lang      string `json:"lang"`
}

// ErrorPayload is the payload for error message
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeSubmitRejected = "SUBMIT_REJECTED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
