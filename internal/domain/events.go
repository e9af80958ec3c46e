package domain

import "time"

// EventType represents the type of page event
type EventType string

const (
	EventFormState      EventType = "FORM_STATE"
	EventClipboardWrite EventType = "CLIPBOARD_WRITE"
	EventToast          EventType = "TOAST"
)

// PageEvent is something a page session needs to deliver to its browser.
type PageEvent struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"sessionId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new page event
func NewEvent(eventType EventType, sessionID string, payload interface{}) *PageEvent {
	return &PageEvent{
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// ClipboardWritePayload asks the browser to put Text on the clipboard and
// acknowledge with the same ID.
type ClipboardWritePayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ToastPayload is a transient confirmation message.
type ToastPayload struct {
	Message string `json:"message"`
}
