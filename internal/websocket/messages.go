package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeReportRendered     MessageType = "report.rendered"
	TypeReportRenderFailed MessageType = "report.render_failed"
	TypeExportCompleted    MessageType = "export.completed"
	TypeNotification       MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportRenderedPayload is the payload for report.rendered events. Clients
// holding a stale preview re-fetch the PDF when they see this.
type ReportRenderedPayload struct {
	ReportID   string `json:"report_id"`
	EventID    string `json:"event_id"`
	EventName  string `json:"event_name"`
	ImageCount int    `json:"image_count"`
}

// ReportRenderFailedPayload is the payload for report.render_failed events.
type ReportRenderFailedPayload struct {
	ReportID  string `json:"report_id"`
	EventName string `json:"event_name"`
	Message   string `json:"message"`
}

// ExportCompletedPayload is the payload for export.completed events.
type ExportCompletedPayload struct {
	Month string `json:"month"`
	Year  int    `json:"year"`
	Rows  int    `json:"rows"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error, success
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
