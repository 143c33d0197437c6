package websocket

import (
	"log"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastReportRendered announces that a report's PDF was regenerated.
func (b *EventBroadcaster) BroadcastReportRendered(bundle *models.ReportBundle) {
	payload := ReportRenderedPayload{
		ReportID:   bundle.Report.ID,
		EventID:    bundle.Event.ID,
		EventName:  bundle.Event.Name,
		ImageCount: len(bundle.Images),
	}
	b.broadcast(NewMessage(TypeReportRendered, payload))
}

// BroadcastReportRenderFailed announces a failed render.
func (b *EventBroadcaster) BroadcastReportRenderFailed(reportID, eventName string, err error) {
	payload := ReportRenderFailedPayload{
		ReportID:  reportID,
		EventName: eventName,
		Message:   err.Error(),
	}
	b.broadcast(NewMessage(TypeReportRenderFailed, payload))
}

// BroadcastExportCompleted announces that a month CSV export was generated.
func (b *EventBroadcaster) BroadcastExportCompleted(month string, year, rows int) {
	payload := ExportCompletedPayload{
		Month: month,
		Year:  year,
		Rows:  rows,
	}
	b.broadcast(NewMessage(TypeExportCompleted, payload))
}

// BroadcastNotification sends a generic notification to all clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}
	b.broadcast(NewMessage(TypeNotification, payload))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	if b == nil || b.hub == nil {
		return
	}

	data, err := msg.JSON()
	if err != nil {
		log.Printf("Failed to serialize WebSocket message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}
