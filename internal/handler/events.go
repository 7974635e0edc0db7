package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/emberfall/crucible/api/internal/model"
	"github.com/emberfall/crucible/api/internal/service"
)

// EventsHandler handles SSE event streaming
type EventsHandler struct {
	eventHub *service.EventHub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(eventHub *service.EventHub) *EventsHandler {
	return &EventsHandler{
		eventHub: eventHub,
	}
}

// Stream handles GET /v1/events/stream?channel=queue:dungeon
// This endpoint streams SSE events for a broadcast channel
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	channelID := r.URL.Query().Get("channel")
	if channelID == "" {
		WriteError(w, model.NewBadRequestError("channel required"))
		return
	}

	// Check if the client supports SSE
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Generate subscriber ID
	subscriberID := uuid.New().String()

	// Subscribe to events
	sub := h.eventHub.Subscribe(channelID, subscriberID)
	defer h.eventHub.Unsubscribe(channelID, subscriberID)

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	// Stream events
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()

		case <-sub.Done:
			return

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// StreamParticipant handles GET /v1/events/participants/{participantId}/stream
// This endpoint streams events directed at a single participant
func (h *EventsHandler) StreamParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := r.PathValue("participantId")
	if participantID == "" {
		WriteError(w, model.NewBadRequestError("participant ID required"))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	subscriberID := uuid.New().String()

	sub := h.eventHub.SubscribeParticipant(participantID, subscriberID)
	defer h.eventHub.UnsubscribeParticipant(participantID, subscriberID)

	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()

		case <-sub.Done:
			return

		case <-r.Context().Done():
			return
		}
	}
}
