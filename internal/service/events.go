package service

import (
	"encoding/json"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	// Queue events
	EventParticipantQueued EventType = "queue.participant_queued"
	EventParticipantLeft   EventType = "queue.participant_left"
	EventGroupFormed       EventType = "queue.group_formed"

	// Instance events
	EventInstanceCreated EventType = "instance.created"

	// System events
	EventHeartbeat EventType = "heartbeat"
)

// Event represents a server-sent event
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	ChannelID string      `json:"-"` // Used for routing, not sent to client
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID        string
	ChannelID string
	Events    chan *Event
	Done      chan struct{}
}

// EventHub manages SSE subscriptions and event broadcasting. Delivery is
// best-effort: a subscriber with a full buffer misses the event, and
// publishing never blocks or fails the caller.
type EventHub struct {
	mu                     sync.RWMutex
	subscribers            map[string]map[string]*Subscriber // channelID -> subscriberID -> subscriber
	participantSubscribers map[string]map[string]*Subscriber // participantID -> subscriberID -> subscriber
	heartbeat              *time.Ticker
	done                   chan struct{}
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	hub := &EventHub{
		subscribers:            make(map[string]map[string]*Subscriber),
		participantSubscribers: make(map[string]map[string]*Subscriber),
		done:                   make(chan struct{}),
	}
	// Start heartbeat
	hub.heartbeat = time.NewTicker(30 * time.Second)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a channel
func (h *EventHub) Subscribe(channelID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:        subscriberID,
		ChannelID: channelID,
		Events:    make(chan *Event, 100), // Buffer to prevent blocking
		Done:      make(chan struct{}),
	}

	if h.subscribers[channelID] == nil {
		h.subscribers[channelID] = make(map[string]*Subscriber)
	}
	h.subscribers[channelID][subscriberID] = sub

	return sub
}

// Unsubscribe removes a subscriber
func (h *EventHub) Unsubscribe(channelID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if channelSubs, ok := h.subscribers[channelID]; ok {
		if sub, ok := channelSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Events)
			delete(channelSubs, subscriberID)
		}
		if len(channelSubs) == 0 {
			delete(h.subscribers, channelID)
		}
	}
}

// Publish sends an event to all subscribers of a channel
func (h *EventHub) Publish(event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channelSubs, ok := h.subscribers[event.ChannelID]
	if !ok {
		return
	}

	for _, sub := range channelSubs {
		select {
		case sub.Events <- event:
			// Event sent successfully
		default:
			// Buffer full, skip this subscriber
		}
	}
}

// SubscribeParticipant adds a new subscriber for events directed at a
// specific participant
func (h *EventHub) SubscribeParticipant(participantID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:        subscriberID,
		ChannelID: "", // Not channel-bound
		Events:    make(chan *Event, 100),
		Done:      make(chan struct{}),
	}

	if h.participantSubscribers[participantID] == nil {
		h.participantSubscribers[participantID] = make(map[string]*Subscriber)
	}
	h.participantSubscribers[participantID][subscriberID] = sub

	return sub
}

// UnsubscribeParticipant removes a participant subscriber
func (h *EventHub) UnsubscribeParticipant(participantID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if participantSubs, ok := h.participantSubscribers[participantID]; ok {
		if sub, ok := participantSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Events)
			delete(participantSubs, subscriberID)
		}
		if len(participantSubs) == 0 {
			delete(h.participantSubscribers, participantID)
		}
	}
}

// SendToParticipant sends an event to all subscribers of a specific participant
func (h *EventHub) SendToParticipant(participantID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	participantSubs, ok := h.participantSubscribers[participantID]
	if !ok {
		return
	}

	for _, sub := range participantSubs {
		select {
		case sub.Events <- &event:
			// Event sent successfully
		default:
			// Buffer full, skip this subscriber
		}
	}
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *EventHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			event := &Event{
				Type: EventHeartbeat,
				Data: map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			}
			for channelID, channelSubs := range h.subscribers {
				event.ChannelID = channelID
				for _, sub := range channelSubs {
					select {
					case sub.Events <- event:
					default:
					}
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the event hub
func (h *EventHub) Close() {
	close(h.done)
	h.heartbeat.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for channelID, channelSubs := range h.subscribers {
		for _, sub := range channelSubs {
			close(sub.Done)
			close(sub.Events)
		}
		delete(h.subscribers, channelID)
	}
	for participantID, participantSubs := range h.participantSubscribers {
		for _, sub := range participantSubs {
			close(sub.Done)
			close(sub.Events)
		}
		delete(h.participantSubscribers, participantID)
	}
}

// SubscriberCount returns the number of subscribers for a channel
func (h *EventHub) SubscriberCount(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if channelSubs, ok := h.subscribers[channelID]; ok {
		return len(channelSubs)
	}
	return 0
}

// Notify publishes an event to a channel. It satisfies the Notifier
// contract used by the queue core.
func (h *EventHub) Notify(channelID string, eventType EventType, data interface{}) {
	h.Publish(&Event{
		Type:      eventType,
		Data:      data,
		ChannelID: channelID,
	})
}
