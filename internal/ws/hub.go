package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"quiz_webapp/internal/flow"
)

// Hub fans flow events out to the websocket clients watching each flow.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	seq   atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(flowID string, c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[flowID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[flowID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(flowID string, c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[flowID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, flowID)
		}
	}
	h.mu.Unlock()
}

// Watchers returns the number of clients connected to flowID.
func (h *Hub) Watchers(flowID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[flowID])
}

// Publish sends ev to every client of flowID. Slow clients drop events
// rather than block the flow.
func (h *Hub) Publish(flowID string, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Hub.Publish: flow=%s marshal error: %v", flowID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[flowID] {
		c.enqueue(msg)
	}
}

// Sink returns the flow.Sink that delivers the effects of flowID.
func (h *Hub) Sink(flowID string) flow.Sink {
	return &flowSink{hub: h, flowID: flowID}
}

type flowSink struct {
	hub    *Hub
	flowID string
}

func (s *flowSink) Loading() flow.Handle {
	id := flow.Handle(s.hub.seq.Add(1))
	s.hub.Publish(s.flowID, Event{Type: MsgToastLoading, ID: id, Message: flow.MsgLoading})
	return id
}

func (s *flowSink) Success(msg string) {
	s.hub.Publish(s.flowID, Event{Type: MsgToastSuccess, Message: msg})
}

func (s *flowSink) Error(msg string) {
	s.hub.Publish(s.flowID, Event{Type: MsgToastError, Message: msg})
}

func (s *flowSink) Dismiss(id flow.Handle) {
	s.hub.Publish(s.flowID, Event{Type: MsgToastDismiss, ID: id})
}

func (s *flowSink) Navigate(path string) {
	s.hub.Publish(s.flowID, Event{Type: MsgNavigate, Path: path})
}
