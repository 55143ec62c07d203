package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kidcapital/server/internal/engine"
	"github.com/kidcapital/server/internal/events"
	"github.com/kidcapital/server/internal/platform/logger"
	"github.com/kidcapital/server/internal/platform/metrics"
)

// Message types pushed to clients.
const (
	MsgTypeState  = "STATE"
	MsgTypeEvent  = "EVENT"
	MsgTypeResult = "RESULT"
	MsgTypeError  = "ERROR"
)

// Message is the envelope of everything written to a websocket.
type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Payload   interface{} `json:"payload"`
}

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	control *Controller
	metrics *metrics.Collector
	logger  *logger.Logger

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	done       chan struct{}
	sendBuffer int

	// latestState coalesces state pushes: only the newest snapshot is sent.
	mu            sync.Mutex
	latestState   []byte
	latestVersion uint64
	stateDirty    chan struct{}
}

// NewHub initializes a new WebSocket Hub.
func NewHub(ctrl *Controller, m *metrics.Collector, sendBuffer int, log *logger.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Hub{
		control:    ctrl,
		metrics:    m,
		logger:     log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage, 64),
		done:       make(chan struct{}),
		sendBuffer: sendBuffer,
		stateDirty: make(chan struct{}, 1),
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.metrics.RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
			if state := h.currentState(); state != nil {
				h.deliver(client, state)
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
		case <-h.stateDirty:
			if state := h.currentState(); state != nil {
				h.fanOut(state)
			}
		case message := <-h.broadcast:
			h.fanOut(message)
		case m := <-h.direct:
			if _, ok := h.clients[m.client]; ok {
				h.deliver(m.client, m.payload)
			}
		}
	}
}

func (h *Hub) fanOut(message []byte) {
	for client := range h.clients {
		h.deliver(client, message)
	}
}

// deliver drops clients whose buffer is full.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
		h.metrics.RecordWSMessage(false)
	default:
		close(client.send)
		delete(h.clients, client)
		h.metrics.RecordWSConnection(-1)
		h.metrics.RecordWSError()
		h.logger.Warn("Dropped slow WebSocket client")
	}
}

func (h *Hub) currentState() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latestState
}

// PublishState queues a state snapshot for every client. It never blocks, so
// it is safe as a store subscriber. Snapshots older than the one already
// queued are dropped.
func (h *Hub) PublishState(state engine.GameState) {
	payload, err := json.Marshal(Message{Type: MsgTypeState, Timestamp: time.Now().Unix(), Payload: state})
	if err != nil {
		h.logger.Errorf("Failed to serialize game state: %v", err)
		return
	}
	h.mu.Lock()
	if h.latestState != nil && state.Version < h.latestVersion {
		h.mu.Unlock()
		return
	}
	h.latestState = payload
	h.latestVersion = state.Version
	h.mu.Unlock()

	select {
	case h.stateDirty <- struct{}{}:
	default:
	}
}

// Reply sends msg to one client. Clients that already left are skipped.
func (h *Hub) Reply(client *Client, msg Message) {
	msg.Timestamp = time.Now().Unix()
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to serialize reply: %v", err)
		return
	}
	select {
	case h.direct <- directMessage{client: client, payload: payload}:
	case <-h.done:
	}
}

// BroadcastEvent serializes a GameEvent and sends it to all connected clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(Message{Type: MsgTypeEvent, Timestamp: event.Timestamp.Unix(), Payload: event})
	if err != nil {
		h.logger.Errorf("Failed to serialize GameEvent for WebSocket broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("Broadcast queue full, dropping event " + string(event.Type))
	}
}

// StartEventPoller spawns a goroutine that polls the EventLog, counts new
// events in metrics and pushes them to the Hub.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				newEvents, next := eventLog.Since(lastProcessedEvent)
				for _, event := range newEvents {
					h.metrics.ObserveEvent(event)
					h.BroadcastEvent(event)
				}
				lastProcessedEvent = next
			}
		}
	}()
}
