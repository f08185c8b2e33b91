package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhjdev/bartender-order-service-sub000/internal/usecase"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connected_clients",
		Help: "Currently connected websocket clients",
	})
	publishedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_published_events_total",
		Help: "Order lifecycle events broadcast over websocket",
	}, []string{"event"})
)

// envelope is the wire format pushed to clients. The topic field is always
// "orders" today; it keeps the frame self-describing if more topics appear.
type envelope struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub is the in-process broadcast registry for the "orders" topic. Delivery is
// at-most-once: clients that are gone or too slow are dropped and re-sync via
// a full list fetch on reconnect.
type Hub struct {
	log        *slog.Logger
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[*Client]struct{}
	// done is closed when Run returns; register/unregister sends select on it
	// so connections arriving or leaving during shutdown never block.
	done chan struct{}
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run owns the client set; all subscribe/unsubscribe/broadcast traffic is
// serialized here. Blocks until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			connectedClients.Inc()
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				connectedClients.Dec()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
					connectedClients.Dec()
				}
			}
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
				connectedClients.Dec()
			}
			return
		}
	}
}

// Publish implements usecase.Notifier. Marshal failures and a saturated
// broadcast queue are logged and dropped, never propagated to the mutation
// that triggered the event.
func (h *Hub) Publish(topic, event string, payload any) {
	msg, err := json.Marshal(envelope{Topic: topic, Event: event, Payload: payload})
	if err != nil {
		h.log.Error("event marshal failed", "event", event, "err", err)
		return
	}
	select {
	case h.broadcast <- msg:
		publishedEvents.WithLabelValues(event).Inc()
	default:
		h.log.Warn("broadcast queue full, event dropped", "event", event)
	}
}

var _ usecase.Notifier = (*Hub)(nil)
