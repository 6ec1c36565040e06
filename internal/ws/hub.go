package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Client é uma conexão websocket registrada no hub. Entity vazio recebe
// notificações de todas as entidades.
type Client struct {
	ID     string
	Entity string
	Send   chan []byte
}

func (c *Client) wants(entity string) bool {
	return c.Entity == "" || c.Entity == entity
}

type message struct {
	entity string
	body   []byte
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client // id -> client
	register chan *Client
	unreg    chan *Client
	sendAll  chan message

	log     *slog.Logger
	stop    chan struct{}
	stopped chan struct{}

	nextID atomic.Uint64
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:  make(map[string]*Client),
		register: make(chan *Client),
		unreg:    make(chan *Client),
		sendAll:  make(chan message, 1024),
		log:      log.With("cmp", "ws.hub"),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *Hub) newID() string {
	id := h.nextID.Add(1)
	return fmt.Sprintf("c%d", id)
}

func (h *Hub) Run() {
	h.log.Info("hub_run_start")
	defer close(h.stopped)

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_registered", "id", c.ID, "entity", c.Entity, "total", total)

		case c := <-h.unreg:
			h.mu.Lock()
			h.drop(c)
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client_unregistered", "id", c.ID, "total", total)

		case m := <-h.sendAll:
			var slow []*Client
			h.mu.RLock()
			for _, c := range h.clients {
				if !c.wants(m.entity) {
					continue
				}
				select {
				case c.Send <- m.body:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()

			// cliente lento -> dropa para não travar o hub
			if len(slow) > 0 {
				h.mu.Lock()
				for _, c := range slow {
					h.drop(c)
					h.log.Warn("client_dropped_slow", "id", c.ID)
				}
				h.mu.Unlock()
			}

		case <-h.stop:
			h.mu.Lock()
			for _, c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			h.log.Info("hub_run_stop")
			return
		}
	}
}

// drop remove o cliente e fecha o Send uma única vez. Requer h.mu.
func (h *Hub) drop(c *Client) {
	if c == nil || c.ID == "" {
		return
	}
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Send)
	}
}

func (h *Hub) Stop() {
	close(h.stop)
	<-h.stopped
}

// Register atribui o ID (se vazio) ainda na goroutine do chamador, que pode
// usá-lo logo em seguida.
func (h *Hub) Register(c *Client) {
	if c.ID == "" {
		c.ID = h.newID()
	}
	h.register <- c
}

// Unregister não bloqueia depois do Stop (o hub já fechou todos os clientes).
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unreg <- c:
	case <-h.stopped:
	}
}

// Broadcast entrega b aos clientes inscritos na entidade (ou em todas).
func (h *Hub) Broadcast(entity string, b []byte) { h.sendAll <- message{entity: entity, body: b} }

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
