package websocket

import (
	"context"
	"sync"

	"github.com/anjiri1684/studydao/models"
	"github.com/rs/zerolog/log"
)

const broadcastBuffer = 64

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub fans DAO events out to every connected feed client.
type Hub struct {
	register   chan Conn
	unregister chan Conn
	broadcast  chan models.DAOEvent
	done       chan struct{}

	mu      sync.RWMutex
	clients map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan Conn),
		unregister: make(chan Conn),
		broadcast:  make(chan models.DAOEvent, broadcastBuffer),
		done:       make(chan struct{}),
		clients:    make(map[Conn]struct{}),
	}
}

func (h *Hub) Register(c Conn) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

func (h *Hub) Unregister(c Conn) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish never blocks the caller; events are dropped when the buffer is full.
func (h *Hub) Publish(event models.DAOEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Warn().Str("type", event.Type).Str("dao_id", event.DAO.ID).Msg("dao feed buffer full, dropping event")
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for c := range h.clients {
			_ = c.Close()
			delete(h.clients, c)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			log.Debug().Int("clients", h.Count()).Msg("feed client registered")
		case c := <-h.unregister:
			h.remove(c)
		case event := <-h.broadcast:
			h.mu.RLock()
			targets := make([]Conn, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mu.RUnlock()

			for _, c := range targets {
				if err := c.WriteJSON(event); err != nil {
					log.Debug().Err(err).Msg("dropping feed client after write error")
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		_ = c.Close()
	}
}
