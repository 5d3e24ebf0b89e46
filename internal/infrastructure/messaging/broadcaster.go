// Package messaging pushes filter-state changes to connected dashboard
// clients over websockets.
package messaging

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
)

// Client represents a single connected dashboard client.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// FilterBroadcaster fans filter-state changes out to every connected client.
// Slow clients are skipped rather than blocking the broadcast.
type FilterBroadcaster struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan filters.FilterState
	mu         sync.RWMutex
}

// NewFilterBroadcaster creates a broadcaster instance.
func NewFilterBroadcaster() *FilterBroadcaster {
	return &FilterBroadcaster{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan filters.FilterState, 16),
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *FilterBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			log.Printf("Filter broadcast client registered (%d connected)", b.clientCount())

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			log.Printf("Filter broadcast client unregistered (%d connected)", b.clientCount())

		case state := <-b.broadcast:
			b.send(state)
		}
	}
}

// Register queues a client for registration.
func (b *FilterBroadcaster) Register(client *Client) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *FilterBroadcaster) Unregister(client *Client) {
	b.unregister <- client
}

// Broadcast queues a filter state for fan-out. Safe to call from the filter
// store's synchronous subscriber callback.
func (b *FilterBroadcaster) Broadcast(state filters.FilterState) {
	select {
	case b.broadcast <- state:
	default:
		log.Printf("Filter broadcast queue full, dropping update")
	}
}

func (b *FilterBroadcaster) send(state filters.FilterState) {
	message, err := json.Marshal(state)
	if err != nil {
		log.Printf("Error marshaling filter state: %v", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

func (b *FilterBroadcaster) clientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
