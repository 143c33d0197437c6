// Package websocket pushes render and export notifications to connected
// browser clients.
package websocket

import (
	"log"
	"sync"
)

// Client is one connected browser session.
type Client struct {
	hub  *Hub
	send chan []byte
}

// NewClient creates a client attached to the hub.
func NewClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

// Send returns the channel the connection writer drains.
func (c *Client) Send() chan []byte {
	return c.send
}

// Hub fans broadcast messages out to every connected client. Clients that
// cannot keep up are dropped rather than allowed to stall the fan-out.
type Hub struct {
	clients    map[*Client]bool
	outbound   chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates an idle hub. Call Run in a goroutine to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		outbound:   make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. It exits when Close is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client connected (%d active)", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected (%d active)", n)

		case msg := <-h.outbound:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer, cut it loose.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast queues a message for every connected client. Messages are dropped
// when the queue is full; notifications are advisory, not a delivery contract.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.outbound <- message:
	default:
		log.Println("WebSocket broadcast queue full, dropping message")
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the event loop and disconnects every client.
func (h *Hub) Close() {
	close(h.done)
}
