package websocket

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/WenderAlvesSantos/api-aecac/metrics"
)

// Message types
const (
	TypeConnected    = "connected"
	TypeAuthResponse = "auth_response"
	TypeNotification = "notification"
)

var ErrNotConnected = errors.New("user not connected")

// Message is what goes over the socket
type Message struct {
	Type         string      `json:"type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
	UserID       string      `json:"userId,omitempty"`
	RequiresAuth bool        `json:"requiresAuth,omitempty"`
}

// Client is one connected socket. An account may hold several (one per tab).
type Client struct {
	UserID        primitive.ObjectID
	Conn          *websocket.Conn
	Authenticated bool

	writeMu sync.Mutex
}

func (c *Client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(msg)
}

// Hub tracks connected clients by account
type Hub struct {
	clients                map[primitive.ObjectID]map[*Client]bool
	unauthenticatedClients map[*Client]bool
	register               chan *Client
	unregister             chan *Client
	stopped                chan struct{}
	mu                     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:                make(map[primitive.ObjectID]map[*Client]bool),
		unauthenticatedClients: make(map[*Client]bool),
		register:               make(chan *Client),
		unregister:             make(chan *Client),
		stopped:                make(chan struct{}),
	}
}

// Run serves register/unregister requests until ctx is done, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.add(client)
			h.mu.Unlock()
			metrics.WebsocketClients.Inc()
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			client.Conn.Close()
			metrics.WebsocketClients.Dec()
		case <-ctx.Done():
			close(h.stopped)
			h.mu.Lock()
			for _, set := range h.clients {
				for client := range set {
					client.Conn.Close()
				}
			}
			for client := range h.unauthenticatedClients {
				client.Conn.Close()
			}
			h.clients = make(map[primitive.ObjectID]map[*Client]bool)
			h.unauthenticatedClients = make(map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// enqueue hands client to the Run loop. It fails once the hub stopped.
func (h *Hub) enqueue(ch chan *Client, client *Client) bool {
	select {
	case ch <- client:
		return true
	case <-h.stopped:
		return false
	}
}

// add and remove expect h.mu held.
func (h *Hub) add(client *Client) {
	if client.Authenticated && !client.UserID.IsZero() {
		set, ok := h.clients[client.UserID]
		if !ok {
			set = make(map[*Client]bool)
			h.clients[client.UserID] = set
		}
		set[client] = true
		return
	}
	h.unauthenticatedClients[client] = true
}

func (h *Hub) remove(client *Client) {
	delete(h.unauthenticatedClients, client)
	if set, ok := h.clients[client.UserID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.clients, client.UserID)
		}
	}
}

// Connected reports whether the account has at least one open socket.
func (h *Hub) Connected(userID primitive.ObjectID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// SendToUser writes msg to every socket of the account.
func (h *Hub) SendToUser(userID primitive.ObjectID, msg Message) error {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for client := range h.clients[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return ErrNotConnected
	}
	var firstErr error
	for _, client := range targets {
		if err := client.send(msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// AuthenticateClient moves a client into the account's set.
func (h *Hub) AuthenticateClient(client *Client, userID primitive.ObjectID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.remove(client)
	client.Authenticated = true
	client.UserID = userID
	h.add(client)
}

// PushNotification delivers an in-app notification to a connected account.
// Offline accounts are skipped; they read it from the inbox later.
func (h *Hub) PushNotification(userID primitive.ObjectID, notification interface{}) error {
	err := h.SendToUser(userID, Message{
		Type:    TypeNotification,
		Message: "Nova notificação",
		Data:    notification,
	})
	if errors.Is(err, ErrNotConnected) {
		return nil
	}
	return err
}
