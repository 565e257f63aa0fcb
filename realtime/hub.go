package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"notedeck/middleware"
)

type ClientMessage struct {
	Client  *Client
	Message []byte
}

// Hub tracks open connections and fans ordered snapshots out to every
// connection a user has.
type Hub struct {
	clients        map[string]*Client
	userIndex      map[string]map[string]bool
	clientsMutex   sync.RWMutex
	Register       chan *Client
	Unregister     chan *Client
	HandleMessage  chan *ClientMessage
	maxConnPerUser int
	writeWait      time.Duration
	pongWait       time.Duration
	pingPeriod     time.Duration
	messageHandler MessageHandler
}

type MessageHandler interface {
	HandleClientMessage(client *Client, msg *Message) error
}

func NewHub(maxConnPerUser int, writeWait, pongWait, pingPeriod time.Duration) *Hub {
	return &Hub{
		clients:        make(map[string]*Client),
		userIndex:      make(map[string]map[string]bool),
		Register:       make(chan *Client),
		Unregister:     make(chan *Client),
		HandleMessage:  make(chan *ClientMessage),
		maxConnPerUser: maxConnPerUser,
		writeWait:      writeWait,
		pongWait:       pongWait,
		pingPeriod:     pingPeriod,
	}
}

func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.messageHandler = handler
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case clientMsg := <-h.HandleMessage:
			h.processMessage(clientMsg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	if h.userIndex[client.UserID] == nil {
		h.userIndex[client.UserID] = make(map[string]bool)
	}

	if len(h.userIndex[client.UserID]) >= h.maxConnPerUser {
		log.Printf("max connections reached for user %s", client.UserID)
		close(client.Send)
		return
	}

	h.clients[client.ID] = client
	h.userIndex[client.UserID][client.ID] = true
	middleware.RealtimeConnections.Inc()

	log.Printf("client registered: %s (user: %s, device: %s)", client.ID, client.UserID, client.DeviceID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMutex.Lock()
	defer h.clientsMutex.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		delete(h.userIndex[client.UserID], client.ID)

		if len(h.userIndex[client.UserID]) == 0 {
			delete(h.userIndex, client.UserID)
		}

		close(client.Send)
		middleware.RealtimeConnections.Dec()
		log.Printf("client unregistered: %s", client.ID)
	}
}

func (h *Hub) processMessage(clientMsg *ClientMessage) {
	var msg Message
	if err := json.Unmarshal(clientMsg.Message, &msg); err != nil {
		log.Printf("error unmarshaling message: %v", err)
		return
	}

	if h.messageHandler != nil {
		if err := h.messageHandler.HandleClientMessage(clientMsg.Client, &msg); err != nil {
			log.Printf("error handling message: %v", err)
		}
	}
}

// BroadcastToUser pushes a message to every connection the user has,
// optionally skipping the device that caused the change.
func (h *Hub) BroadcastToUser(userID string, message *Message, excludeDeviceID string) error {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	clientIDs, exists := h.userIndex[userID]
	if !exists {
		return nil
	}

	for clientID := range clientIDs {
		client := h.clients[clientID]
		if client.DeviceID != excludeDeviceID {
			select {
			case client.Send <- messageBytes:
			default:
				log.Printf("client %s send buffer full, closing connection", clientID)
				go func(c *Client) { h.Unregister <- c }(client)
			}
		}
	}

	return nil
}

func (h *Hub) SendToClient(clientID string, message *Message) error {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return nil
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case client.Send <- messageBytes:
	default:
		log.Printf("client %s send buffer full", clientID)
	}

	return nil
}

// ConnectedUsers returns the IDs of users with at least one open connection.
func (h *Hub) ConnectedUsers() []string {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	users := make([]string, 0, len(h.userIndex))
	for userID := range h.userIndex {
		users = append(users, userID)
	}
	return users
}

func (h *Hub) UserConnections(userID string) int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	if clients, exists := h.userIndex[userID]; exists {
		return len(clients)
	}
	return 0
}
