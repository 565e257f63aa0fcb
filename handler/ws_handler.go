package handler

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ws "github.com/gorilla/websocket"

	"notedeck/realtime"
	"notedeck/services"
	"notedeck/utils"
)

// WebSocketHandler upgrades authenticated clients onto the realtime hub and
// answers their application-level pings.
type WebSocketHandler struct {
	hub      *realtime.Hub
	watcher  *realtime.Watcher
	upgrader ws.Upgrader
}

func NewWebSocketHandler(hub *realtime.Hub, watcher *realtime.Watcher) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		watcher: watcher,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	hub.SetMessageHandler(h)
	return h
}

// HandleConnection authenticates the upgrade request. Browsers cannot set an
// Authorization header on a websocket, so the token also rides a query param.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization token"})
		return
	}

	if services.IsTokenBlacklisted(token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been invalidated"})
		return
	}

	userID, err := services.ValidateAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	deviceID := c.Query("device_id")
	if deviceID == "" {
		deviceID = "default"
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %s: %v", userID, err)
		return
	}

	client := realtime.NewClient(utils.GenerateID(), userID, deviceID, conn, h.hub)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	// New connections get the current ordered snapshot right away. The
	// request context dies with the upgrade, so use a fresh one.
	go h.watcher.PushSnapshot(context.Background(), userID)
}

func (h *WebSocketHandler) HandleClientMessage(client *realtime.Client, msg *realtime.Message) error {
	switch msg.Type {
	case realtime.TypePing:
		pong, err := realtime.NewMessage(realtime.TypePong, nil)
		if err != nil {
			return err
		}
		return h.hub.SendToClient(client.ID, pong)

	default:
		log.Printf("unknown message type: %s", msg.Type)
	}
	return nil
}
