package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kg6zjl/derbylive/internal/config"
	"github.com/kg6zjl/derbylive/internal/domain"
	"github.com/kg6zjl/derbylive/internal/hub"
	"github.com/kg6zjl/derbylive/internal/service"
	"github.com/kg6zjl/derbylive/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades viewer connections and feeds them into the hub.
type WSHandler struct {
	hub     *hub.Hub
	service service.ResultService
	wsCfg   config.WebSocketConfig
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(h *hub.Hub, svc service.ResultService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

// RegisterRoutes registers the websocket route.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection, joins the viewer to the room,
// and syncs it with the current race state.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)

	go client.WritePump()
	h.service.HandleConnect(ctx, client)

	go func() {
		client.ReadPump(h.handleMessage)
		h.service.HandleDisconnect(ctx, client)
	}()
}

// handleMessage processes inbound viewer messages. Viewers are read-only;
// only keepalive pings are expected.
func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "Invalid message format"))
		return
	}

	switch base.Type {
	case domain.MsgTypePing:
		client.SendMessage(&domain.PongMessage{Type: domain.EventPong})
	default:
		client.SendMessage(domain.NewErrorMessage(domain.ErrCodeBadRequest, "Unknown message type"))
	}
}
