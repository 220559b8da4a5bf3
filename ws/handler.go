package ws

import (
	"net/http"

	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/pkg/rtevents"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origin once the frontend host is pinned
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Hub *Hub
}

func NewWebSocketHandler(hub *Hub) *WebSocketHandler {
	return &WebSocketHandler{
		Hub: hub,
	}
}

// ServeWS upgrades the HTTP request and attaches the session to the
// hub. The session id comes from the auth middleware when present,
// otherwise a fresh id is assigned (shared review links allow
// anonymous viewers).
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	clientID := ""
	if userID, exists := c.Get("userID"); exists {
		clientID, _ = userID.(string)
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade error", "error", err.Error())
		return
	}

	client := &Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan *rtevents.Envelope, 256),
		Ctx:  c.Request.Context(),
		Hub:  h.Hub,
	}

	h.Hub.register <- client

	go client.readPump()
	go client.writePump()
}
