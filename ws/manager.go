package ws

import (
	"fmt"
	"sync"

	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/internal/services"
	"reviewdeck_backend/pkg/rtevents"

	"gorm.io/gorm"
)

// Hub owns every connected client and the project-room index. It
// implements services.Notifier so the HTTP layer can publish without
// knowing about websockets.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	db            *gorm.DB
	annotationSvc services.AnnotationService
	commentSvc    services.CommentService
	elementSvc    services.ElementService
}

func NewHub(
	db *gorm.DB,
	annotationSvc services.AnnotationService,
	commentSvc services.CommentService,
	elementSvc services.ElementService,
) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		rooms:         make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		db:            db,
		annotationSvc: annotationSvc,
		commentSvc:    commentSvc,
		elementSvc:    elementSvc,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Realtime client registered", "client_id", client.ID, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.removeFromRoomLocked(client)
				close(client.Send)
				delete(h.clients, client)
				// Tear the transport down too, otherwise an evicted
				// client's readPump keeps running against a dead session.
				if client.Conn != nil {
					client.Conn.Close()
				}
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Realtime client unregistered", "client_id", client.ID, "total", total)
		}
	}
}

// JoinProject moves the client into the project's room, leaving any
// previous one. Room membership is what scopes event delivery.
func (h *Hub) JoinProject(client *Client, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// An unregistered client has a closed Send channel; letting it back
	// into a room would make the next broadcast panic.
	if !h.clients[client] {
		logger.Warn("Join refused for unregistered client", "client_id", client.ID)
		return
	}

	h.removeFromRoomLocked(client)

	room := rtevents.RoomName(projectID)
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.room = room

	logger.Info("Client joined project room", "client_id", client.ID, "room", room)
}

// LeaveProject removes the client from its current room, if any.
func (h *Hub) LeaveProject(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(client)
}

func (h *Hub) removeFromRoomLocked(client *Client) {
	if client.room == "" {
		return
	}
	if members, ok := h.rooms[client.room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, client.room)
		}
	}
	client.room = ""
}

// PublishToProject fans an event out to every client in the project
// room. A client whose send buffer is full is evicted rather than
// allowed to block the broadcast.
func (h *Hub) PublishToProject(projectID, event string, payload any) error {
	env, err := rtevents.NewEnvelope(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}

	room := rtevents.RoomName(projectID)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		select {
		case client.Send <- env:
		default:
			go func(c *Client) {
				h.unregister <- c
			}(client)
			logger.Warn("Client evicted due to full send channel", "client_id", client.ID, "room", room)
		}
	}
	return nil
}

// RoomSize reports how many clients are joined to a project's room.
func (h *Hub) RoomSize(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[rtevents.RoomName(projectID)])
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
