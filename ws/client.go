package ws

import (
	"context"
	"encoding/json"

	"reviewdeck_backend/internal/logger"
	"reviewdeck_backend/pkg/rtevents"

	"github.com/gorilla/websocket"
)

// Client is one connected browser session. Send is drained by
// writePump; room is managed by the hub under its lock.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan *rtevents.Envelope
	Ctx  context.Context

	Hub  *Hub
	room string
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "client_id", c.ID, "error", err.Error())
			}
			break
		}

		var env rtevents.Envelope
		if err := json.Unmarshal(msgBytes, &env); err != nil {
			logger.Warn("Failed to parse realtime message", "client_id", c.ID, "error", err.Error())
			continue
		}

		c.handleMessage(env)
	}
}

func (c *Client) writePump() {
	// Closing the connection here ends readPump on the peer side when
	// the hub closes Send during eviction.
	defer c.Conn.Close()

	for env := range c.Send {
		if err := c.Conn.WriteJSON(env); err != nil {
			logger.Warn("WebSocket write error", "client_id", c.ID, "error", err.Error())
			break
		}
	}
}

// handleMessage dispatches a client-emitted event. Mutating actions are
// persisted first, then the resulting payload is rebroadcast to the
// project room.
func (c *Client) handleMessage(env rtevents.Envelope) {
	switch env.Event {

	case rtevents.EventJoinProject:
		var payload rtevents.JoinProjectPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.ProjectID == "" {
			logger.Warn("Invalid join-project payload", "client_id", c.ID)
			return
		}
		c.Hub.JoinProject(c, payload.ProjectID)

	case rtevents.EventLeaveProject:
		c.Hub.LeaveProject(c)

	case rtevents.EventAddAnnotation:
		var payload rtevents.AddAnnotationPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			logger.Warn("Invalid addAnnotation payload", "client_id", c.ID, "error", err.Error())
			return
		}
		added, err := c.Hub.annotationSvc.AddAnnotation(c.Hub.db, payload)
		if err != nil {
			logger.Warn("Failed to add annotation", "client_id", c.ID, "error", err.Error())
			return
		}
		c.publish(payload.ProjectID, rtevents.EventAnnotationAdded, added)

	case rtevents.EventResolveAnnotation:
		var payload rtevents.ResolveAnnotationPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			logger.Warn("Invalid resolveAnnotation payload", "client_id", c.ID, "error", err.Error())
			return
		}
		resolved, err := c.Hub.annotationSvc.ResolveAnnotation(c.Hub.db, payload)
		if err != nil {
			logger.Warn("Failed to resolve annotation", "client_id", c.ID, "error", err.Error())
			return
		}
		c.publish(payload.ProjectID, rtevents.EventAnnotationResolved, resolved)

	case rtevents.EventUpdateElementStatus:
		var payload rtevents.UpdateElementStatusPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			logger.Warn("Invalid updateElementStatus payload", "client_id", c.ID, "error", err.Error())
			return
		}
		changed, err := c.Hub.elementSvc.UpdateElementStatus(c.Hub.db, payload)
		if err != nil {
			logger.Warn("Failed to update element status", "client_id", c.ID, "error", err.Error())
			return
		}
		c.publish(payload.ProjectID, rtevents.EventStatusChanged, changed)

	case rtevents.EventAddComment:
		var payload rtevents.AddCommentPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			logger.Warn("Invalid addComment payload", "client_id", c.ID, "error", err.Error())
			return
		}
		added, err := c.Hub.commentSvc.AddComment(c.Hub.db, payload)
		if err != nil {
			logger.Warn("Failed to add comment", "client_id", c.ID, "error", err.Error())
			return
		}
		c.publish(payload.ProjectID, rtevents.EventCommentAdded, added)

	default:
		logger.Warn("Unhandled realtime event", "client_id", c.ID, "event", env.Event)
	}
}

func (c *Client) publish(projectID, event string, payload any) {
	if err := c.Hub.PublishToProject(projectID, event, payload); err != nil {
		logger.Warn("Failed to broadcast event", "event", event, "project_id", projectID, "error", err.Error())
	}
}
