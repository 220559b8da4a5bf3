// Package rtevents defines the wire protocol of the realtime channel:
// the envelope framing and one fixed payload schema per event name.
// Both the server hub and the client wrapper marshal through these
// types so the two sides cannot drift apart.
package rtevents

import "encoding/json"

// Event names emitted by clients.
const (
	EventJoinProject         = "join-project"
	EventLeaveProject        = "leave-project"
	EventAddAnnotation       = "addAnnotation"
	EventResolveAnnotation   = "resolveAnnotation"
	EventUpdateElementStatus = "updateElementStatus"
	EventAddComment          = "addComment"
)

// Event names published by the server to a project room.
const (
	EventReviewStatusUpdated = "reviewStatusUpdated"
	EventDummySuccessMessage = "dummySuccessMessage"
	EventAnnotationAdded     = "annotationAdded"
	EventAnnotationResolved  = "annotationResolved"
	EventStatusChanged       = "statusChanged"
	EventCommentAdded        = "commentAdded"
)

// Envelope frames every message on the channel.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into a ready-to-send envelope.
func NewEnvelope(event string, payload any) (*Envelope, error) {
	env := &Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return env, nil
}

// --- Client-emitted payloads ---

type JoinProjectPayload struct {
	ProjectID string `json:"projectId"`
}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AddAnnotationPayload struct {
	ProjectID   string      `json:"projectId"`
	FileID      string      `json:"fileId"`
	Annotation  string      `json:"annotation"`
	Coordinates Coordinates `json:"coordinates"`
	AddedBy     string      `json:"addedBy"`
	AddedByName string      `json:"addedByName"`
}

type ResolveAnnotationPayload struct {
	ProjectID    string `json:"projectId"`
	AnnotationID string `json:"annotationId"`
	ResolvedBy   string `json:"resolvedBy"`
}

type UpdateElementStatusPayload struct {
	ProjectID string `json:"projectId"`
	ElementID string `json:"elementId"`
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
	Comment   string `json:"comment,omitempty"`
}

type AddCommentPayload struct {
	ProjectID   string `json:"projectId"`
	ElementID   string `json:"elementId"`
	Comment     string `json:"comment"`
	AddedBy     string `json:"addedBy"`
	AddedByName string `json:"addedByName"`
}

// --- Server-published payloads ---

// ReviewStatusUpdatedPayload mirrors the fields of the HTTP-triggered
// status event. Timestamps are RFC3339 strings.
type ReviewStatusUpdatedPayload struct {
	ReviewID    string `json:"reviewId"`
	ProjectID   string `json:"projectId"`
	Status      string `json:"status"`
	UpdatedAt   string `json:"updatedAt"`
	Timestamp   string `json:"timestamp"`
	Message     string `json:"message"`
	IsFromAdmin bool   `json:"isFromAdmin"`
}

// AckMessagePayload is the acknowledgement addressed to the party
// opposite of the originator.
type AckMessagePayload struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp string `json:"timestamp"`
}

type AnnotationAddedPayload struct {
	AnnotationID string      `json:"annotationId"`
	ProjectID    string      `json:"projectId"`
	FileID       string      `json:"fileId"`
	Annotation   string      `json:"annotation"`
	Coordinates  Coordinates `json:"coordinates"`
	AddedBy      string      `json:"addedBy"`
	AddedByName  string      `json:"addedByName"`
	Timestamp    string      `json:"timestamp"`
}

type AnnotationResolvedPayload struct {
	AnnotationID string `json:"annotationId"`
	ProjectID    string `json:"projectId"`
	ResolvedBy   string `json:"resolvedBy"`
	Timestamp    string `json:"timestamp"`
}

type StatusChangedPayload struct {
	ElementID string `json:"elementId"`
	ProjectID string `json:"projectId"`
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
	Comment   string `json:"comment,omitempty"`
	Timestamp string `json:"timestamp"`
}

type CommentAddedPayload struct {
	CommentID   string `json:"commentId"`
	ProjectID   string `json:"projectId"`
	ElementID   string `json:"elementId"`
	Comment     string `json:"comment"`
	AddedBy     string `json:"addedBy"`
	AddedByName string `json:"addedByName"`
	Timestamp   string `json:"timestamp"`
}

// RoomName returns the pub/sub room for a project.
func RoomName(projectID string) string {
	return "project-" + projectID
}
