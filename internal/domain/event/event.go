package event

import (
	"time"
)

type Type string

const (
	TypeProjectCreated Type = "project_created"
	TypeProjectUpdated Type = "project_updated"
	TypeProjectDeleted Type = "project_deleted"
)

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state through the list endpoint.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func New(eventType Type, entityID string) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
