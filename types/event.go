package types

import (
	"fmt"
	"time"
)

// Record event actions. Lead closures are published in addition to the
// lead.updated event that caused them.
const (
	EventCreated        = "created"
	EventUpdated        = "updated"
	EventDeleted        = "deleted"
	EventLeadClosedWon  = "closed_won"
	EventLeadClosedLost = "closed_lost"
)

// EventTypeAttribute is the message attribute that carries RecordEvent.Type.
const EventTypeAttribute = "event_type"

// RecordEvent is published on the message queue after a record change
// has been committed.
type RecordEvent struct {
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	ID         int       `json:"id"`
	OwnerID    int       `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewRecordEvent builds an event of type "<entity>.<action>".
func NewRecordEvent(entity, action string, ownerID, id int) RecordEvent {
	return RecordEvent{
		Type:       fmt.Sprintf("%s.%s", entity, action),
		Entity:     entity,
		ID:         id,
		OwnerID:    ownerID,
		OccurredAt: time.Now().UTC(),
	}
}
