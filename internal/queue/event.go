// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/plant-catalog/internal/model"
)

// Event types published after a committed change to the plants table.
const (
	PlantCreated = "plant.created"
	PlantUpdated = "plant.updated"
	PlantDeleted = "plant.deleted"
)

// PlantEvent is published when a plant is created, updated or deleted.
// Plant holds the row as committed; for deletions it is the last state the
// row had before it was removed.
type PlantEvent struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	PlantID    uint64      `json:"plant_id"`
	Plant      model.Plant `json:"plant"`
	OccurredAt string      `json:"occurred_at"`
}

// NewPlantEvent stamps a new event with a random id and the current UTC time.
func NewPlantEvent(typ string, p model.Plant) PlantEvent {
	return PlantEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		PlantID:    p.ID,
		Plant:      p,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
