package journey

import (
	"time"

	"github.com/google/uuid"
)

// TopicJourneyEvents is the Kafka topic stored-journey events are published to.
const TopicJourneyEvents = "journey.events"

// CloudEvent types published on TopicJourneyEvents.
const (
	EventSaved           = "journey.saved"
	EventFavoriteToggled = "journey.favorite_toggled"
	EventDeleted         = "journey.deleted"
)

// SavedEvent is the payload of EventSaved.
type SavedEvent struct {
	JourneyID      uuid.UUID `json:"journey_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Label          string    `json:"label"`
	DistanceMeters float64   `json:"distance_meters"`
	CostAmount     *float64  `json:"cost_amount"`
	Currency       string    `json:"currency,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// FavoriteToggledEvent is the payload of EventFavoriteToggled.
type FavoriteToggledEvent struct {
	JourneyID  uuid.UUID `json:"journey_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	IsFavorite bool      `json:"is_favorite"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DeletedEvent is the payload of EventDeleted.
type DeletedEvent struct {
	JourneyID  uuid.UUID `json:"journey_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
