package journey

import (
	"context"

	"github.com/google/uuid"
)

// JourneyRepository defines the persistence contract for stored journeys.
type JourneyRepository interface {
	// FindByID retrieves a journey by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*StoredJourney, error)

	// FindByOwnerID retrieves an owner's journeys with pagination, optionally favorites only.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, favoritesOnly bool, page, limit int) ([]*StoredJourney, int64, error)

	// ExistsByLabel reports whether the owner already stored a journey with this label.
	ExistsByLabel(ctx context.Context, ownerID uuid.UUID, label string) (bool, error)

	// Save persists a new journey. A label clash yields ErrJourneyAlreadyStored.
	Save(ctx context.Context, j *StoredJourney) error

	// Update persists changes to an existing journey with optimistic locking.
	Update(ctx context.Context, j *StoredJourney) error

	// Delete removes a journey.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByOwnerID removes every journey of an owner and returns how many were removed.
	DeleteByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
