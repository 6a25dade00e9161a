package journey

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
)

const maxLabelLength = 100

// ErrJourneyAlreadyStored is returned when the owner already has a journey with the same label.
var ErrJourneyAlreadyStored = domain.NewError(domain.KindConflict, "journey_already_stored", "a journey with this label is already stored")

// StoredJourney is the aggregate root for a journey the user chose to keep.
type StoredJourney struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	label           string
	coordinates     []route.Coordinate
	distanceMeters  float64
	durationSeconds float64
	cost            route.Cost
	isFavorite      bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewStoredJourney snapshots a computed journey under a label. It starts as a non-favorite.
func NewStoredJourney(ownerID uuid.UUID, label string, j route.Journey, cost route.Cost) (*StoredJourney, error) {
	label = strings.TrimSpace(label)
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if label == "" {
		return nil, domain.NewValidationError("journey label is required")
	}
	if len(label) > maxLabelLength {
		return nil, domain.NewValidationError("journey label is too long")
	}
	if len(j.Coordinates) < 2 {
		return nil, domain.NewValidationError("journey needs at least two coordinates")
	}
	if j.DistanceMeters < 0 || j.DurationSeconds < 0 {
		return nil, domain.NewValidationError("journey distance and duration must not be negative")
	}

	coords := make([]route.Coordinate, len(j.Coordinates))
	copy(coords, j.Coordinates)

	now := time.Now().UTC()
	return &StoredJourney{
		id:              uuid.New(),
		ownerID:         ownerID,
		label:           label,
		coordinates:     coords,
		distanceMeters:  j.DistanceMeters,
		durationSeconds: j.DurationSeconds,
		cost:            cost,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a StoredJourney from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	label string,
	coordinates []route.Coordinate,
	distanceMeters, durationSeconds float64,
	cost route.Cost,
	isFavorite bool,
	version int64,
	createdAt, updatedAt time.Time,
) *StoredJourney {
	return &StoredJourney{
		id:              id,
		ownerID:         ownerID,
		label:           label,
		coordinates:     coordinates,
		distanceMeters:  distanceMeters,
		durationSeconds: durationSeconds,
		cost:            cost,
		isFavorite:      isFavorite,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (j *StoredJourney) ID() uuid.UUID                   { return j.id }
func (j *StoredJourney) OwnerID() uuid.UUID              { return j.ownerID }
func (j *StoredJourney) Label() string                   { return j.label }
func (j *StoredJourney) Coordinates() []route.Coordinate { return j.coordinates }
func (j *StoredJourney) DistanceMeters() float64         { return j.distanceMeters }
func (j *StoredJourney) DurationSeconds() float64        { return j.durationSeconds }
func (j *StoredJourney) Cost() route.Cost                { return j.cost }
func (j *StoredJourney) IsFavorite() bool                { return j.isFavorite }
func (j *StoredJourney) Version() int64                  { return j.version }
func (j *StoredJourney) CreatedAt() time.Time            { return j.createdAt }
func (j *StoredJourney) UpdatedAt() time.Time            { return j.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the journey belongs to the given user.
func (j *StoredJourney) IsOwnedBy(ownerID uuid.UUID) bool {
	return j.ownerID == ownerID
}

// ToggleFavorite flips the favorite flag. It is the only mutation a stored journey allows.
func (j *StoredJourney) ToggleFavorite() {
	j.isFavorite = !j.isFavorite
	j.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (j *StoredJourney) IncrementVersion() {
	j.version++
	j.updatedAt = time.Now().UTC()
}
