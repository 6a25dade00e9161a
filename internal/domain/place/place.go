// Package place models the interest points a user registers as route endpoints.
package place

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
)

// geohashPrecision gives cells of roughly 5m x 5m.
const geohashPrecision = 9

var (
	// ErrInvalidCoordinates is returned for a latitude outside [-90,90] or a longitude outside [-180,180].
	ErrInvalidCoordinates = domain.NewError(domain.KindValidation, "invalid_coordinates", "latitude must be within [-90,90] and longitude within [-180,180]")

	// ErrInvalidToponym is returned when a place name cannot be geocoded.
	ErrInvalidToponym = domain.NewError(domain.KindValidation, "invalid_toponym", "the place name could not be resolved")

	// ErrDuplicateInterestPoint is returned when the owner already has a point with the same name.
	ErrDuplicateInterestPoint = domain.NewError(domain.KindConflict, "duplicate_interest_point", "an interest point with this name is already registered")
)

// Geocoder resolves a toponym into coordinates. Implementations return
// ErrInvalidToponym when nothing matches.
type Geocoder interface {
	Geocode(ctx context.Context, toponym string) (route.Coordinate, error)
}

// InterestPoint is a named place owned by a user.
type InterestPoint struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	name      string
	latitude  float64
	longitude float64
	geohash   string
	createdAt time.Time
}

// NewInterestPoint validates the coordinates and creates the point.
func NewInterestPoint(ownerID uuid.UUID, name string, latitude, longitude float64) (*InterestPoint, error) {
	name = strings.TrimSpace(name)
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("interest point name is required")
	}
	if !ValidCoordinates(latitude, longitude) {
		return nil, ErrInvalidCoordinates
	}

	return &InterestPoint{
		id:        uuid.New(),
		ownerID:   ownerID,
		name:      name,
		latitude:  latitude,
		longitude: longitude,
		geohash:   geohash.EncodeWithPrecision(latitude, longitude, geohashPrecision),
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an InterestPoint from persistence.
func Reconstruct(id, ownerID uuid.UUID, name string, latitude, longitude float64, hash string, createdAt time.Time) *InterestPoint {
	return &InterestPoint{
		id:        id,
		ownerID:   ownerID,
		name:      name,
		latitude:  latitude,
		longitude: longitude,
		geohash:   hash,
		createdAt: createdAt,
	}
}

// ValidCoordinates reports whether the pair is a valid WGS84 position.
func ValidCoordinates(latitude, longitude float64) bool {
	return latitude >= -90 && latitude <= 90 && longitude >= -180 && longitude <= 180
}

// Getters.
func (p *InterestPoint) ID() uuid.UUID        { return p.id }
func (p *InterestPoint) OwnerID() uuid.UUID   { return p.ownerID }
func (p *InterestPoint) Name() string         { return p.name }
func (p *InterestPoint) Latitude() float64    { return p.latitude }
func (p *InterestPoint) Longitude() float64   { return p.longitude }
func (p *InterestPoint) Geohash() string      { return p.geohash }
func (p *InterestPoint) CreatedAt() time.Time { return p.createdAt }

// IsOwnedBy checks if the point belongs to the given owner.
func (p *InterestPoint) IsOwnedBy(ownerID uuid.UUID) bool {
	return p.ownerID == ownerID
}

// ToNamedPoint returns the point as a route endpoint with coordinates.
func (p *InterestPoint) ToNamedPoint() route.NamedPoint {
	lat, lng := p.latitude, p.longitude
	return route.NamedPoint{Name: p.name, Latitude: &lat, Longitude: &lng}
}
