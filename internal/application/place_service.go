package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	placeDomain "github.com/tripcost/service-route/internal/domain/place"
	"github.com/tripcost/service-route/internal/platform/domain"
	"go.uber.org/zap"
)

// RegisterPlaceRequest registers an interest point by coordinates.
type RegisterPlaceRequest struct {
	Name      string   `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// RegisterToponymRequest registers an interest point by place name.
type RegisterToponymRequest struct {
	Name string `json:"name" binding:"required"`
}

// InterestPointDTO is the API response representation of an interest point.
type InterestPointDTO struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Geohash   string    `json:"geohash"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaceService implements use cases for interest points.
type PlaceService struct {
	repo     placeDomain.InterestPointRepository
	geocoder placeDomain.Geocoder
	logger   *zap.Logger
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(repo placeDomain.InterestPointRepository, geocoder placeDomain.Geocoder, logger *zap.Logger) *PlaceService {
	return &PlaceService{repo: repo, geocoder: geocoder, logger: logger}
}

// RegisterByCoordinates stores a named point at the given position.
func (s *PlaceService) RegisterByCoordinates(ctx context.Context, ownerID uuid.UUID, req RegisterPlaceRequest) (*InterestPointDTO, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, placeDomain.ErrInvalidCoordinates
	}
	if err := s.ensureUniqueName(ctx, ownerID, req.Name); err != nil {
		return nil, err
	}

	p, err := placeDomain.NewInterestPoint(ownerID, req.Name, *req.Latitude, *req.Longitude)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// RegisterByToponym geocodes the name and stores the resulting point. The
// name is checked for duplicates before the geocoder is called.
func (s *PlaceService) RegisterByToponym(ctx context.Context, ownerID uuid.UUID, req RegisterToponymRequest) (*InterestPointDTO, error) {
	if err := s.ensureUniqueName(ctx, ownerID, req.Name); err != nil {
		return nil, err
	}

	coord, err := s.geocoder.Geocode(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}

	p, err := placeDomain.NewInterestPoint(ownerID, req.Name, coord.Latitude, coord.Longitude)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// ListPlaces returns the owner's interest points.
func (s *PlaceService) ListPlaces(ctx context.Context, ownerID uuid.UUID) ([]InterestPointDTO, error) {
	points, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]InterestPointDTO, len(points))
	for i, p := range points {
		dtos[i] = toInterestPointDTO(p)
	}
	return dtos, nil
}

// DeletePlace removes one of the owner's interest points.
func (s *PlaceService) DeletePlace(ctx context.Context, ownerID, placeID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, placeID)
	if err != nil {
		return err
	}
	if !p.IsOwnedBy(ownerID) {
		return domain.NewForbiddenError("interest point does not belong to this user")
	}
	return s.repo.Delete(ctx, placeID)
}

func (s *PlaceService) ensureUniqueName(ctx context.Context, ownerID uuid.UUID, name string) error {
	exists, err := s.repo.ExistsByName(ctx, ownerID, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("failed to check interest point name: %w", err)
	}
	if exists {
		return placeDomain.ErrDuplicateInterestPoint
	}
	return nil
}

func (s *PlaceService) save(ctx context.Context, p *placeDomain.InterestPoint) (*InterestPointDTO, error) {
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("interest point registered",
		zap.String("place_id", p.ID().String()),
		zap.String("owner_id", p.OwnerID().String()),
		zap.String("geohash", p.Geohash()),
	)
	result := toInterestPointDTO(p)
	return &result, nil
}

func toInterestPointDTO(p *placeDomain.InterestPoint) InterestPointDTO {
	return InterestPointDTO{
		ID:        p.ID(),
		OwnerID:   p.OwnerID(),
		Name:      p.Name(),
		Latitude:  p.Latitude(),
		Longitude: p.Longitude(),
		Geohash:   p.Geohash(),
		CreatedAt: p.CreatedAt(),
	}
}
