package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	journeyDomain "github.com/tripcost/service-route/internal/domain/journey"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
	"github.com/tripcost/service-route/internal/platform/kafka"
	"go.uber.org/zap"
)

const eventSource = "service-route"

// EventPublisher publishes CloudEvents. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// SaveJourneyRequest stores a computed journey under a label.
type SaveJourneyRequest struct {
	Label   string        `json:"label" binding:"required"`
	Journey route.Journey `json:"journey"`
	Cost    *CostDTO      `json:"cost"`
}

// StoredJourneyDTO is the response representation of a stored journey.
type StoredJourneyDTO struct {
	ID              uuid.UUID          `json:"id"`
	OwnerID         uuid.UUID          `json:"owner_id"`
	Label           string             `json:"label"`
	Coordinates     []route.Coordinate `json:"coordinates"`
	DistanceMeters  float64            `json:"distance_meters"`
	DurationSeconds float64            `json:"duration_seconds"`
	Cost            *CostDTO           `json:"cost"`
	IsFavorite      bool               `json:"is_favorite"`
	Version         int64              `json:"version"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// JourneyService orchestrates stored-journey use cases.
type JourneyService struct {
	repo      journeyDomain.JourneyRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewJourneyService creates a new JourneyService.
func NewJourneyService(repo journeyDomain.JourneyRepository, publisher EventPublisher, logger *zap.Logger) *JourneyService {
	return &JourneyService{repo: repo, publisher: publisher, logger: logger}
}

// SaveJourney stores a journey for the owner. Labels are unique per owner.
func (s *JourneyService) SaveJourney(ctx context.Context, ownerID uuid.UUID, req SaveJourneyRequest) (*StoredJourneyDTO, error) {
	cost := route.Unpriced
	if req.Cost != nil {
		if req.Cost.Amount < 0 {
			return nil, domain.NewValidationError("cost must not be negative")
		}
		currency := req.Cost.Currency
		if currency == "" {
			currency = domain.CurrencyEUR
		}
		cost = route.Cost{Amount: route.Round2(req.Cost.Amount), Currency: currency, Priced: true}
	}

	j, err := journeyDomain.NewStoredJourney(ownerID, req.Label, req.Journey, cost)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByLabel(ctx, ownerID, j.Label())
	if err != nil {
		return nil, fmt.Errorf("failed to check journey label: %w", err)
	}
	if exists {
		return nil, journeyDomain.ErrJourneyAlreadyStored
	}

	// The unique index still catches a concurrent save under the same label.
	if err := s.repo.Save(ctx, j); err != nil {
		return nil, err
	}

	evt := journeyDomain.SavedEvent{
		JourneyID:      j.ID(),
		OwnerID:        j.OwnerID(),
		Label:          j.Label(),
		DistanceMeters: j.DistanceMeters(),
		OccurredAt:     time.Now().UTC(),
	}
	if c := j.Cost(); c.Priced {
		amount := c.Amount
		evt.CostAmount = &amount
		evt.Currency = c.Currency
	}
	s.publishEvent(ctx, journeyDomain.EventSaved, j.ID().String(), evt)

	result := toStoredJourneyDTO(j)
	return &result, nil
}

// ListJourneys returns a page of the owner's journeys, newest first.
func (s *JourneyService) ListJourneys(ctx context.Context, ownerID uuid.UUID, favoritesOnly bool, page, limit int) (*domain.PaginatedResult[StoredJourneyDTO], error) {
	journeys, total, err := s.repo.FindByOwnerID(ctx, ownerID, favoritesOnly, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]StoredJourneyDTO, len(journeys))
	for i, j := range journeys {
		dtos[i] = toStoredJourneyDTO(j)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetJourney returns one of the owner's journeys.
func (s *JourneyService) GetJourney(ctx context.Context, ownerID, journeyID uuid.UUID) (*StoredJourneyDTO, error) {
	j, err := s.findOwned(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}
	result := toStoredJourneyDTO(j)
	return &result, nil
}

// ToggleFavorite flips the favorite flag of one of the owner's journeys.
func (s *JourneyService) ToggleFavorite(ctx context.Context, ownerID, journeyID uuid.UUID) (*StoredJourneyDTO, error) {
	j, err := s.findOwned(ctx, ownerID, journeyID)
	if err != nil {
		return nil, err
	}

	j.ToggleFavorite()
	j.IncrementVersion()
	if err := s.repo.Update(ctx, j); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, journeyDomain.EventFavoriteToggled, j.ID().String(), journeyDomain.FavoriteToggledEvent{
		JourneyID:  j.ID(),
		OwnerID:    j.OwnerID(),
		IsFavorite: j.IsFavorite(),
		OccurredAt: time.Now().UTC(),
	})

	result := toStoredJourneyDTO(j)
	return &result, nil
}

// DeleteJourney removes one of the owner's journeys.
func (s *JourneyService) DeleteJourney(ctx context.Context, ownerID, journeyID uuid.UUID) error {
	j, err := s.findOwned(ctx, ownerID, journeyID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, j.ID()); err != nil {
		return fmt.Errorf("failed to delete journey: %w", err)
	}

	s.publishEvent(ctx, journeyDomain.EventDeleted, j.ID().String(), journeyDomain.DeletedEvent{
		JourneyID:  j.ID(),
		OwnerID:    j.OwnerID(),
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (s *JourneyService) findOwned(ctx context.Context, ownerID, journeyID uuid.UUID) (*journeyDomain.StoredJourney, error) {
	j, err := s.repo.FindByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if !j.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("journey does not belong to this user")
	}
	return j, nil
}

// --- Helpers ---

func toStoredJourneyDTO(j *journeyDomain.StoredJourney) StoredJourneyDTO {
	dto := StoredJourneyDTO{
		ID:              j.ID(),
		OwnerID:         j.OwnerID(),
		Label:           j.Label(),
		Coordinates:     j.Coordinates(),
		DistanceMeters:  j.DistanceMeters(),
		DurationSeconds: j.DurationSeconds(),
		IsFavorite:      j.IsFavorite(),
		Version:         j.Version(),
		CreatedAt:       j.CreatedAt(),
		UpdatedAt:       j.UpdatedAt(),
	}
	if c := j.Cost(); c.Priced {
		dto.Cost = &CostDTO{Amount: c.Amount, Currency: c.Currency}
	}
	return dto
}

func (s *JourneyService) publishEvent(ctx context.Context, eventType, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = subject

	if err := s.publisher.PublishEvent(ctx, journeyDomain.TopicJourneyEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", journeyDomain.TopicJourneyEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
