package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	journeyDomain "github.com/tripcost/service-route/internal/domain/journey"
	placeDomain "github.com/tripcost/service-route/internal/domain/place"
	vehicleDomain "github.com/tripcost/service-route/internal/domain/vehicle"
	"go.uber.org/zap"
)

// CleanupService removes everything a deleted user owned.
type CleanupService struct {
	journeys journeyDomain.JourneyRepository
	vehicles vehicleDomain.VehicleRepository
	places   placeDomain.InterestPointRepository
	logger   *zap.Logger
}

// NewCleanupService creates a new CleanupService.
func NewCleanupService(
	journeys journeyDomain.JourneyRepository,
	vehicles vehicleDomain.VehicleRepository,
	places placeDomain.InterestPointRepository,
	logger *zap.Logger,
) *CleanupService {
	return &CleanupService{journeys: journeys, vehicles: vehicles, places: places, logger: logger}
}

// PurgeUser deletes the user's journeys, vehicles and interest points. It is
// idempotent, so a redelivered event is harmless.
func (s *CleanupService) PurgeUser(ctx context.Context, userID uuid.UUID) error {
	journeys, err := s.journeys.DeleteByOwnerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to purge journeys: %w", err)
	}
	vehicles, err := s.vehicles.DeleteByOwnerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to purge vehicles: %w", err)
	}
	places, err := s.places.DeleteByOwnerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to purge interest points: %w", err)
	}

	s.logger.Info("user data purged",
		zap.String("user_id", userID.String()),
		zap.Int64("journeys", journeys),
		zap.Int64("vehicles", vehicles),
		zap.Int64("interest_points", places),
	)
	return nil
}
