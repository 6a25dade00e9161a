package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tripcost/service-route/internal/domain/route"
	vehicleDomain "github.com/tripcost/service-route/internal/domain/vehicle"
	"github.com/tripcost/service-route/internal/platform/domain"
	"go.uber.org/zap"
)

// RegisterVehicleRequest is the request DTO for registering a vehicle.
type RegisterVehicleRequest struct {
	Brand              string  `json:"brand" binding:"required"`
	Model              string  `json:"model" binding:"required"`
	Year               int     `json:"year" binding:"required"`
	AverageConsumption float64 `json:"average_consumption"`
	Plate              string  `json:"plate" binding:"required"`
	EnergyKind         string  `json:"energy_kind" binding:"required"`
}

// VehicleDTO is the API response representation of a vehicle.
type VehicleDTO struct {
	ID                 uuid.UUID `json:"id"`
	OwnerID            uuid.UUID `json:"owner_id"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	AverageConsumption float64   `json:"average_consumption"`
	Plate              string    `json:"plate"`
	EnergyKind         string    `json:"energy_kind"`
	CreatedAt          time.Time `json:"created_at"`
}

// VehicleService implements use cases for registered vehicles.
type VehicleService struct {
	repo   vehicleDomain.VehicleRepository
	logger *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(repo vehicleDomain.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{repo: repo, logger: logger}
}

// RegisterVehicle registers a vehicle for the owner.
func (s *VehicleService) RegisterVehicle(ctx context.Context, ownerID uuid.UUID, req RegisterVehicleRequest) (*VehicleDTO, error) {
	v, err := vehicleDomain.NewVehicle(
		ownerID,
		req.Brand, req.Model,
		req.Year,
		req.AverageConsumption,
		req.Plate,
		route.ParseEnergyKind(req.EnergyKind),
	)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByPlate(ctx, ownerID, v.Plate())
	if err != nil {
		return nil, fmt.Errorf("failed to check plate: %w", err)
	}
	if exists {
		return nil, vehicleDomain.ErrDuplicatePlate
	}

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle registered",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("owner_id", ownerID.String()),
		zap.String("energy_kind", string(v.EnergyKind())),
	)

	result := toVehicleDTO(v)
	return &result, nil
}

// ListVehicles returns the owner's vehicles.
func (s *VehicleService) ListVehicles(ctx context.Context, ownerID uuid.UUID) ([]VehicleDTO, error) {
	vehicles, err := s.repo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v)
	}
	return dtos, nil
}

// GetVehicle returns one of the owner's vehicles.
func (s *VehicleService) GetVehicle(ctx context.Context, ownerID, vehicleID uuid.UUID) (*VehicleDTO, error) {
	v, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !v.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("vehicle does not belong to this user")
	}
	result := toVehicleDTO(v)
	return &result, nil
}

// DeleteVehicle removes one of the owner's vehicles.
func (s *VehicleService) DeleteVehicle(ctx context.Context, ownerID, vehicleID uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !v.IsOwnedBy(ownerID) {
		return domain.NewForbiddenError("vehicle does not belong to this user")
	}
	return s.repo.Delete(ctx, vehicleID)
}

func toVehicleDTO(v *vehicleDomain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:                 v.ID(),
		OwnerID:            v.OwnerID(),
		Brand:              v.Brand(),
		Model:              v.Model(),
		Year:               v.Year(),
		AverageConsumption: v.AverageConsumption(),
		Plate:              v.Plate(),
		EnergyKind:         string(v.EnergyKind()),
		CreatedAt:          v.CreatedAt(),
	}
}
