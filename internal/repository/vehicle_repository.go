package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tripcost/service-route/internal/domain/route"
	vehicleDomain "github.com/tripcost/service-route/internal/domain/vehicle"
	"github.com/tripcost/service-route/internal/platform/domain"
	"gorm.io/gorm"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vehicles_owner_plate,priority:1"`
	Brand              string    `gorm:"type:varchar(100)"`
	Model              string    `gorm:"type:varchar(100)"`
	Year               int       `gorm:"type:int;not null"`
	AverageConsumption float64   `gorm:"type:decimal(6,2);not null;default:0"`
	Plate              string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_vehicles_owner_plate,priority:2"`
	EnergyKind         string    `gorm:"type:varchar(20);not null"`
	Version            int64     `gorm:"not null;default:1"`
	CreatedAt          time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt          time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

func (VehicleModel) TableName() string { return "vehicles" }

// GormVehicleRepository implements VehicleRepository using GORM.
type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, err
	}
	return toVehicleDomain(&model), nil
}

func (r *GormVehicleRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*vehicleDomain.Vehicle, error) {
	var models []VehicleModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i := range models {
		vehicles[i] = toVehicleDomain(&models[i])
	}
	return vehicles, nil
}

func (r *GormVehicleRepository) ExistsByPlate(ctx context.Context, ownerID uuid.UUID, plate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VehicleModel{}).
		Where("owner_id = ? AND plate = ?", ownerID, plate).
		Count(&count).Error
	return count > 0, err
}

func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	err := r.db.WithContext(ctx).Create(toVehicleModel(v)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return vehicleDomain.ErrDuplicatePlate
	}
	return err
}

func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&VehicleModel{}).Error
}

func (r *GormVehicleRepository) DeleteByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&VehicleModel{})
	return result.RowsAffected, result.Error
}

// --- Conversions ---

func toVehicleModel(v *vehicleDomain.Vehicle) *VehicleModel {
	return &VehicleModel{
		ID:                 v.ID(),
		OwnerID:            v.OwnerID(),
		Brand:              v.Brand(),
		Model:              v.Model(),
		Year:               v.Year(),
		AverageConsumption: v.AverageConsumption(),
		Plate:              v.Plate(),
		EnergyKind:         string(v.EnergyKind()),
		Version:            v.Version(),
		CreatedAt:          v.CreatedAt(),
		UpdatedAt:          v.UpdatedAt(),
	}
}

func toVehicleDomain(m *VehicleModel) *vehicleDomain.Vehicle {
	return vehicleDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Brand, m.Model,
		m.Year,
		m.AverageConsumption,
		m.Plate,
		route.ParseEnergyKind(m.EnergyKind),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
