package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// VehicleRepository defines persistence operations for registered vehicles.
type VehicleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Vehicle, error)
	ExistsByPlate(ctx context.Context, ownerID uuid.UUID, plate string) (bool, error)
	Save(ctx context.Context, v *Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
