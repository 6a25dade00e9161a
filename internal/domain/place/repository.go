package place

import (
	"context"

	"github.com/google/uuid"
)

// InterestPointRepository defines persistence operations for interest points.
type InterestPointRepository interface {
	Save(ctx context.Context, p *InterestPoint) error
	FindByID(ctx context.Context, id uuid.UUID) (*InterestPoint, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*InterestPoint, error)
	ExistsByName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
