package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	placeDomain "github.com/tripcost/service-route/internal/domain/place"
	"github.com/tripcost/service-route/internal/platform/domain"
	"gorm.io/gorm"
)

// InterestPointModel is the GORM model for the interest_points table.
type InterestPointModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_interest_points_owner_name,priority:1"`
	Name      string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_interest_points_owner_name,priority:2"`
	Latitude  float64   `gorm:"type:double precision;not null"`
	Longitude float64   `gorm:"type:double precision;not null"`
	Geohash   string    `gorm:"type:varchar(12);not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (InterestPointModel) TableName() string { return "interest_points" }

// GormInterestPointRepository implements InterestPointRepository using GORM.
type GormInterestPointRepository struct {
	db *gorm.DB
}

// NewGormInterestPointRepository creates a new GormInterestPointRepository.
func NewGormInterestPointRepository(db *gorm.DB) *GormInterestPointRepository {
	return &GormInterestPointRepository{db: db}
}

// Save persists a new interest point.
func (r *GormInterestPointRepository) Save(ctx context.Context, p *placeDomain.InterestPoint) error {
	model := toInterestPointModel(p)
	err := r.db.WithContext(ctx).Create(&model).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return placeDomain.ErrDuplicateInterestPoint
	}
	return err
}

// FindByID returns a single interest point.
func (r *GormInterestPointRepository) FindByID(ctx context.Context, id uuid.UUID) (*placeDomain.InterestPoint, error) {
	var model InterestPointModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("InterestPoint", id.String())
		}
		return nil, err
	}
	return toInterestPointDomain(model), nil
}

// FindByOwnerID returns all interest points of an owner, by name.
func (r *GormInterestPointRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*placeDomain.InterestPoint, error) {
	var models []InterestPointModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	points := make([]*placeDomain.InterestPoint, len(models))
	for i, m := range models {
		points[i] = toInterestPointDomain(m)
	}
	return points, nil
}

// ExistsByName reports whether the owner already registered a point with this name.
func (r *GormInterestPointRepository) ExistsByName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&InterestPointModel{}).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Count(&count).Error
	return count > 0, err
}

// Delete removes an interest point.
func (r *GormInterestPointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&InterestPointModel{}).Error
}

// DeleteByOwnerID removes every interest point of an owner.
func (r *GormInterestPointRepository) DeleteByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&InterestPointModel{})
	return result.RowsAffected, result.Error
}

func toInterestPointModel(p *placeDomain.InterestPoint) InterestPointModel {
	return InterestPointModel{
		ID:        p.ID(),
		OwnerID:   p.OwnerID(),
		Name:      p.Name(),
		Latitude:  p.Latitude(),
		Longitude: p.Longitude(),
		Geohash:   p.Geohash(),
		CreatedAt: p.CreatedAt(),
	}
}

func toInterestPointDomain(m InterestPointModel) *placeDomain.InterestPoint {
	return placeDomain.Reconstruct(m.ID, m.OwnerID, m.Name, m.Latitude, m.Longitude, m.Geohash, m.CreatedAt)
}
