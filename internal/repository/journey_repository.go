package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	journeyDomain "github.com/tripcost/service-route/internal/domain/journey"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
	"gorm.io/gorm"
)

// JourneyModel is the GORM model for the journeys table.
type JourneyModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_journeys_owner_label,priority:1"`
	Label           string          `gorm:"size:100;not null;uniqueIndex:idx_journeys_owner_label,priority:2"`
	Coordinates     json.RawMessage `gorm:"type:jsonb;not null"`
	DistanceMeters  float64         `gorm:"not null"`
	DurationSeconds float64         `gorm:"not null"`
	CostAmount      *float64        `gorm:"type:numeric(12,2)"`
	Currency        string          `gorm:"size:3"`
	IsFavorite      bool            `gorm:"not null;default:false;index"`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (JourneyModel) TableName() string {
	return "journeys"
}

// GormJourneyRepository is the GORM-based implementation of JourneyRepository.
type GormJourneyRepository struct {
	db *gorm.DB
}

// NewGormJourneyRepository creates a new GormJourneyRepository.
func NewGormJourneyRepository(db *gorm.DB) *GormJourneyRepository {
	return &GormJourneyRepository{db: db}
}

// FindByID retrieves a journey by its unique identifier.
func (r *GormJourneyRepository) FindByID(ctx context.Context, id uuid.UUID) (*journeyDomain.StoredJourney, error) {
	var model JourneyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Journey", id.String())
		}
		return nil, fmt.Errorf("failed to find journey by ID: %w", err)
	}
	return toDomainJourney(&model)
}

// FindByOwnerID retrieves an owner's journeys, newest first, with pagination.
func (r *GormJourneyRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, favoritesOnly bool, page, limit int) ([]*journeyDomain.StoredJourney, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("owner_id = ?", ownerID)
		if favoritesOnly {
			db = db.Where("is_favorite = ?", true)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&JourneyModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count owner journeys: %w", err)
	}

	var models []JourneyModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find owner journeys: %w", err)
	}

	journeys := make([]*journeyDomain.StoredJourney, len(models))
	for i := range models {
		j, err := toDomainJourney(&models[i])
		if err != nil {
			return nil, 0, err
		}
		journeys[i] = j
	}

	return journeys, total, nil
}

// ExistsByLabel reports whether the owner already stored a journey with this label.
func (r *GormJourneyRepository) ExistsByLabel(ctx context.Context, ownerID uuid.UUID, label string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&JourneyModel{}).
		Where("owner_id = ? AND label = ?", ownerID, label).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a new journey.
func (r *GormJourneyRepository) Save(ctx context.Context, j *journeyDomain.StoredJourney) error {
	model, err := toJourneyModel(j)
	if err != nil {
		return fmt.Errorf("failed to convert journey to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return journeyDomain.ErrJourneyAlreadyStored
		}
		return fmt.Errorf("failed to save journey: %w", err)
	}
	return nil
}

// Update persists the favorite flag with optimistic locking.
func (r *GormJourneyRepository) Update(ctx context.Context, j *journeyDomain.StoredJourney) error {
	expectedVersion := j.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&JourneyModel{}).
		Where("id = ? AND version = ?", j.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"is_favorite": j.IsFavorite(),
			"version":     j.Version(),
			"updated_at":  j.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update journey: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("journey was modified by another transaction")
	}
	return nil
}

// Delete removes a journey.
func (r *GormJourneyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&JourneyModel{}).Error
}

// DeleteByOwnerID removes every journey of an owner.
func (r *GormJourneyRepository) DeleteByOwnerID(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&JourneyModel{})
	return result.RowsAffected, result.Error
}

// --- Conversion Helpers ---

func toJourneyModel(j *journeyDomain.StoredJourney) (*JourneyModel, error) {
	coordsJSON, err := json.Marshal(j.Coordinates())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal coordinates: %w", err)
	}

	model := &JourneyModel{
		ID:              j.ID(),
		OwnerID:         j.OwnerID(),
		Label:           j.Label(),
		Coordinates:     coordsJSON,
		DistanceMeters:  j.DistanceMeters(),
		DurationSeconds: j.DurationSeconds(),
		IsFavorite:      j.IsFavorite(),
		Version:         j.Version(),
		CreatedAt:       j.CreatedAt(),
		UpdatedAt:       j.UpdatedAt(),
	}
	if c := j.Cost(); c.Priced {
		amount := c.Amount
		model.CostAmount = &amount
		model.Currency = c.Currency
	}
	return model, nil
}

func toDomainJourney(m *JourneyModel) (*journeyDomain.StoredJourney, error) {
	var coords []route.Coordinate
	if err := json.Unmarshal(m.Coordinates, &coords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}

	cost := route.Unpriced
	if m.CostAmount != nil {
		cost = route.Cost{Amount: *m.CostAmount, Currency: m.Currency, Priced: true}
	}

	return journeyDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Label,
		coords,
		m.DistanceMeters, m.DurationSeconds,
		cost,
		m.IsFavorite,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	), nil
}
