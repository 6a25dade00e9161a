package vehicle

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
)

// MinYear is the oldest model year accepted at registration.
const MinYear = 1990

var (
	// ErrInvalidYear is returned when the model year is before MinYear or in the future.
	ErrInvalidYear = domain.NewError(domain.KindValidation, "invalid_year", "vehicle year must be between 1990 and the current year")

	// ErrDuplicatePlate is returned when the owner already registered the plate.
	ErrDuplicatePlate = domain.NewError(domain.KindConflict, "duplicate_plate", "a vehicle with this plate is already registered")
)

// Vehicle is the aggregate root for a registered vehicle.
type Vehicle struct {
	id                 uuid.UUID
	ownerID            uuid.UUID
	brand              string
	model              string
	year               int
	averageConsumption float64
	plate              string
	energyKind         route.EnergyKind
	version            int64
	createdAt          time.Time
	updatedAt          time.Time
}

// NewVehicle registers a vehicle. Human-powered kinds are allowed so that a
// bike can be saved and reused in route requests.
func NewVehicle(
	ownerID uuid.UUID,
	brand, model string,
	year int,
	averageConsumption float64,
	plate string,
	energyKind route.EnergyKind,
) (*Vehicle, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if !ValidYear(year, time.Now().UTC().Year()) {
		return nil, ErrInvalidYear
	}
	if !energyKind.IsValid() {
		return nil, route.ErrInvalidVehicle
	}
	if averageConsumption < 0 {
		return nil, domain.NewValidationError("average consumption must not be negative")
	}
	plate = NormalizePlate(plate)
	if plate == "" {
		return nil, domain.NewValidationError("plate is required")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:                 uuid.New(),
		ownerID:            ownerID,
		brand:              strings.TrimSpace(brand),
		model:              strings.TrimSpace(model),
		year:               year,
		averageConsumption: averageConsumption,
		plate:              plate,
		energyKind:         energyKind,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	brand, model string,
	year int,
	averageConsumption float64,
	plate string,
	energyKind route.EnergyKind,
	version int64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:                 id,
		ownerID:            ownerID,
		brand:              brand,
		model:              model,
		year:               year,
		averageConsumption: averageConsumption,
		plate:              plate,
		energyKind:         energyKind,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ValidYear reports whether year lies in [MinYear, currentYear].
func ValidYear(year, currentYear int) bool {
	return year >= MinYear && year <= currentYear
}

// NormalizePlate uppercases a plate and strips spaces and dashes.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(plate))
}

// --- Getters ---

func (v *Vehicle) ID() uuid.UUID                { return v.id }
func (v *Vehicle) OwnerID() uuid.UUID           { return v.ownerID }
func (v *Vehicle) Brand() string                { return v.brand }
func (v *Vehicle) Model() string                { return v.model }
func (v *Vehicle) Year() int                    { return v.year }
func (v *Vehicle) AverageConsumption() float64  { return v.averageConsumption }
func (v *Vehicle) Plate() string                { return v.plate }
func (v *Vehicle) EnergyKind() route.EnergyKind { return v.energyKind }
func (v *Vehicle) Version() int64               { return v.version }
func (v *Vehicle) CreatedAt() time.Time         { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time         { return v.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the vehicle belongs to the given owner.
func (v *Vehicle) IsOwnedBy(ownerID uuid.UUID) bool {
	return v.ownerID == ownerID
}

// ToRouteVehicle returns the value the route planner works with.
func (v *Vehicle) ToRouteVehicle() route.Vehicle {
	return route.Vehicle{
		OwnerID:            v.ownerID,
		Brand:              v.brand,
		Model:              v.model,
		Year:               v.year,
		AverageConsumption: v.averageConsumption,
		Plate:              v.plate,
		EnergyKind:         v.energyKind,
	}
}
