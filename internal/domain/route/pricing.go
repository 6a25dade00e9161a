package route

import (
	"context"
	"math"

	"github.com/tripcost/service-route/internal/platform/domain"
)

const (
	// DefaultElectricConsumption is used when an electric vehicle has no consumption set (kWh/100km).
	DefaultElectricConsumption = 16.0

	// DefaultCombustionConsumption is used when a combustion vehicle has no consumption set (L/100km).
	DefaultCombustionConsumption = 6.0
)

// Planner looks up routes and prices them. It holds no mutable state and is
// safe for concurrent use.
type Planner struct {
	directions  DirectionsProvider
	fuel        FuelPriceProvider
	electricity ElectricityPriceProvider
}

// NewPlanner creates a Planner over the given providers.
func NewPlanner(directions DirectionsProvider, fuel FuelPriceProvider, electricity ElectricityPriceProvider) *Planner {
	return &Planner{
		directions:  directions,
		fuel:        fuel,
		electricity: electricity,
	}
}

// GetRoute validates the endpoints and asks the directions provider for a
// journey. Provider errors are returned as-is.
func (p *Planner) GetRoute(ctx context.Context, req RouteRequest) (Journey, error) {
	if req.Origin.Name == "" || req.Destination.Name == "" {
		return Journey{}, ErrInvalidInterestPoint
	}
	return p.directions.Route(ctx, req.Origin, req.Destination, req.Preference, req.Vehicle)
}

// GetPrice returns the cost of travelling journey with the request's vehicle.
//
// Cost per kind:
//   - electric: hundreds of km * kWh/100km * €/kWh
//   - gasoline, diesel: hundreds of km * L/100km * €/L at the journey's origin
//   - bike, walking: unpriced
func (p *Planner) GetPrice(ctx context.Context, journey Journey, req RouteRequest) (Cost, error) {
	if d := journey.DistanceMeters; d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Cost{}, ErrInvalidJourney
	}

	vehicle := req.Vehicle
	hundredsOfKm := journey.DistanceMeters / 1000 / 100

	switch vehicle.EnergyKind {
	case EnergyElectric:
		pricePerMWh, err := p.electricity.UnitPrice(ctx)
		if err != nil {
			return Cost{}, err
		}
		consumption := consumptionOrDefault(vehicle.AverageConsumption, DefaultElectricConsumption)
		return euros(hundredsOfKm * consumption * (pricePerMWh / 1000)), nil

	case EnergyGasoline, EnergyDiesel:
		if len(journey.Coordinates) == 0 {
			return Cost{}, domain.NewValidationError("journey has no coordinates")
		}
		pricePerLitre, err := p.fuel.UnitPrice(ctx, FuelKind(vehicle.EnergyKind), journey.Coordinates[0])
		if err != nil {
			return Cost{}, err
		}
		consumption := consumptionOrDefault(vehicle.AverageConsumption, DefaultCombustionConsumption)
		return euros(hundredsOfKm * consumption * pricePerLitre), nil

	case EnergyBike, EnergyWalking:
		// TODO: return a calorie estimate once a per-mode burn rate is agreed.
		return Unpriced, nil

	default:
		return Cost{}, ErrInvalidVehicle
	}
}

func consumptionOrDefault(consumption, fallback float64) float64 {
	if consumption > 0 {
		return consumption
	}
	return fallback
}

func euros(amount float64) Cost {
	return Cost{Amount: Round2(amount), Currency: domain.CurrencyEUR, Priced: true}
}

// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
