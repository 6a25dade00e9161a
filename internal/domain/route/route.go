package route

import (
	"github.com/google/uuid"
	"github.com/tripcost/service-route/internal/platform/domain"
)

var (
	// ErrInvalidInterestPoint is returned when the origin or destination has no name.
	ErrInvalidInterestPoint = domain.NewError(domain.KindValidation, "invalid_interest_point", "origin and destination must both be named")

	// ErrInvalidVehicle is returned when a vehicle's energy kind cannot be priced.
	ErrInvalidVehicle = domain.NewError(domain.KindValidation, "invalid_vehicle", "vehicle energy kind is not supported")

	// ErrInvalidJourney is returned when a journey to price has a negative or non-finite distance.
	ErrInvalidJourney = domain.NewError(domain.KindValidation, "invalid_journey", "journey distance must be a non-negative number of metres")

	// ErrRouteNotFound is returned by directions providers when no route joins the endpoints.
	ErrRouteNotFound = domain.NewError(domain.KindNotFound, "route_not_found", "no route found between origin and destination")
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NamedPoint is a route endpoint. Coordinates are optional; without them the
// name is treated as a toponym and resolved by the directions provider.
type NamedPoint struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Coordinate returns the point's position when both coordinates are set.
func (p NamedPoint) Coordinate() (Coordinate, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}, true
}

// Vehicle describes how the journey is travelled. AverageConsumption is in
// L/100km or kWh/100km; zero or less means the default for the energy kind.
type Vehicle struct {
	OwnerID            uuid.UUID  `json:"owner_id"`
	Brand              string     `json:"brand"`
	Model              string     `json:"model"`
	Year               int        `json:"year"`
	AverageConsumption float64    `json:"average_consumption"`
	Plate              string     `json:"plate"`
	EnergyKind         EnergyKind `json:"energy_kind"`
}

// RouteRequest asks for a route between two named points.
type RouteRequest struct {
	RequesterID uuid.UUID         `json:"requester_id"`
	Origin      NamedPoint        `json:"origin"`
	Destination NamedPoint        `json:"destination"`
	Vehicle     Vehicle           `json:"vehicle"`
	Preference  RoutingPreference `json:"preference"`
}

// Journey is the result of a route lookup.
type Journey struct {
	Coordinates     []Coordinate `json:"coordinates"`
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
}

// Cost is the price of travelling a journey. Priced is false for
// human-powered journeys, which carry no monetary cost.
type Cost struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Priced   bool    `json:"priced"`
}

// Unpriced is the cost of a journey that is not priced in money.
var Unpriced = Cost{}
