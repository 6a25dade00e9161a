package route

import "context"

// DirectionsProvider computes a journey between two points.
type DirectionsProvider interface {
	Route(ctx context.Context, origin, destination NamedPoint, pref RoutingPreference, vehicle Vehicle) (Journey, error)
}

// FuelPriceProvider returns the price per litre of a fuel near a position.
type FuelPriceProvider interface {
	UnitPrice(ctx context.Context, kind FuelKind, at Coordinate) (float64, error)
}

// ElectricityPriceProvider returns the current wholesale electricity price in €/MWh.
type ElectricityPriceProvider interface {
	UnitPrice(ctx context.Context) (float64, error)
}
