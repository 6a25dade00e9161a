package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	placeDomain "github.com/tripcost/service-route/internal/domain/place"
	"github.com/tripcost/service-route/internal/domain/route"
	vehicleDomain "github.com/tripcost/service-route/internal/domain/vehicle"
	"github.com/tripcost/service-route/internal/platform/domain"
	"go.uber.org/zap"
)

// VehicleInput is an inline vehicle description in a route request.
type VehicleInput struct {
	Brand              string  `json:"brand"`
	Model              string  `json:"model"`
	Year               int     `json:"year"`
	AverageConsumption float64 `json:"average_consumption"`
	Plate              string  `json:"plate"`
	EnergyKind         string  `json:"energy_kind"`
}

// RouteRequest is the API form of a route request. Endpoints are given inline
// or as registered interest points; the vehicle inline or as a registered vehicle.
type RouteRequest struct {
	Origin             route.NamedPoint `json:"origin"`
	Destination        route.NamedPoint `json:"destination"`
	OriginPlaceID      *uuid.UUID       `json:"origin_place_id"`
	DestinationPlaceID *uuid.UUID       `json:"destination_place_id"`
	Vehicle            *VehicleInput    `json:"vehicle"`
	VehicleID          *uuid.UUID       `json:"vehicle_id"`
	Preference         string           `json:"preference"`
}

// PriceRequest prices a journey computed earlier for the same route request.
type PriceRequest struct {
	Journey route.Journey `json:"journey"`
	Route   RouteRequest  `json:"route"`
}

// CostDTO is a monetary cost.
type CostDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PriceDTO is the result of pricing. Cost is null for bike and walking journeys.
type PriceDTO struct {
	Priced bool     `json:"priced"`
	Cost   *CostDTO `json:"cost"`
}

// QuoteDTO is a journey together with its price.
type QuoteDTO struct {
	Journey route.Journey `json:"journey"`
	PriceDTO
}

// RouteService resolves API route requests and runs them through the planner.
type RouteService struct {
	planner  *route.Planner
	vehicles vehicleDomain.VehicleRepository
	places   placeDomain.InterestPointRepository
	logger   *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(
	planner *route.Planner,
	vehicles vehicleDomain.VehicleRepository,
	places placeDomain.InterestPointRepository,
	logger *zap.Logger,
) *RouteService {
	return &RouteService{
		planner:  planner,
		vehicles: vehicles,
		places:   places,
		logger:   logger,
	}
}

// GetRoute computes a journey for the requester.
func (s *RouteService) GetRoute(ctx context.Context, requesterID uuid.UUID, req RouteRequest) (*route.Journey, error) {
	rr, err := s.resolve(ctx, requesterID, req)
	if err != nil {
		return nil, err
	}

	j, err := s.planner.GetRoute(ctx, rr)
	if err != nil {
		s.logRouteFailure(rr, err)
		return nil, err
	}
	return &j, nil
}

// GetPrice prices a journey for the request's vehicle.
func (s *RouteService) GetPrice(ctx context.Context, requesterID uuid.UUID, req PriceRequest) (*PriceDTO, error) {
	rr, err := s.resolve(ctx, requesterID, req.Route)
	if err != nil {
		return nil, err
	}

	cost, err := s.planner.GetPrice(ctx, req.Journey, rr)
	if err != nil {
		return nil, err
	}
	result := toPriceDTO(cost)
	return &result, nil
}

// Quote computes a journey and prices it in one call.
func (s *RouteService) Quote(ctx context.Context, requesterID uuid.UUID, req RouteRequest) (*QuoteDTO, error) {
	rr, err := s.resolve(ctx, requesterID, req)
	if err != nil {
		return nil, err
	}

	j, err := s.planner.GetRoute(ctx, rr)
	if err != nil {
		s.logRouteFailure(rr, err)
		return nil, err
	}

	cost, err := s.planner.GetPrice(ctx, j, rr)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("route quoted",
		zap.String("requester_id", requesterID.String()),
		zap.String("energy_kind", string(rr.Vehicle.EnergyKind)),
		zap.Float64("distance_meters", j.DistanceMeters),
		zap.Float64("cost", cost.Amount),
	)

	return &QuoteDTO{Journey: j, PriceDTO: toPriceDTO(cost)}, nil
}

// resolve turns the API request into a planner request, loading registered
// vehicles and interest points and checking the requester owns them.
func (s *RouteService) resolve(ctx context.Context, requesterID uuid.UUID, req RouteRequest) (route.RouteRequest, error) {
	pref, ok := route.ParseRoutingPreference(req.Preference)
	if !ok {
		return route.RouteRequest{}, domain.NewValidationError("preference must be one of fastest, shortest, economic")
	}

	origin, err := s.resolvePoint(ctx, requesterID, req.Origin, req.OriginPlaceID)
	if err != nil {
		return route.RouteRequest{}, err
	}
	destination, err := s.resolvePoint(ctx, requesterID, req.Destination, req.DestinationPlaceID)
	if err != nil {
		return route.RouteRequest{}, err
	}

	vehicle, err := s.resolveVehicle(ctx, requesterID, req)
	if err != nil {
		return route.RouteRequest{}, err
	}

	return route.RouteRequest{
		RequesterID: requesterID,
		Origin:      origin,
		Destination: destination,
		Vehicle:     vehicle,
		Preference:  pref,
	}, nil
}

func (s *RouteService) resolvePoint(ctx context.Context, requesterID uuid.UUID, inline route.NamedPoint, placeID *uuid.UUID) (route.NamedPoint, error) {
	if placeID == nil {
		return inline, nil
	}
	p, err := s.places.FindByID(ctx, *placeID)
	if err != nil {
		return route.NamedPoint{}, err
	}
	if !p.IsOwnedBy(requesterID) {
		return route.NamedPoint{}, domain.NewForbiddenError("interest point does not belong to this user")
	}
	return p.ToNamedPoint(), nil
}

func (s *RouteService) resolveVehicle(ctx context.Context, requesterID uuid.UUID, req RouteRequest) (route.Vehicle, error) {
	switch {
	case req.VehicleID != nil:
		v, err := s.vehicles.FindByID(ctx, *req.VehicleID)
		if err != nil {
			return route.Vehicle{}, err
		}
		if !v.IsOwnedBy(requesterID) {
			return route.Vehicle{}, domain.NewForbiddenError("vehicle does not belong to this user")
		}
		return v.ToRouteVehicle(), nil

	case req.Vehicle != nil:
		return route.Vehicle{
			OwnerID:            requesterID,
			Brand:              req.Vehicle.Brand,
			Model:              req.Vehicle.Model,
			Year:               req.Vehicle.Year,
			AverageConsumption: req.Vehicle.AverageConsumption,
			Plate:              req.Vehicle.Plate,
			EnergyKind:         route.ParseEnergyKind(req.Vehicle.EnergyKind),
		}, nil

	default:
		return route.Vehicle{}, domain.NewValidationError("either vehicle or vehicle_id is required")
	}
}

func (s *RouteService) logRouteFailure(rr route.RouteRequest, err error) {
	if errors.Is(err, route.ErrInvalidInterestPoint) {
		return
	}
	s.logger.Warn("route lookup failed",
		zap.String("origin", rr.Origin.Name),
		zap.String("destination", rr.Destination.Name),
		zap.String("preference", string(rr.Preference)),
		zap.Error(err),
	)
}

func toPriceDTO(cost route.Cost) PriceDTO {
	if !cost.Priced {
		return PriceDTO{Priced: false}
	}
	return PriceDTO{
		Priced: true,
		Cost:   &CostDTO{Amount: cost.Amount, Currency: cost.Currency},
	}
}
