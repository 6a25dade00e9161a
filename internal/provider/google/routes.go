// Package google adapts the Google Routes and Geocoding APIs to the route and
// place domains.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
	"github.com/tripcost/service-route/internal/provider"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

const (
	// RoutesAPIURL is the Google Routes API v2 endpoint.
	RoutesAPIURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	routesFieldMask = "routes.duration,routes.distanceMeters,routes.polyline.encodedPolyline,routes.routeLabels"

	labelFuelEfficient = "FUEL_EFFICIENT"
)

// Config holds the settings shared by the Google adapters.
type Config struct {
	APIKey       string
	RoutesURL    string
	GeocodingURL string
	Language     string
	Region       string
	Timeout      time.Duration
}

// DirectionsClient implements route.DirectionsProvider on the Routes API v2.
type DirectionsClient struct {
	apiKey     string
	apiURL     string
	language   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDirectionsClient creates a DirectionsClient. Empty URL and language fall back to defaults.
func NewDirectionsClient(cfg Config, logger *zap.Logger) *DirectionsClient {
	apiURL := cfg.RoutesURL
	if apiURL == "" {
		apiURL = RoutesAPIURL
	}
	language := cfg.Language
	if language == "" {
		language = "es"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DirectionsClient{
		apiKey:     cfg.APIKey,
		apiURL:     apiURL,
		language:   language,
		httpClient: provider.NewHTTPClient(timeout),
		logger:     logger,
	}
}

// Route asks the Routes API for a journey. The travel mode follows the
// vehicle's energy kind and the preference decides which returned route wins.
// There is no fallback: failures are returned to the caller.
func (c *DirectionsClient) Route(ctx context.Context, origin, destination route.NamedPoint, pref route.RoutingPreference, vehicle route.Vehicle) (route.Journey, error) {
	body := c.buildRequest(origin, destination, pref, vehicle)

	payload, err := json.Marshal(body)
	if err != nil {
		return route.Journey{}, fmt.Errorf("google routes: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return route.Journey{}, fmt.Errorf("google routes: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", routesFieldMask)

	var resp routesResponse
	if err := provider.DoJSON(c.httpClient, req, &resp); err != nil {
		if ctx.Err() != nil {
			return route.Journey{}, ctx.Err()
		}
		c.logger.Warn("google routes call failed", zap.Error(err))
		return route.Journey{}, domain.NewUpstreamError("google routes", "directions lookup failed")
	}

	if len(resp.Routes) == 0 {
		return route.Journey{}, route.ErrRouteNotFound
	}

	chosen := pickRoute(resp.Routes, pref)
	return toJourney(chosen)
}

func (c *DirectionsClient) buildRequest(origin, destination route.NamedPoint, pref route.RoutingPreference, vehicle route.Vehicle) routesRequest {
	req := routesRequest{
		Origin:       toWaypoint(origin),
		Destination:  toWaypoint(destination),
		TravelMode:   travelMode(vehicle.EnergyKind),
		LanguageCode: c.language,
		Units:        "METRIC",
	}

	drive := req.TravelMode == "DRIVE"
	if drive {
		req.RoutingPreference = "TRAFFIC_AWARE"
		if emission := emissionType(vehicle.EnergyKind); emission != "" {
			req.RouteModifiers = &routeModifiers{VehicleInfo: &vehicleInfo{EmissionType: emission}}
		}
	}

	switch pref {
	case route.PreferShortest:
		req.ComputeAlternativeRoutes = true
	case route.PreferEconomic:
		if drive {
			req.RoutingPreference = "TRAFFIC_AWARE_OPTIMAL"
			req.RequestedReferenceRoutes = []string{labelFuelEfficient}
		} else {
			req.ComputeAlternativeRoutes = true
		}
	}
	return req
}

// pickRoute returns the route that best matches the preference. The API lists
// the default (fastest) route first.
func pickRoute(routes []apiRoute, pref route.RoutingPreference) apiRoute {
	switch pref {
	case route.PreferShortest:
		best := routes[0]
		for _, r := range routes[1:] {
			if r.DistanceMeters < best.DistanceMeters {
				best = r
			}
		}
		return best
	case route.PreferEconomic:
		for _, r := range routes {
			for _, l := range r.RouteLabels {
				if l == labelFuelEfficient {
					return r
				}
			}
		}
		// Non-drive modes have no fuel-efficient label; the shortest burns least.
		return pickRoute(routes, route.PreferShortest)
	default:
		return routes[0]
	}
}

func toJourney(r apiRoute) (route.Journey, error) {
	duration, err := parseDuration(r.Duration)
	if err != nil {
		return route.Journey{}, domain.NewUpstreamError("google routes", fmt.Sprintf("bad duration %q", r.Duration))
	}

	coords, _, err := polyline.DecodeCoords([]byte(r.Polyline.EncodedPolyline))
	if err != nil {
		return route.Journey{}, domain.NewUpstreamError("google routes", "bad polyline")
	}

	points := make([]route.Coordinate, len(coords))
	for i, c := range coords {
		points[i] = route.Coordinate{Latitude: c[0], Longitude: c[1]}
	}

	return route.Journey{
		Coordinates:     points,
		DistanceMeters:  float64(r.DistanceMeters),
		DurationSeconds: duration,
	}, nil
}

// parseDuration reads the API's "123s" or "123.4s" form.
func parseDuration(s string) (float64, error) {
	if !strings.HasSuffix(s, "s") {
		return 0, fmt.Errorf("duration %q has no seconds suffix", s)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d.Seconds(), nil
}

func toWaypoint(p route.NamedPoint) waypoint {
	if c, ok := p.Coordinate(); ok {
		return waypoint{Location: &location{LatLng: latLng{Latitude: c.Latitude, Longitude: c.Longitude}}}
	}
	return waypoint{Address: p.Name}
}

func travelMode(kind route.EnergyKind) string {
	switch kind {
	case route.EnergyBike:
		return "BICYCLE"
	case route.EnergyWalking:
		return "WALK"
	default:
		return "DRIVE"
	}
}

func emissionType(kind route.EnergyKind) string {
	switch kind {
	case route.EnergyGasoline:
		return "GASOLINE"
	case route.EnergyDiesel:
		return "DIESEL"
	case route.EnergyElectric:
		return "ELECTRIC"
	default:
		return ""
	}
}

// --- Routes API v2 wire types ---

type routesRequest struct {
	Origin                   waypoint        `json:"origin"`
	Destination              waypoint        `json:"destination"`
	TravelMode               string          `json:"travelMode"`
	RoutingPreference        string          `json:"routingPreference,omitempty"`
	ComputeAlternativeRoutes bool            `json:"computeAlternativeRoutes,omitempty"`
	RequestedReferenceRoutes []string        `json:"requestedReferenceRoutes,omitempty"`
	RouteModifiers           *routeModifiers `json:"routeModifiers,omitempty"`
	LanguageCode             string          `json:"languageCode"`
	Units                    string          `json:"units"`
}

type waypoint struct {
	Location *location `json:"location,omitempty"`
	Address  string    `json:"address,omitempty"`
}

type location struct {
	LatLng latLng `json:"latLng"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type routeModifiers struct {
	VehicleInfo *vehicleInfo `json:"vehicleInfo,omitempty"`
}

type vehicleInfo struct {
	EmissionType string `json:"emissionType"`
}

type routesResponse struct {
	Routes []apiRoute `json:"routes"`
}

type apiRoute struct {
	DistanceMeters int      `json:"distanceMeters"`
	Duration       string   `json:"duration"`
	RouteLabels    []string `json:"routeLabels"`
	Polyline       struct {
		EncodedPolyline string `json:"encodedPolyline"`
	} `json:"polyline"`
}
