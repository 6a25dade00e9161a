package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tripcost/service-route/internal/domain/place"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
	"github.com/tripcost/service-route/internal/provider"
	"go.uber.org/zap"
)

// GeocodingAPIURL is the Google Geocoding API JSON endpoint.
const GeocodingAPIURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Geocoder implements place.Geocoder on the Google Geocoding API.
type Geocoder struct {
	apiKey     string
	apiURL     string
	language   string
	region     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeocoder creates a Geocoder.
func NewGeocoder(cfg Config, logger *zap.Logger) *Geocoder {
	apiURL := cfg.GeocodingURL
	if apiURL == "" {
		apiURL = GeocodingAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Geocoder{
		apiKey:     cfg.APIKey,
		apiURL:     apiURL,
		language:   cfg.Language,
		region:     cfg.Region,
		httpClient: provider.NewHTTPClient(timeout),
		logger:     logger,
	}
}

// Geocode resolves a toponym to the coordinates of its best match.
func (g *Geocoder) Geocode(ctx context.Context, toponym string) (route.Coordinate, error) {
	if toponym == "" {
		return route.Coordinate{}, place.ErrInvalidToponym
	}

	q := url.Values{}
	q.Set("address", toponym)
	q.Set("key", g.apiKey)
	if g.language != "" {
		q.Set("language", g.language)
	}
	if g.region != "" {
		q.Set("region", g.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return route.Coordinate{}, fmt.Errorf("google geocoding: create request: %w", err)
	}

	var resp geocodeResponse
	if err := provider.DoJSON(g.httpClient, req, &resp); err != nil {
		if ctx.Err() != nil {
			return route.Coordinate{}, ctx.Err()
		}
		g.logger.Warn("google geocoding call failed", zap.Error(err))
		return route.Coordinate{}, domain.NewUpstreamError("google geocoding", "lookup failed")
	}

	switch resp.Status {
	case "OK":
		if len(resp.Results) == 0 {
			return route.Coordinate{}, place.ErrInvalidToponym
		}
		loc := resp.Results[0].Geometry.Location
		return route.Coordinate{Latitude: loc.Lat, Longitude: loc.Lng}, nil
	case "ZERO_RESULTS":
		return route.Coordinate{}, place.ErrInvalidToponym
	default:
		g.logger.Warn("google geocoding rejected request",
			zap.String("status", resp.Status),
			zap.String("error_message", resp.ErrorMessage),
		)
		return route.Coordinate{}, domain.NewUpstreamError("google geocoding", resp.Status)
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}
