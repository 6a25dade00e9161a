// Package fuel prices liquid fuel from the Spanish Ministry of Industry open
// data feed of road filling stations.
package fuel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcloughlin/geohash"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
	"github.com/tripcost/service-route/internal/provider"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// StationsURL lists every road filling station in Spain with its current prices.
const StationsURL = "https://sedeaplicaciones.minetur.gob.es/ServiciosRESTCarburantes/PreciosCarburantes/EstacionesTerrestres/"

const (
	defaultSnapshotTTL   = 30 * time.Minute
	defaultCellPrecision = 6
	defaultTimeout       = 30 * time.Second

	earthRadiusMeters = 6371000.0
)

var errNoStation = errors.New("no station sells the requested fuel")

// Config configures the Client.
type Config struct {
	URL         string
	SnapshotTTL time.Duration
	Timeout     time.Duration
	// CellPrecision is the geohash length of the price memo cells.
	CellPrecision uint
}

// Station is one filling station. A zero price means the fuel is not sold.
type Station struct {
	Label     string
	Town      string
	Latitude  float64
	Longitude float64
	Gasoline  float64
	Diesel    float64
}

// Price returns the station's price for kind and whether it sells it.
func (s Station) Price(kind route.FuelKind) (float64, bool) {
	switch kind {
	case route.FuelGasoline:
		return s.Gasoline, s.Gasoline > 0
	case route.FuelDiesel:
		return s.Diesel, s.Diesel > 0
	}
	return 0, false
}

type snapshot struct {
	stations  []Station
	fetchedAt time.Time
}

type memoKey struct {
	kind route.FuelKind
	cell string
}

// Client implements route.FuelPriceProvider. The station list is cached for
// SnapshotTTL and answers are memoised per geohash cell until the next refresh.
type Client struct {
	url        string
	ttl        time.Duration
	precision  uint
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	group singleflight.Group

	mu   sync.RWMutex
	snap *snapshot
	memo map[memoKey]float64
}

// NewClient creates a fuel price Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	url := cfg.URL
	if url == "" {
		url = StationsURL
	}
	ttl := cfg.SnapshotTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	precision := cfg.CellPrecision
	if precision == 0 || precision > 12 {
		precision = defaultCellPrecision
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:        url,
		ttl:        ttl,
		precision:  precision,
		httpClient: provider.NewHTTPClient(timeout),
		logger:     logger,
		now:        time.Now,
		memo:       make(map[memoKey]float64),
	}
}

// UnitPrice returns the €/L price of kind at the station nearest to at.
func (c *Client) UnitPrice(ctx context.Context, kind route.FuelKind, at route.Coordinate) (float64, error) {
	if kind != route.FuelGasoline && kind != route.FuelDiesel {
		return 0, domain.NewValidationError(fmt.Sprintf("unknown fuel kind %q", kind))
	}

	snap, err := c.snapshot(ctx)
	if err != nil {
		return 0, err
	}

	key := memoKey{kind: kind, cell: geohash.EncodeWithPrecision(at.Latitude, at.Longitude, c.precision)}

	c.mu.RLock()
	price, ok := c.memo[key]
	current := c.snap == snap
	c.mu.RUnlock()
	if ok && current {
		return price, nil
	}

	station, err := Nearest(snap.stations, kind, at)
	if err != nil {
		return 0, domain.NewUpstreamError("fuel prices", err.Error())
	}
	price, _ = station.Price(kind)

	c.mu.Lock()
	if c.snap == snap {
		c.memo[key] = price
	}
	c.mu.Unlock()

	c.logger.Debug("fuel price resolved",
		zap.String("fuel", string(kind)),
		zap.String("cell", key.cell),
		zap.String("station", station.Label),
		zap.String("town", station.Town),
		zap.Float64("price", price),
	)
	return price, nil
}

// snapshot returns a fresh station list, fetching it at most once at a time.
func (c *Client) snapshot(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil && c.now().Sub(snap.fetchedAt) < c.ttl {
		return snap, nil
	}

	// The fetch outlives any single caller so that one cancellation does not
	// fail every request waiting on the same refresh.
	ch := c.group.DoChan("stations", func() (interface{}, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

func (c *Client) refresh(ctx context.Context) (*snapshot, error) {
	stations, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("fuel station refresh failed", zap.Error(err))
		return nil, domain.NewUpstreamError("fuel prices", "station list unavailable")
	}

	snap := &snapshot{stations: stations, fetchedAt: c.now()}

	c.mu.Lock()
	c.snap = snap
	c.memo = make(map[memoKey]float64)
	c.mu.Unlock()

	c.logger.Info("fuel station snapshot refreshed", zap.Int("stations", len(stations)))
	return snap, nil
}

func (c *Client) fetch(ctx context.Context) ([]Station, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var resp stationsResponse
	if err := provider.DoJSON(c.httpClient, req, &resp); err != nil {
		return nil, err
	}
	if resp.Result != "" && resp.Result != "OK" {
		return nil, fmt.Errorf("feed answered %q", resp.Result)
	}

	stations := make([]Station, 0, len(resp.Stations))
	for _, raw := range resp.Stations {
		lat, okLat := parseDecimal(raw.Latitude)
		lng, okLng := parseDecimal(raw.Longitude)
		if !okLat || !okLng {
			continue
		}
		gasoline, _ := parseDecimal(raw.Gasoline95)
		diesel, _ := parseDecimal(raw.DieselA)
		if gasoline <= 0 && diesel <= 0 {
			continue
		}
		stations = append(stations, Station{
			Label:     raw.Label,
			Town:      raw.Town,
			Latitude:  lat,
			Longitude: lng,
			Gasoline:  gasoline,
			Diesel:    diesel,
		})
	}
	if len(stations) == 0 {
		return nil, errors.New("feed listed no priced stations")
	}
	return stations, nil
}

// Nearest returns the station closest to at that sells kind.
func Nearest(stations []Station, kind route.FuelKind, at route.Coordinate) (Station, error) {
	var (
		best     Station
		found    bool
		bestDist = math.Inf(1)
	)
	for _, s := range stations {
		if _, ok := s.Price(kind); !ok {
			continue
		}
		d := haversineMeters(at.Latitude, at.Longitude, s.Latitude, s.Longitude)
		if d < bestDist {
			bestDist, best, found = d, s, true
		}
	}
	if !found {
		return Station{}, errNoStation
	}
	return best, nil
}

// parseDecimal reads the feed's comma-decimal numbers ("1,659"). Empty fields are absent.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type stationsResponse struct {
	Date     string       `json:"Fecha"`
	Stations []rawStation `json:"ListaEESSPrecio"`
	Result   string       `json:"ResultadoConsulta"`
}

type rawStation struct {
	Label      string `json:"Rótulo"`
	Town       string `json:"Municipio"`
	Latitude   string `json:"Latitud"`
	Longitude  string `json:"Longitud (WGS84)"`
	Gasoline95 string `json:"Precio Gasolina 95 E5"`
	DieselA    string `json:"Precio Gasoleo A"`
}
