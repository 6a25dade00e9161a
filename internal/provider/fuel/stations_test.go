package fuel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripcost/service-route/internal/domain/route"
	"github.com/tripcost/service-route/internal/platform/domain"
	"go.uber.org/zap"
)

const stationsFeed = `{
  "Fecha": "17/10/2026 9:05:12",
  "ListaEESSPrecio": [
    {"Rótulo": "REPSOL", "Municipio": "Villarreal", "Latitud": "39,937389", "Longitud (WGS84)": "-0,101611", "Precio Gasolina 95 E5": "1,659", "Precio Gasoleo A": "1,559"},
    {"Rótulo": "CEPSA", "Municipio": "Castellón de la Plana", "Latitud": "39,986111", "Longitud (WGS84)": "-0,036944", "Precio Gasolina 95 E5": "1,599", "Precio Gasoleo A": ""},
    {"Rótulo": "BP", "Municipio": "Madrid", "Latitud": "40,416775", "Longitud (WGS84)": "-3,703790", "Precio Gasolina 95 E5": "", "Precio Gasoleo A": "1,499"},
    {"Rótulo": "BROKEN", "Municipio": "Nowhere", "Latitud": "", "Longitud (WGS84)": "", "Precio Gasolina 95 E5": "1,000", "Precio Gasoleo A": "1,000"}
  ],
  "ResultadoConsulta": "OK"
}`

var villarreal = route.Coordinate{Latitude: 39.93333, Longitude: -0.1}

func newTestClient(t *testing.T, hits *int32, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{URL: srv.URL}, zap.NewNop())
}

func TestUnitPrice_NearestStationPerFuel(t *testing.T) {
	var hits int32
	client := newTestClient(t, &hits, stationsFeed)

	gasoline, err := client.UnitPrice(context.Background(), route.FuelGasoline, villarreal)
	require.NoError(t, err)
	assert.Equal(t, 1.659, gasoline)

	diesel, err := client.UnitPrice(context.Background(), route.FuelDiesel, villarreal)
	require.NoError(t, err)
	assert.Equal(t, 1.559, diesel)

	// BP is the only station near Madrid and it sells diesel only.
	madrid := route.Coordinate{Latitude: 40.4168, Longitude: -3.7038}
	diesel, err = client.UnitPrice(context.Background(), route.FuelDiesel, madrid)
	require.NoError(t, err)
	assert.Equal(t, 1.499, diesel)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestUnitPrice_SnapshotExpires(t *testing.T) {
	var hits int32
	client := newTestClient(t, &hits, stationsFeed)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	_, err := client.UnitPrice(context.Background(), route.FuelGasoline, villarreal)
	require.NoError(t, err)

	now = now.Add(defaultSnapshotTTL + time.Second)
	_, err = client.UnitPrice(context.Background(), route.FuelGasoline, villarreal)
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestUnitPrice_CellMemoSharedUntilRefresh(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := stationsFeed
		if atomic.AddInt32(&hits, 1) > 1 {
			body = strings.Replace(body, `"1,599"`, `"1,619"`, 1)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	// Precision 3 cells are ~156km wide, so Villarreal and Castellón share one.
	client := NewClient(Config{URL: srv.URL, CellPrecision: 3}, zap.NewNop())
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }
	castellon := route.Coordinate{Latitude: 39.986111, Longitude: -0.036944}

	price, err := client.UnitPrice(context.Background(), route.FuelGasoline, villarreal)
	require.NoError(t, err)
	assert.Equal(t, 1.659, price)

	// Castellón's own station is nearer, but the cell answer is reused.
	price, err = client.UnitPrice(context.Background(), route.FuelGasoline, castellon)
	require.NoError(t, err)
	assert.Equal(t, 1.659, price)

	// Other fuels in the same cell are memoised separately.
	price, err = client.UnitPrice(context.Background(), route.FuelDiesel, castellon)
	require.NoError(t, err)
	assert.Equal(t, 1.559, price)

	now = now.Add(defaultSnapshotTTL + time.Second)
	price, err = client.UnitPrice(context.Background(), route.FuelGasoline, castellon)
	require.NoError(t, err)
	assert.Equal(t, 1.619, price, "refresh clears the memo")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestUnitPrice_ConcurrentCallersShareOneFetch(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		_, _ = w.Write([]byte(stationsFeed))
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{URL: srv.URL}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.UnitPrice(context.Background(), route.FuelGasoline, villarreal)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestUnitPrice_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{URL: srv.URL}, zap.NewNop())

	_, err := client.UnitPrice(context.Background(), route.FuelGasoline, villarreal)
	require.Error(t, err)
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestUnitPrice_UnknownFuel(t *testing.T) {
	var hits int32
	client := newTestClient(t, &hits, stationsFeed)

	_, err := client.UnitPrice(context.Background(), route.FuelKind("kerosene"), villarreal)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestNearest_NoStationSellsFuel(t *testing.T) {
	stations := []Station{{Label: "A", Latitude: 1, Longitude: 1, Gasoline: 1.5}}
	_, err := Nearest(stations, route.FuelDiesel, villarreal)
	assert.ErrorIs(t, err, errNoStation)
}

func TestParseDecimal(t *testing.T) {
	v, ok := parseDecimal("1,659")
	assert.True(t, ok)
	assert.Equal(t, 1.659, v)

	v, ok = parseDecimal(" -0,101611 ")
	assert.True(t, ok)
	assert.Equal(t, -0.101611, v)

	_, ok = parseDecimal("")
	assert.False(t, ok)
	_, ok = parseDecimal("n/a")
	assert.False(t, ok)
}

func TestHaversine(t *testing.T) {
	// Villarreal to Castellón is about 7 km as the crow flies.
	d := haversineMeters(39.93333, -0.1, 39.98641, -0.05131)
	assert.InDelta(t, 7200, d, 1500)
	assert.Zero(t, haversineMeters(1, 1, 1, 1))
}
