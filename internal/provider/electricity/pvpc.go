// Package electricity reads the current Spanish PVPC electricity price from
// the preciodelaluz.org API.
package electricity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tripcost/service-route/internal/platform/domain"
	"github.com/tripcost/service-route/internal/provider"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PricesNowURL returns the price of the current hour.
const PricesNowURL = "https://api.preciodelaluz.org/v1/prices/now"

// ZonePeninsula covers the peninsula, the Balearic Islands and the Canaries.
const ZonePeninsula = "PCB"

// Config configures the Client.
type Config struct {
	URL      string
	Zone     string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Client implements route.ElectricityPriceProvider. A price is reused until
// CacheTTL elapses or the clock enters the next hour, whichever comes first.
type Client struct {
	url        string
	zone       string
	ttl        time.Duration
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	price     float64
	fetchedAt time.Time
}

// NewClient creates an electricity price Client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	u := cfg.URL
	if u == "" {
		u = PricesNowURL
	}
	zone := strings.ToUpper(cfg.Zone)
	if zone == "" {
		zone = ZonePeninsula
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:        u,
		zone:       zone,
		ttl:        ttl,
		httpClient: provider.NewHTTPClient(timeout),
		logger:     logger,
		now:        time.Now,
	}
}

// UnitPrice returns the current price in €/MWh.
func (c *Client) UnitPrice(ctx context.Context) (float64, error) {
	if price, ok := c.cached(); ok {
		return price, nil
	}

	ch := c.group.DoChan(c.zone, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(float64), nil
	}
}

func (c *Client) cached() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fetchedAt.IsZero() {
		return 0, false
	}
	now := c.now()
	if now.Sub(c.fetchedAt) >= c.ttl || !now.Truncate(time.Hour).Equal(c.fetchedAt.Truncate(time.Hour)) {
		return 0, false
	}
	return c.price, true
}

func (c *Client) fetch(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("zone", c.zone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("electricity: create request: %w", err)
	}

	var resp priceNow
	if err := provider.DoJSON(c.httpClient, req, &resp); err != nil {
		c.logger.Warn("electricity price call failed", zap.String("zone", c.zone), zap.Error(err))
		return 0, domain.NewUpstreamError("electricity prices", "current price unavailable")
	}
	if resp.Price == nil || *resp.Price < 0 {
		return 0, domain.NewUpstreamError("electricity prices", "response carried no price")
	}
	if resp.Units != "" && !strings.EqualFold(resp.Units, "€/MWh") {
		return 0, domain.NewUpstreamError("electricity prices", fmt.Sprintf("unexpected units %q", resp.Units))
	}

	c.mu.Lock()
	c.price = *resp.Price
	c.fetchedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("electricity price fetched",
		zap.String("zone", c.zone),
		zap.String("hour", resp.Hour),
		zap.Float64("price", *resp.Price),
	)
	return *resp.Price, nil
}

type priceNow struct {
	Date   string   `json:"date"`
	Hour   string   `json:"hour"`
	Market string   `json:"market"`
	Price  *float64 `json:"price"`
	Units  string   `json:"units"`
}
