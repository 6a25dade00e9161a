package config

import (
	"errors"
	"time"

	"github.com/tripcost/service-route/internal/platform/config"
	"github.com/tripcost/service-route/internal/provider/electricity"
	"github.com/tripcost/service-route/internal/provider/fuel"
	"github.com/tripcost/service-route/internal/provider/google"
)

// ServiceConfig holds all configuration for the route service.
type ServiceConfig struct {
	Port              string
	AppEnv            string
	DBConfig          config.DatabaseConfig
	JWTConfig         config.JWTConfig
	KafkaConfig       config.KafkaConfig
	GoogleConfig      google.Config
	FuelConfig        fuel.Config
	ElectricityConfig electricity.Config
	RequestTimeout    time.Duration
}

// Load reads configuration from ROUTE_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("ROUTE")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "tripcost_route")
	v.SetDefault("GOOGLE_LANGUAGE", "es")
	v.SetDefault("GOOGLE_REGION", "es")
	v.SetDefault("ELECTRICITY_ZONE", electricity.ZonePeninsula)
	v.SetDefault("FUEL_CELL_PRECISION", 6)

	cfg := &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		GoogleConfig: google.Config{
			APIKey:       v.GetString("GOOGLE_API_KEY"),
			RoutesURL:    v.GetString("GOOGLE_ROUTES_URL"),
			GeocodingURL: v.GetString("GOOGLE_GEOCODING_URL"),
			Language:     v.GetString("GOOGLE_LANGUAGE"),
			Region:       v.GetString("GOOGLE_REGION"),
			Timeout:      config.GetDuration(v, "GOOGLE_TIMEOUT", 5*time.Second),
		},
		FuelConfig: fuel.Config{
			URL:           v.GetString("FUEL_URL"),
			SnapshotTTL:   config.GetDuration(v, "FUEL_SNAPSHOT_TTL", 30*time.Minute),
			Timeout:       config.GetDuration(v, "FUEL_TIMEOUT", 30*time.Second),
			CellPrecision: v.GetUint("FUEL_CELL_PRECISION"),
		},
		ElectricityConfig: electricity.Config{
			URL:      v.GetString("ELECTRICITY_URL"),
			Zone:     v.GetString("ELECTRICITY_ZONE"),
			CacheTTL: config.GetDuration(v, "ELECTRICITY_CACHE_TTL", 5*time.Minute),
			Timeout:  config.GetDuration(v, "ELECTRICITY_TIMEOUT", 5*time.Second),
		},
		RequestTimeout: config.GetDuration(v, "REQUEST_TIMEOUT", 20*time.Second),
	}

	if cfg.JWTConfig.Secret == "" {
		return nil, errors.New("ROUTE_JWT_SECRET is required")
	}
	return cfg, nil
}
