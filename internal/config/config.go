package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"labtrack/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	API        APIConfig        `yaml:"api"`
	Redis      RedisConfig      `yaml:"redis"`
	Store      StoreConfig      `yaml:"store"`
	Locations  LocationsConfig  `yaml:"locations"`
	Exports    ExportConfig     `yaml:"exports"`
	Sessions   SessionsConfig   `yaml:"sessions"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	Timezone    string `yaml:"timezone"`
}

// Location resolves the configured timezone, falling back to the local zone.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || strings.EqualFold(a.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	GRPC      APIGRPCConfig      `yaml:"grpc"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIGRPCConfig struct {
	Enabled    bool         `yaml:"enabled"`
	Port       int          `yaml:"port"`
	Reflection bool         `yaml:"reflection"`
	TLS        APITLSConfig `yaml:"tls"`
}

type APITLSConfig struct {
	Enabled           bool   `yaml:"enabled"`
	CertFile          string `yaml:"cert_file"`
	KeyFile           string `yaml:"key_file"`
	ClientCAFile      string `yaml:"client_ca_file"`
	RequireClientCert bool   `yaml:"require_client_cert"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// SessionsConfig controls the persisted view-state of console sessions.
type SessionsConfig struct {
	TTL               time.Duration `yaml:"ttl"`
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`
}

// OperationLatency is the simulated round-trip of each repository operation.
type OperationLatency struct {
	Read   time.Duration `yaml:"read"`
	Create time.Duration `yaml:"create"`
	Update time.Duration `yaml:"update"`
	Delete time.Duration `yaml:"delete"`
}

type LatencyConfig struct {
	Disabled  bool             `yaml:"disabled"`
	Inventory OperationLatency `yaml:"inventory"`
	Bookings  OperationLatency `yaml:"bookings"`
	Movements OperationLatency `yaml:"movements"`
}

type StoreConfig struct {
	SeedFile string        `yaml:"seed_file"`
	Latency  LatencyConfig `yaml:"latency"`
}

type LocationsConfig struct {
	EnforceContainment bool                `yaml:"enforce_containment"`
	Campuses           map[string][]string `yaml:"campuses"`
}

// Catalog returns the configured campus catalog, or the built-in one when
// none is configured. It is nil when containment is not enforced.
func (l LocationsConfig) Catalog() models.LocationCatalog {
	if !l.EnforceContainment {
		return nil
	}
	if len(l.Campuses) == 0 {
		return models.DefaultLocationCatalog()
	}
	return models.LocationCatalog(l.Campuses)
}

func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	config := Config{
		Locations: LocationsConfig{EnforceContainment: true},
	}
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("invalid app.timezone %q: %w", c.App.Timezone, err)
	}

	if c.API.HTTP.Enabled && (c.API.HTTP.Port <= 0 || c.API.HTTP.Port > 65535) {
		return fmt.Errorf("invalid api.http.port %d", c.API.HTTP.Port)
	}

	if c.API.GRPC.TLS.Enabled && (c.API.GRPC.TLS.CertFile == "" || c.API.GRPC.TLS.KeyFile == "") {
		return errors.New("api.grpc.tls requires cert_file and key_file")
	}

	for _, lat := range []OperationLatency{c.Store.Latency.Inventory, c.Store.Latency.Bookings, c.Store.Latency.Movements} {
		if lat.Read < 0 || lat.Create < 0 || lat.Update < 0 || lat.Delete < 0 {
			return errors.New("store latency must not be negative")
		}
	}

	return ValidateAPIKeys(c.API.Auth.APIKeys)
}

func ValidateAPIKeys(keys []APIClientKey) error {
	seen := make(map[string]bool)
	for _, k := range keys {
		if k.Key == "" {
			return fmt.Errorf("api key '%s' has empty key", k.Name)
		}
		if seen[k.Key] {
			return fmt.Errorf("duplicate api key for client '%s'", k.Name)
		}
		seen[k.Key] = true
	}
	return nil
}

// DefaultLatency mirrors the round-trips the console was tuned against.
func DefaultLatency() LatencyConfig {
	return LatencyConfig{
		Inventory: OperationLatency{Read: 500 * time.Millisecond, Create: 600 * time.Millisecond, Update: 500 * time.Millisecond, Delete: 400 * time.Millisecond},
		Bookings:  OperationLatency{Read: 500 * time.Millisecond, Create: 500 * time.Millisecond, Update: 500 * time.Millisecond, Delete: 300 * time.Millisecond},
		Movements: OperationLatency{Read: 600 * time.Millisecond, Create: 800 * time.Millisecond},
	}
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "labtrack"
	}
	if c.API.GRPC.Port == 0 {
		c.API.GRPC.Port = 8081
	}
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	if c.Store.Latency.Disabled {
		c.Store.Latency = LatencyConfig{Disabled: true}
	} else if c.Store.Latency == (LatencyConfig{}) {
		c.Store.Latency = DefaultLatency()
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = models.DefaultSessionTTL
	}
	if c.Sessions.RateLimitRequests == 0 {
		c.Sessions.RateLimitRequests = models.RateLimitRequests
	}
	if c.Sessions.RateLimitWindow == 0 {
		c.Sessions.RateLimitWindow = models.RateLimitWindow
	}
}
