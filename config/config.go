package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Arbflow ArbflowConfig `yaml:"arbflow"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Scanner ScannerConfig `yaml:"scanner"`
	Source  SourceConfig  `yaml:"source"`
	Trading TradingConfig `yaml:"trading"`
}

type ArbflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type MetricsConfig struct {
	CloudWatch CloudWatchConfig `yaml:"cloudwatch"`
}

type CloudWatchConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Region        string `yaml:"region"`
	Namespace     string `yaml:"namespace"`
	DashboardName string `yaml:"dashboard_name"`
}

type ScannerConfig struct {
	// DefaultThreshold is the minimum funding-rate difference in raw
	// decimal form (0.003 = 0.3%).
	DefaultThreshold float64 `yaml:"default_threshold"`
	IncludeDelta     bool    `yaml:"include_delta"`
}

type SourceConfig struct {
	Binance FeedConfig `yaml:"binance"`
	Bybit   FeedConfig `yaml:"bybit"`
	Delta   FeedConfig `yaml:"delta"`
	Coindcx FeedConfig `yaml:"coindcx"`
}

type FeedConfig struct {
	Enabled        bool                 `yaml:"enabled"`
	URL            string               `yaml:"url"`
	Timeout        time.Duration        `yaml:"timeout"`
	ConnectionPool ConnectionPoolConfig `yaml:"connection_pool"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	BurstSize         int `yaml:"burst_size"`
}

type TradingConfig struct {
	Binance OrderEndpointConfig `yaml:"binance"`
	Delta   OrderEndpointConfig `yaml:"delta"`
	Coindcx OrderEndpointConfig `yaml:"coindcx"`
}

type OrderEndpointConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

var defaultConfigPaths = map[string]string{
	environmentProduction: "config/config.production.yml",
	environmentStaging:    "config/config.staging.yml",
}

// Load reads, defaults and validates the configuration file. An environment
// specific file (config.production.yml, config.staging.yml) takes precedence
// when APP_ENV selects it and the caller passed the default path.
func Load(path string) (*Config, error) {
	path = resolveEnvSpecificPath(path, "config/config.yml", defaultConfigPaths)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scanner.DefaultThreshold <= 0 {
		cfg.Scanner.DefaultThreshold = 0.003
	}

	feedDefaults(&cfg.Source.Binance, "https://fapi.binance.com/fapi/v1/premiumIndex")
	feedDefaults(&cfg.Source.Bybit, "https://api.bybit.com")
	feedDefaults(&cfg.Source.Delta, "https://api.india.delta.exchange/v2/tickers")
	feedDefaults(&cfg.Source.Coindcx, "https://public.coindcx.com/market_data/v3/current_prices/futures/rt")

	orderDefaults(&cfg.Trading.Binance, "https://fapi.binance.com")
	orderDefaults(&cfg.Trading.Delta, "https://api.india.delta.exchange")
	orderDefaults(&cfg.Trading.Coindcx, "https://api.coindcx.com")

	if cfg.Metrics.CloudWatch.Region == "" {
		cfg.Metrics.CloudWatch.Region = strings.TrimSpace(os.Getenv("AWS_REGION"))
	}
}

func feedDefaults(fc *FeedConfig, url string) {
	if fc.URL == "" {
		fc.URL = url
	}
	if fc.Timeout <= 0 {
		fc.Timeout = 10 * time.Second
	}
	if fc.ConnectionPool.MaxIdleConns <= 0 {
		fc.ConnectionPool.MaxIdleConns = 10
	}
	if fc.ConnectionPool.MaxConnsPerHost <= 0 {
		fc.ConnectionPool.MaxConnsPerHost = 10
	}
	if fc.ConnectionPool.IdleConnTimeout <= 0 {
		fc.ConnectionPool.IdleConnTimeout = 90 * time.Second
	}
	if fc.RateLimit.RequestsPerSecond <= 0 {
		fc.RateLimit.RequestsPerSecond = 5
	}
	if fc.RateLimit.BurstSize <= 0 {
		fc.RateLimit.BurstSize = 1
	}
}

func orderDefaults(oc *OrderEndpointConfig, url string) {
	if oc.BaseURL == "" {
		oc.BaseURL = url
	}
	if oc.Timeout <= 0 {
		oc.Timeout = 15 * time.Second
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Arbflow.Name == "" {
		return fmt.Errorf("arbflow.name is required")
	}

	if cfg.Arbflow.Version == "" {
		return fmt.Errorf("arbflow.version is required")
	}

	if cfg.Scanner.DefaultThreshold <= 0 {
		return fmt.Errorf("scanner.default_threshold must be greater than 0")
	}

	for _, feed := range []struct {
		name string
		cfg  FeedConfig
	}{
		{"binance", cfg.Source.Binance},
		{"bybit", cfg.Source.Bybit},
		{"delta", cfg.Source.Delta},
		{"coindcx", cfg.Source.Coindcx},
	} {
		if feed.cfg.URL == "" {
			return fmt.Errorf("source.%s.url is required", feed.name)
		}
		if feed.cfg.Timeout <= 0 {
			return fmt.Errorf("source.%s.timeout must be greater than 0", feed.name)
		}
	}

	return nil
}
