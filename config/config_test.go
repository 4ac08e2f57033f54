package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
arbflow:
  name: arbflow
  version: 1.0.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scanner.DefaultThreshold != 0.003 {
		t.Errorf("default threshold = %v, want 0.003", cfg.Scanner.DefaultThreshold)
	}
	if cfg.Source.Binance.URL != "https://fapi.binance.com/fapi/v1/premiumIndex" {
		t.Errorf("binance url = %s", cfg.Source.Binance.URL)
	}
	if cfg.Source.Delta.Timeout != 10*time.Second {
		t.Errorf("delta timeout = %v, want 10s", cfg.Source.Delta.Timeout)
	}
	if cfg.Source.Coindcx.RateLimit.RequestsPerSecond != 5 {
		t.Errorf("coindcx rps = %d, want 5", cfg.Source.Coindcx.RateLimit.RequestsPerSecond)
	}
	if cfg.Trading.Delta.BaseURL != "https://api.india.delta.exchange" {
		t.Errorf("delta trading base = %s", cfg.Trading.Delta.BaseURL)
	}
	if cfg.Trading.Binance.Timeout != 15*time.Second {
		t.Errorf("binance trading timeout = %v, want 15s", cfg.Trading.Binance.Timeout)
	}
}

func TestLoadExplicitValuesSurvive(t *testing.T) {
	path := writeConfig(t, `
arbflow:
  name: arbflow
  version: 1.0.0
scanner:
  default_threshold: 0.005
  include_delta: true
source:
  delta:
    url: https://staging.delta.example/v2/tickers
    timeout: 3s
    rate_limit:
      requests_per_second: 2
      burst_size: 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Scanner.DefaultThreshold != 0.005 {
		t.Errorf("threshold = %v, want 0.005", cfg.Scanner.DefaultThreshold)
	}
	if !cfg.Scanner.IncludeDelta {
		t.Error("include_delta lost")
	}
	if cfg.Source.Delta.URL != "https://staging.delta.example/v2/tickers" {
		t.Errorf("delta url = %s", cfg.Source.Delta.URL)
	}
	if cfg.Source.Delta.Timeout != 3*time.Second {
		t.Errorf("delta timeout = %v, want 3s", cfg.Source.Delta.Timeout)
	}
	if cfg.Source.Delta.RateLimit.RequestsPerSecond != 2 {
		t.Errorf("delta rps = %d, want 2", cfg.Source.Delta.RateLimit.RequestsPerSecond)
	}
}

func TestLoadRejectsMissingIdentity(t *testing.T) {
	path := writeConfig(t, `
arbflow:
  version: 1.0.0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing name")
	}

	path = writeConfig(t, `
arbflow:
  name: arbflow
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing version")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestCredentialsFor(t *testing.T) {
	creds := Credentials{
		Binance: APICredentials{Key: "bk", Secret: "bs"},
		Delta:   APICredentials{Key: "dk", Secret: "ds"},
	}

	got, ok := creds.For("binance")
	if !ok || got.Key != "bk" {
		t.Fatalf("For(binance) = (%+v, %v)", got, ok)
	}
	got, ok = creds.For("Delta")
	if !ok || got.Key != "dk" {
		t.Fatalf("For(Delta) = (%+v, %v)", got, ok)
	}

	if _, ok := creds.For("Bybit"); ok {
		t.Fatal("bybit has no authenticated support")
	}

	got, ok = creds.For("CoinDCX")
	if !ok {
		t.Fatal("coindcx is a supported venue even with empty credentials")
	}
	if got.Configured() {
		t.Fatal("empty credentials must not report configured")
	}
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("DELTA_API_KEY", " dk ")
	t.Setenv("DELTA_API_SECRET", "ds")
	t.Setenv("COINDCX_API_KEY", "")
	t.Setenv("COINDCX_API_SECRET", "")

	creds := LoadCredentials()
	if creds.Delta.Key != "dk" {
		t.Errorf("delta key = %q, want whitespace trimmed", creds.Delta.Key)
	}
	if !creds.Delta.Configured() {
		t.Error("delta must be configured")
	}
	if creds.Coindcx.Configured() {
		t.Error("coindcx must not be configured")
	}
}

func TestResolveEnvSpecificPath(t *testing.T) {
	paths := map[string]string{"production": "config/config.production.yml"}

	t.Setenv("APP_ENV", "prod")
	if got := resolveEnvSpecificPath("config/config.yml", "config/config.yml", paths); got != "config/config.production.yml" {
		t.Fatalf("resolve = %s, want the production override", got)
	}
	if got := resolveEnvSpecificPath("custom.yml", "config/config.yml", paths); got != "custom.yml" {
		t.Fatalf("resolve = %s, explicit paths must win", got)
	}

	t.Setenv("APP_ENV", "")
	if got := resolveEnvSpecificPath("", "config/config.yml", paths); got != "config/config.yml" {
		t.Fatalf("resolve = %s, want the default", got)
	}
}
